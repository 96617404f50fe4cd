package auth

import (
	"context"

	"taxifleet/pkg/models"
)

type contextKey string

const driverContextKey = contextKey("driver")

// WithDriver returns ctx carrying the authenticated driver.
func WithDriver(ctx context.Context, d *models.Driver) context.Context {
	return context.WithValue(ctx, driverContextKey, d)
}

// DriverFrom returns the authenticated driver or nil.
func DriverFrom(ctx context.Context) *models.Driver {
	d, ok := ctx.Value(driverContextKey).(*models.Driver)
	if !ok {
		return nil
	}
	return d
}
