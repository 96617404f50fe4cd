package storage

import (
	"context"
	"errors"

	"taxifleet/pkg/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type IStorage interface {
	Manufacturer() IManufacturerStorage
	Car() ICarStorage
	Driver() IDriverStorage
	// Reset removes every row, keeping the schema.
	Reset(ctx context.Context) error
	Close()
}

// List methods take the raw search query; an empty query lists everything.
// Results are ordered by the searched field, then id.

type IManufacturerStorage interface {
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	GetByName(ctx context.Context, name string) (*models.Manufacturer, error)
	List(ctx context.Context, name string) ([]*models.Manufacturer, error)
	Count(ctx context.Context) (int, error)
}

// ICarStorage returns cars with Manufacturer populated. GetByID also loads
// Drivers.
type ICarStorage interface {
	Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error)
	Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, model string) ([]*models.Car, error)
	ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error)
	AddDriver(ctx context.Context, carID, driverID int64) error
	RemoveDriver(ctx context.Context, carID, driverID int64) error
	Count(ctx context.Context) (int, error)
}

type IDriverStorage interface {
	Create(ctx context.Context, d *models.Driver) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, license string) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetByLicense(ctx context.Context, license string) (*models.Driver, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error)
	List(ctx context.Context, username string) ([]*models.Driver, error)
	Count(ctx context.Context) (int, error)
}
