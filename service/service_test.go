package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
	"taxifleet/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(_ context.Context, e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

type fixture struct {
	stg      storage.IStorage
	svc      IServiceManager
	notifier *recordingNotifier
}

func setup(t *testing.T) *fixture {
	t.Helper()
	stg := memory.New(logger.NewNop())
	n := &recordingNotifier{}
	return &fixture{
		stg:      stg,
		svc:      New(stg, logger.NewNop(), Options{PaginateBy: 5, Notifier: n}),
		notifier: n,
	}
}

func (f *fixture) manufacturer(t *testing.T, name, country string) *models.Manufacturer {
	t.Helper()
	m, err := f.svc.Manufacturer().Create(context.Background(), models.ManufacturerForm{Name: name, Country: country})
	require.NoError(t, err)
	return m
}

func (f *fixture) driver(t *testing.T, username, license string) *models.Driver {
	t.Helper()
	d, err := f.svc.Driver().Create(context.Background(), models.DriverForm{
		Username:      username,
		LicenseNumber: license,
		Password1:     "testpass123",
		Password2:     "testpass123",
	})
	require.NoError(t, err)
	return d
}

// fieldErrors asserts err is a *ValidationError and returns its fields.
func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
