// Package storagetest is a conformance suite every storage backend must
// pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
	"taxifleet/storage"
)

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

// Run executes the suite. open must return an empty store; Run closes it.
func Run(t *testing.T, open func(t *testing.T) storage.IStorage) {
	tests := []struct {
		name string
		fn   func(t *testing.T, stg storage.IStorage)
	}{
		{"ManufacturerLifecycle", testManufacturerLifecycle},
		{"ManufacturerUniqueName", testManufacturerUniqueName},
		{"ManufacturerSearch", testManufacturerSearch},
		{"CarLifecycle", testCarLifecycle},
		{"CarRequiresManufacturer", testCarRequiresManufacturer},
		{"CarDrivers", testCarDrivers},
		{"ManufacturerDeleteCascades", testManufacturerDeleteCascades},
		{"CarSearchMatchesFilter", testCarSearchMatchesFilter},
		{"DriverLifecycle", testDriverLifecycle},
		{"DriverUnique", testDriverUnique},
		{"DriverSearch", testDriverSearch},
		{"Reset", testReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stg := open(t)
			t.Cleanup(stg.Close)
			tt.fn(t, stg)
		})
	}
}

func mustManufacturer(t testingT, stg storage.IStorage, name, country string) *models.Manufacturer {
	t.Helper()
	m, err := stg.Manufacturer().Create(context.Background(), &models.Manufacturer{Name: name, Country: country})
	require.NoError(t, err)
	return m
}

func mustDriver(t testingT, stg storage.IStorage, username, license string) *models.Driver {
	t.Helper()
	d, err := stg.Driver().Create(context.Background(), &models.Driver{
		Username:      username,
		LicenseNumber: license,
		PasswordHash:  "hash",
	})
	require.NoError(t, err)
	return d
}

func mustCar(t testingT, stg storage.IStorage, model string, manufacturerID int64, driverIDs ...int64) *models.Car {
	t.Helper()
	c, err := stg.Car().Create(context.Background(), &models.Car{Model: model, ManufacturerID: manufacturerID}, driverIDs)
	require.NoError(t, err)
	return c
}

func testManufacturerLifecycle(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Manufacturer()

	created := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, err := repo.Update(ctx, &models.Manufacturer{ID: created.ID, Name: "Updated Name", Country: "Updated Country"})
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", updated.Name)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", got.Name)
	assert.Equal(t, "Updated Country", got.Country)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), storage.ErrNotFound)

	_, err = repo.Update(ctx, &models.Manufacturer{ID: created.ID, Name: "Ghost", Country: "Nowhere"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testManufacturerUniqueName(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Manufacturer()

	first := mustManufacturer(t, stg, "Toyota", "Japan")
	second := mustManufacturer(t, stg, "Honda", "Japan")

	_, err := repo.Create(ctx, &models.Manufacturer{Name: "Toyota", Country: "Elsewhere"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = repo.Update(ctx, &models.Manufacturer{ID: second.ID, Name: "Toyota", Country: "Japan"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := repo.GetByName(ctx, "Toyota")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.GetByName(ctx, "Lada")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testManufacturerSearch(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Manufacturer()

	mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	mustManufacturer(t, stg, "Another test", "Test Country")
	mustManufacturer(t, stg, "Volvo", "Sweden")

	names := func(list []*models.Manufacturer) []string {
		out := make([]string, 0, len(list))
		for _, m := range list {
			out = append(out, m.Name)
		}
		return out
	}

	list, err := repo.List(ctx, "Test")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Test Manufacturer", "Another test"}, names(list))

	list, err = repo.List(ctx, "VOLVO")
	require.NoError(t, err)
	assert.Equal(t, []string{"Volvo"}, names(list))

	list, err = repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = repo.List(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testCarLifecycle(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Car()
	m := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	other := mustManufacturer(t, stg, "Other", "Elsewhere")

	car := mustCar(t, stg, "Test Car", m.ID)
	require.NotNil(t, car.Manufacturer)
	assert.Equal(t, "Test Manufacturer", car.Manufacturer.Name)
	assert.Empty(t, car.Drivers)

	updated, err := repo.Update(ctx, &models.Car{ID: car.ID, Model: "Renamed", ManufacturerID: other.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Model)
	assert.Equal(t, other.ID, updated.Manufacturer.ID)

	list, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Other", list[0].Manufacturer.Name)

	require.NoError(t, repo.Delete(ctx, car.ID))
	_, err = repo.GetByID(ctx, car.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, car.ID), storage.ErrNotFound)

	_, err = repo.Update(ctx, &models.Car{ID: car.ID, Model: "Ghost", ManufacturerID: m.ID}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testCarRequiresManufacturer(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()

	_, err := stg.Car().Create(ctx, &models.Car{Model: "Orphan", ManufacturerID: 9999}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	m := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	_, err = stg.Car().Create(ctx, &models.Car{Model: "Ghost driven", ManufacturerID: m.ID}, []int64{9999})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := stg.Car().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testCarDrivers(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Car()
	m := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	alice := mustDriver(t, stg, "alice", "ABC12345")
	bob := mustDriver(t, stg, "bob", "BCD12345")

	car := mustCar(t, stg, "Test Car", m.ID, bob.ID, alice.ID)
	require.Len(t, car.Drivers, 2)
	assert.Equal(t, "alice", car.Drivers[0].Username)
	assert.True(t, car.HasDriver(bob.ID))

	require.NoError(t, repo.RemoveDriver(ctx, car.ID, bob.ID))
	require.NoError(t, repo.RemoveDriver(ctx, car.ID, bob.ID))
	got, err := repo.GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice.ID}, got.DriverIDs())

	require.NoError(t, repo.AddDriver(ctx, car.ID, bob.ID))
	require.NoError(t, repo.AddDriver(ctx, car.ID, bob.ID))
	got, err = repo.GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Len(t, got.Drivers, 2)

	cars, err := repo.ListByDriver(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, car.ID, cars[0].ID)

	assert.ErrorIs(t, repo.AddDriver(ctx, 9999, bob.ID), storage.ErrNotFound)
	assert.ErrorIs(t, repo.AddDriver(ctx, car.ID, 9999), storage.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveDriver(ctx, 9999, bob.ID), storage.ErrNotFound)

	require.NoError(t, stg.Driver().Delete(ctx, alice.ID))
	got, err = repo.GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, got.DriverIDs())
}

func testManufacturerDeleteCascades(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	m := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	keep := mustManufacturer(t, stg, "Keeper", "Test Country")
	d := mustDriver(t, stg, "alice", "ABC12345")
	gone := mustCar(t, stg, "Gone", m.ID, d.ID)
	kept := mustCar(t, stg, "Kept", keep.ID)

	require.NoError(t, stg.Manufacturer().Delete(ctx, m.ID))

	_, err := stg.Car().GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = stg.Car().GetByID(ctx, kept.ID)
	assert.NoError(t, err)

	cars, err := stg.Car().ListByDriver(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

// testCarSearchMatchesFilter checks the backend's pushed-down search against
// the reference filter in pkg/search.
func testCarSearchMatchesFilter(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		require.NoError(rt, stg.Reset(ctx))
		m := mustManufacturer(rt, stg, "Test Manufacturer", "Test Country")

		carModels := rapid.SliceOfN(rapid.StringMatching(`[A-Za-zÀ-ÿŠšŽžŸ ]{1,12}`), 0, 8).Draw(rt, "models")
		query := rapid.StringMatching(`[A-Za-zÀ-ÿŠšŽžŸ]{0,3}`).Draw(rt, "query")

		for _, model := range carModels {
			mustCar(rt, stg, model, m.ID)
		}

		got, err := stg.Car().List(ctx, query)
		require.NoError(rt, err)

		want := search.Filter(carModels, query, func(s string) string { return s })
		gotModels := make([]string, 0, len(got))
		for _, c := range got {
			gotModels = append(gotModels, c.Model)
		}
		assert.ElementsMatch(rt, want, gotModels)
	})
}

func testDriverLifecycle(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Driver()

	d, err := repo.Create(ctx, &models.Driver{
		Username:      "test driver",
		FirstName:     "Test",
		LastName:      "Driver",
		Email:         "test@example.com",
		LicenseNumber: "ABC12345",
		PasswordHash:  "hash",
	})
	require.NoError(t, err)
	assert.NotZero(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, "Test Driver", d.FullName())

	got, err := repo.GetByUsername(ctx, "test driver")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = repo.GetByLicense(ctx, "ABC12345")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	updated, err := repo.UpdateLicense(ctx, d.ID, "XYZ98765")
	require.NoError(t, err)
	assert.Equal(t, "XYZ98765", updated.LicenseNumber)

	list, err := repo.GetByIDs(ctx, []int64{d.ID, 9999})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, d.ID))
	_, err = repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, d.ID), storage.ErrNotFound)

	_, err = repo.UpdateLicense(ctx, d.ID, "ABC12345")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDriverUnique(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	repo := stg.Driver()
	mustDriver(t, stg, "alice", "ABC12345")
	bob := mustDriver(t, stg, "bob", "BCD12345")

	_, err := repo.Create(ctx, &models.Driver{Username: "alice", LicenseNumber: "CDE12345", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = repo.Create(ctx, &models.Driver{Username: "carol", LicenseNumber: "ABC12345", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = repo.UpdateLicense(ctx, bob.ID, "ABC12345")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func testDriverSearch(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	mustDriver(t, stg, "test driver", "ABC12345")
	mustDriver(t, stg, "Tester", "BCD12345")
	mustDriver(t, stg, "alice", "CDE12345")

	list, err := stg.Driver().List(ctx, "test")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = stg.Driver().List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = stg.Driver().List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testReset(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	m := mustManufacturer(t, stg, "Test Manufacturer", "Test Country")
	d := mustDriver(t, stg, "alice", "ABC12345")
	mustCar(t, stg, "Test Car", m.ID, d.ID)

	require.NoError(t, stg.Reset(ctx))

	for name, count := range map[string]func(context.Context) (int, error){
		"manufacturers": stg.Manufacturer().Count,
		"cars":          stg.Car().Count,
		"drivers":       stg.Driver().Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}
}
