package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

func idStr(id int64) string { return strconv.FormatInt(id, 10) }

func TestCarCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.manufacturer(t, "Test Manufacturer", "Test Country")
	d := f.driver(t, "testuser", "ABC12345")

	car, err := f.svc.Car().Create(auth.WithDriver(ctx, d), models.CarForm{
		Model:        "Test Car",
		Manufacturer: idStr(m.ID),
		Drivers:      []string{idStr(d.ID), idStr(d.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Car", car.Model)
	assert.Equal(t, "Test Manufacturer", car.Manufacturer.Name)
	assert.Equal(t, []int64{d.ID}, car.DriverIDs())

	events := f.notifier.Events()
	assert.Equal(t, Event{Action: ActionCreated, Kind: KindCar, ID: car.ID, Label: "Test Car", By: "testuser"}, events[len(events)-1])
}

func TestCarCreateInvalid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.manufacturer(t, "Test Manufacturer", "Test Country")

	tests := []struct {
		name string
		form models.CarForm
		want map[string][]string
	}{
		{
			name: "empty",
			form: models.CarForm{},
			want: map[string][]string{
				"model":        {"This field is required."},
				"manufacturer": {"This field is required."},
			},
		},
		{
			name: "unknown manufacturer",
			form: models.CarForm{Model: "Test Car", Manufacturer: "9999"},
			want: map[string][]string{
				"manufacturer": {"Select a valid choice. That choice is not one of the available choices."},
			},
		},
		{
			name: "garbage manufacturer",
			form: models.CarForm{Model: "Test Car", Manufacturer: "abc"},
			want: map[string][]string{
				"manufacturer": {"Select a valid choice. That choice is not one of the available choices."},
			},
		},
		{
			name: "unknown driver",
			form: models.CarForm{Model: "Test Car", Manufacturer: idStr(m.ID), Drivers: []string{"9999"}},
			want: map[string][]string{
				"drivers": {"Select a valid choice. 9999 is not one of the available choices."},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Car().Create(ctx, tt.form)
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}

	count, err := f.stg.Car().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCarUpdateAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.manufacturer(t, "Test Manufacturer", "Test Country")
	other := f.manufacturer(t, "Other", "Elsewhere")
	car, err := f.svc.Car().Create(ctx, models.CarForm{Model: "Test Car", Manufacturer: idStr(m.ID)})
	require.NoError(t, err)

	updated, err := f.svc.Car().Update(ctx, car.ID, models.CarForm{Model: "Updated", Manufacturer: idStr(other.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Model)
	assert.Equal(t, other.ID, updated.ManufacturerID)

	_, err = f.svc.Car().Update(ctx, 9999, models.CarForm{Model: "Ghost", Manufacturer: idStr(m.ID)})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, f.svc.Car().Delete(ctx, car.ID))
	assert.ErrorIs(t, f.svc.Car().Delete(ctx, car.ID), storage.ErrNotFound)
}

func TestCarToggleAssign(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.manufacturer(t, "Test Manufacturer", "Test Country")
	d := f.driver(t, "testuser", "ABC12345")
	car, err := f.svc.Car().Create(ctx, models.CarForm{Model: "Test Car", Manufacturer: idStr(m.ID)})
	require.NoError(t, err)

	assigned, err := f.svc.Car().ToggleAssign(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	got, err := f.svc.Driver().Get(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Cars, 1)
	assert.Equal(t, car.ID, got.Cars[0].ID)

	assigned, err = f.svc.Car().ToggleAssign(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, assigned)

	got, err = f.svc.Driver().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Cars)

	toggled := Event{Action: ActionUpdated, Kind: KindCar, ID: car.ID, Label: "Test Car"}
	events := f.notifier.Events()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, []Event{toggled, toggled}, events[len(events)-2:])

	before := len(events)
	_, err = f.svc.Car().ToggleAssign(ctx, 9999, d.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Len(t, f.notifier.Events(), before)
}
