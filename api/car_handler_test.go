package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

func (s *testServer) car(t *testing.T, model string, m *models.Manufacturer) *models.Car {
	t.Helper()
	car, err := s.svc.Car().Create(context.Background(), models.CarForm{
		Model:        model,
		Manufacturer: strconv.FormatInt(m.ID, 10),
	})
	require.NoError(t, err)
	return car
}

func TestCarSearch(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	m := s.manufacturer(t, "Test Manufacturer", "Test Country")
	s.car(t, "Test Car", m)
	s.car(t, "Sedan", m)

	w := s.get(URL(RouteCarList) + "?model=test")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Car")
	assert.NotContains(t, w.Body.String(), "Sedan")

	w = s.get(URL(RouteCarList))
	assert.Contains(t, w.Body.String(), "Test Car")
	assert.Contains(t, w.Body.String(), "Sedan")
}

func TestCarCreateAndUpdate(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	m := s.manufacturer(t, "Test Manufacturer", "Test Country")
	id := strconv.FormatInt(m.ID, 10)

	w := s.get(URL(RouteCarCreate))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Manufacturer")

	w = s.post(URL(RouteCarCreate), url.Values{
		"model":        {"Test Car"},
		"manufacturer": {id},
		"drivers":      {strconv.FormatInt(s.user.ID, 10)},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteCarList), w.Header().Get("Location"))

	cars, err := s.stg.Car().List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	car, err := s.stg.Car().GetByID(context.Background(), cars[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{s.user.ID}, car.DriverIDs())

	w = s.post(URL(RouteCarUpdate, car.ID), url.Values{"model": {"Updated Car"}, "manufacturer": {id}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteCarDetail, car.ID), w.Header().Get("Location"))

	car, err = s.stg.Car().GetByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Car", car.Model)
	assert.Empty(t, car.Drivers)
}

func TestCarCreateInvalid(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.post(URL(RouteCarCreate), url.Values{"model": {"Test Car"}, "manufacturer": {"999"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Select a valid choice.")

	count, err := s.stg.Car().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCarDetailAndToggleAssign(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	car := s.car(t, "Test Car", s.manufacturer(t, "Test Manufacturer", "Test Country"))

	w := s.get(URL(RouteCarDetail, car.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Assign me to this car")

	w = s.post(URL(RouteToggleCarAssign, car.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteCarDetail, car.ID), w.Header().Get("Location"))

	w = s.get(URL(RouteCarDetail, car.ID))
	assert.Contains(t, w.Body.String(), "Delete me from this car")
	assert.Contains(t, w.Body.String(), "testuser")

	s.post(URL(RouteToggleCarAssign, car.ID), nil)
	got, err := s.stg.Car().GetByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Drivers)

	w = s.post(URL(RouteToggleCarAssign, 999), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCarDelete(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	car := s.car(t, "Test Car", s.manufacturer(t, "Test Manufacturer", "Test Country"))

	w := s.get(URL(RouteCarDelete, car.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.post(URL(RouteCarDelete, car.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)

	_, err := s.stg.Car().GetByID(context.Background(), car.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	w = s.post(URL(RouteCarDelete, car.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.get(URL(RouteCarDetail, car.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
