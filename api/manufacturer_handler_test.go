package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/storage"
)

func TestManufacturerSearch(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	s.manufacturer(t, "Test Manufacturer", "Test Country")
	s.manufacturer(t, "Other Brand", "Elsewhere")

	w := s.get(URL(RouteManufacturerList) + "?name=Test")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Manufacturer")
	assert.NotContains(t, w.Body.String(), "Other Brand")

	w = s.get(URL(RouteManufacturerList) + "?name=tEsT")
	assert.Contains(t, w.Body.String(), "Test Manufacturer")

	w = s.get(URL(RouteManufacturerList) + "?name=")
	assert.Contains(t, w.Body.String(), "Test Manufacturer")
	assert.Contains(t, w.Body.String(), "Other Brand")

	w = s.get(URL(RouteManufacturerList) + "?name=zzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "There are no manufacturers in the service.")
}

func TestManufacturerCreate(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.get(URL(RouteManufacturerCreate))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.post(URL(RouteManufacturerCreate), url.Values{"name": {"New Manufacturer"}, "country": {"New Country"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteManufacturerList), w.Header().Get("Location"))

	m, err := s.stg.Manufacturer().GetByName(context.Background(), "New Manufacturer")
	require.NoError(t, err)
	assert.Equal(t, "New Country", m.Country)
}

func TestManufacturerCreateInvalid(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.post(URL(RouteManufacturerCreate), url.Values{"name": {""}, "country": {"New Country"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Contains(t, w.Body.String(), `value="New Country"`)

	count, err := s.stg.Manufacturer().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestManufacturerUpdate(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	m := s.manufacturer(t, "Test Manufacturer", "Test Country")

	w := s.get(URL(RouteManufacturerUpdate, m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Test Manufacturer"`)

	w = s.post(URL(RouteManufacturerUpdate, m.ID), url.Values{"name": {"Updated Name"}, "country": {"Updated Country"}})
	require.Equal(t, http.StatusFound, w.Code)

	got, err := s.stg.Manufacturer().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", got.Name)
	assert.Equal(t, "Updated Country", got.Country)

	w = s.post(URL(RouteManufacturerUpdate, m.ID), url.Values{"name": {""}, "country": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	got, err = s.stg.Manufacturer().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", got.Name)
}

func TestManufacturerMissing(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, URL(RouteManufacturerUpdate, 999)},
		{http.MethodPost, URL(RouteManufacturerUpdate, 999)},
		{http.MethodGet, URL(RouteManufacturerDelete, 999)},
		{http.MethodPost, URL(RouteManufacturerDelete, 999)},
		{http.MethodGet, "/manufacturers/abc/update/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := s.do(tt.method, tt.target, url.Values{"name": {"X"}, "country": {"Y"}})
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestManufacturerDelete(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	m := s.manufacturer(t, "Test Manufacturer", "Test Country")

	w := s.get(URL(RouteManufacturerDelete, m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Manufacturer")

	w = s.post(URL(RouteManufacturerDelete, m.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteManufacturerList), w.Header().Get("Location"))

	_, err := s.stg.Manufacturer().GetByID(context.Background(), m.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	w = s.post(URL(RouteManufacturerDelete, m.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManufacturerPagination(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	for i := 1; i <= 6; i++ {
		s.manufacturer(t, fmt.Sprintf("Brand %d", i), "Country")
	}

	w := s.get(URL(RouteManufacturerList))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Brand 5")
	assert.NotContains(t, w.Body.String(), "Brand 6")
	assert.Contains(t, w.Body.String(), "1 of 2")

	w = s.get(URL(RouteManufacturerList) + "?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Brand 6")

	for _, page := range []string{"3", "0", "abc"} {
		w = s.get(URL(RouteManufacturerList) + "?page=" + page)
		assert.Equal(t, http.StatusNotFound, w.Code, page)
	}
}
