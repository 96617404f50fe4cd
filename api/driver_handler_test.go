package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

func TestDriverSearch(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)
	_, err := s.svc.Driver().Create(context.Background(), models.DriverForm{
		Username:      "another",
		LicenseNumber: "ANO12345",
		Password1:     "testpass123",
		Password2:     "testpass123",
	})
	require.NoError(t, err)

	w := s.get(URL(RouteDriverList) + "?username=TEST")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "testuser")
	assert.Contains(t, w.Body.String(), "(Me)")
	assert.NotContains(t, w.Body.String(), "another")
}

func TestDriverCreate(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	form := url.Values{
		"username":       {"test driver"},
		"first_name":     {"Test"},
		"last_name":      {"Driver"},
		"license_number": {"ABC12345"},
		"password1":      {"test pass123"},
		"password2":      {"test pass123"},
	}
	w := s.post(URL(RouteDriverCreate), form)
	require.Equal(t, http.StatusFound, w.Code)

	d, err := s.stg.Driver().GetByUsername(context.Background(), "test driver")
	require.NoError(t, err)
	assert.Equal(t, URL(RouteDriverDetail, d.ID), w.Header().Get("Location"))
	assert.Equal(t, "ABC12345", d.LicenseNumber)
	assert.NotEqual(t, "test pass123", d.PasswordHash)

	w = s.get(URL(RouteDriverDetail, d.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test Driver")
}

func TestDriverCreateInvalid(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.post(URL(RouteDriverCreate), url.Values{
		"username":       {"test driver"},
		"license_number": {"abc"},
		"password1":      {"test pass123"},
		"password2":      {"test pass123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "License number must consist of 3 uppercase letters followed by 5 digits.")
	assert.NotContains(t, w.Body.String(), "test pass123")

	count, err := s.stg.Driver().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDriverUpdateLicense(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.get(URL(RouteDriverUpdate, s.user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TST12345")

	w = s.post(URL(RouteDriverUpdate, s.user.ID), url.Values{"license_number": {"NEW54321"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteDriverList), w.Header().Get("Location"))

	d, err := s.stg.Driver().GetByID(context.Background(), s.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW54321", d.LicenseNumber)

	w = s.post(URL(RouteDriverUpdate, s.user.ID), url.Values{"license_number": {"bad"}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.post(URL(RouteDriverUpdate, 999), url.Values{"license_number": {"NEW54321"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDriverDeleteSelfEndsSession(t *testing.T) {
	s := newTestServer(t, html(t))
	s.login(t)

	w := s.get(URL(RouteDriverDelete, s.user.ID))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.post(URL(RouteDriverDelete, s.user.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, URL(RouteDriverList), w.Header().Get("Location"))

	_, err := s.stg.Driver().GetByID(context.Background(), s.user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	w = s.get(URL(RouteDriverList))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, loginURL(URL(RouteDriverList)), w.Header().Get("Location"))
}
