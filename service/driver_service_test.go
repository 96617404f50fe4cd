package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/pkg/models"
	"taxifleet/storage"
)

func validDriverForm() models.DriverForm {
	return models.DriverForm{
		Username:      "test driver",
		FirstName:     "Test",
		LastName:      "Driver",
		Email:         "driver@example.com",
		LicenseNumber: "ABC12345",
		Password1:     "test pass123",
		Password2:     "test pass123",
	}
}

func TestDriverCreateHashesPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	d, err := f.svc.Driver().Create(ctx, validDriverForm())
	require.NoError(t, err)
	assert.NotEqual(t, "test pass123", d.PasswordHash)
	assert.NotEmpty(t, d.PasswordHash)

	got, err := f.svc.Driver().Authenticate(ctx, "test driver", "test pass123")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestDriverCreateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.DriverForm)
		want   map[string][]string
	}{
		{
			name:   "bad license",
			mutate: func(f *models.DriverForm) { f.LicenseNumber = "abc12345" },
			want:   map[string][]string{"license_number": {"License number must consist of 3 uppercase letters followed by 5 digits."}},
		},
		{
			name:   "short license",
			mutate: func(f *models.DriverForm) { f.LicenseNumber = "ABC1234" },
			want:   map[string][]string{"license_number": {"License number must consist of 3 uppercase letters followed by 5 digits."}},
		},
		{
			name:   "password mismatch",
			mutate: func(f *models.DriverForm) { f.Password2 = "something else" },
			want:   map[string][]string{"password2": {"The two password fields didn't match."}},
		},
		{
			name: "short password",
			mutate: func(f *models.DriverForm) {
				f.Password1 = "short"
				f.Password2 = "short"
			},
			want: map[string][]string{"password1": {"This password is too short. It must contain at least 8 characters."}},
		},
		{
			name: "long password",
			mutate: func(f *models.DriverForm) {
				f.Password1 = strings.Repeat("a", 80)
				f.Password2 = f.Password1
			},
			want: map[string][]string{"password1": {"This password is too long. It must contain at most 72 bytes."}},
		},
		{
			name: "long multibyte password",
			mutate: func(f *models.DriverForm) {
				f.Password1 = strings.Repeat("é", 40)
				f.Password2 = f.Password1
			},
			want: map[string][]string{"password1": {"This password is too long. It must contain at most 72 bytes."}},
		},
		{
			name:   "bad email",
			mutate: func(f *models.DriverForm) { f.Email = "not-an-email" },
			want:   map[string][]string{"email": {"Enter a valid email address."}},
		},
		{
			name:   "bad username",
			mutate: func(f *models.DriverForm) { f.Username = "bad/name" },
			want:   map[string][]string{"username": {"Enter a valid username. This value may contain only letters, numbers, spaces, and @/./+/-/_ characters."}},
		},
		{
			name:   "taken username",
			mutate: func(f *models.DriverForm) { f.Username = "existing" },
			want:   map[string][]string{"username": {msgUsernameTaken}},
		},
		{
			name:   "taken license",
			mutate: func(f *models.DriverForm) { f.LicenseNumber = "XYZ00001" },
			want:   map[string][]string{"license_number": {msgLicenseTaken}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.driver(t, "existing", "XYZ00001")

			form := validDriverForm()
			tt.mutate(&form)
			_, err := f.svc.Driver().Create(context.Background(), form)
			assert.Equal(t, tt.want, fieldErrors(t, err))

			count, err := f.stg.Driver().Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestDriverUpdateLicense(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.driver(t, "testuser", "ABC12345")
	f.driver(t, "other", "BCD12345")

	updated, err := f.svc.Driver().UpdateLicense(ctx, d.ID, models.LicenseForm{LicenseNumber: "XYZ98765"})
	require.NoError(t, err)
	assert.Equal(t, "XYZ98765", updated.LicenseNumber)

	_, err = f.svc.Driver().UpdateLicense(ctx, d.ID, models.LicenseForm{LicenseNumber: "BCD12345"})
	assert.Equal(t, map[string][]string{"license_number": {msgLicenseTaken}}, fieldErrors(t, err))

	_, err = f.svc.Driver().UpdateLicense(ctx, 9999, models.LicenseForm{LicenseNumber: "XYZ98765"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDriverAuthenticate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.driver(t, "testuser", "ABC12345")

	_, err := f.svc.Driver().Authenticate(ctx, "testuser", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Driver().Authenticate(ctx, "nobody", "testpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDriverDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.driver(t, "testuser", "ABC12345")

	require.NoError(t, f.svc.Driver().Delete(ctx, d.ID))
	_, err := f.svc.Driver().Identify(ctx, d.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, f.svc.Driver().Delete(ctx, d.ID), storage.ErrNotFound)
}

func TestDashboardCounts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.manufacturer(t, "Test Manufacturer", "Test Country")
	f.driver(t, "testuser", "ABC12345")
	_, err := f.svc.Car().Create(ctx, models.CarForm{Model: "Test Car", Manufacturer: idStr(m.ID)})
	require.NoError(t, err)

	counts, err := f.svc.Dashboard().Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Drivers: 1, Cars: 1, Manufacturers: 1}, counts)
}
