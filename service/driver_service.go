package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const KindDriver = "driver"

var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	msgUsernameTaken = "A user with that username already exists."
	msgLicenseTaken  = "Driver with this License number already exists."
)

type DriverService interface {
	List(ctx context.Context, username string, page int) (models.Page[*models.Driver], error)
	All(ctx context.Context) ([]*models.Driver, error)
	// Get returns the driver with Cars loaded.
	Get(ctx context.Context, id int64) (*models.Driver, error)
	// Identify resolves a session's driver id without loading cars.
	Identify(ctx context.Context, id int64) (*models.Driver, error)
	Create(ctx context.Context, form models.DriverForm) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, form models.LicenseForm) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, username, password string) (*models.Driver, error)
}

type driverService struct {
	stg        storage.IStorage
	log        logger.ILogger
	validate   *validator.Validate
	notifier   Notifier
	paginateBy int
}

func NewDriverService(stg storage.IStorage, log logger.ILogger, v *validator.Validate, opts Options) DriverService {
	return &driverService{
		stg:        stg,
		log:        log,
		validate:   v,
		notifier:   opts.Notifier,
		paginateBy: opts.PaginateBy,
	}
}

func (s *driverService) List(ctx context.Context, username string, page int) (models.Page[*models.Driver], error) {
	list, err := s.stg.Driver().List(ctx, username)
	if err != nil {
		return models.Page[*models.Driver]{}, err
	}
	return models.Paginate(list, page, s.paginateBy)
}

func (s *driverService) All(ctx context.Context) ([]*models.Driver, error) {
	return s.stg.Driver().List(ctx, "")
}

func (s *driverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.stg.Driver().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Cars, err = s.stg.Car().ListByDriver(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) Identify(ctx context.Context, id int64) (*models.Driver, error) {
	return s.stg.Driver().GetByID(ctx, id)
}

// licenseTaken reports whether another driver holds license.
func (s *driverService) licenseTaken(ctx context.Context, license string, id int64) (bool, error) {
	other, err := s.stg.Driver().GetByLicense(ctx, license)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return other.ID != id, nil
}

func (s *driverService) Create(ctx context.Context, form models.DriverForm) (*models.Driver, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.LicenseNumber = strings.TrimSpace(form.LicenseNumber)

	verr := validateForm(s.validate, &form)
	if _, ok := verr.Fields["username"]; !ok {
		_, err := s.stg.Driver().GetByUsername(ctx, form.Username)
		switch {
		case err == nil:
			verr.Add("username", msgUsernameTaken)
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
	}
	if _, ok := verr.Fields["license_number"]; !ok {
		taken, err := s.licenseTaken(ctx, form.LicenseNumber, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("license_number", msgLicenseTaken)
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(form.Password1)
	if err != nil {
		return nil, err
	}

	d, err := s.stg.Driver().Create(ctx, &models.Driver{
		Username:      form.Username,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		LicenseNumber: form.LicenseNumber,
		PasswordHash:  hash,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, &ValidationError{Fields: map[string][]string{NonFieldErrors: {msgUsernameTaken}}}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("driver created", logger.Int64("id", d.ID), logger.String("username", d.Username))
	notify(ctx, s.notifier, ActionCreated, KindDriver, d.ID, d.Username)
	return d, nil
}

func (s *driverService) UpdateLicense(ctx context.Context, id int64, form models.LicenseForm) (*models.Driver, error) {
	if _, err := s.stg.Driver().GetByID(ctx, id); err != nil {
		return nil, err
	}

	form.LicenseNumber = strings.TrimSpace(form.LicenseNumber)
	verr := validateForm(s.validate, &form)
	if verr.empty() {
		taken, err := s.licenseTaken(ctx, form.LicenseNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("license_number", msgLicenseTaken)
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	d, err := s.stg.Driver().UpdateLicense(ctx, id, form.LicenseNumber)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, &ValidationError{Fields: map[string][]string{"license_number": {msgLicenseTaken}}}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("driver license updated", logger.Int64("id", id))
	notify(ctx, s.notifier, ActionUpdated, KindDriver, d.ID, d.Username)
	return d, nil
}

func (s *driverService) Delete(ctx context.Context, id int64) error {
	d, err := s.stg.Driver().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stg.Driver().Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("driver deleted", logger.Int64("id", id))
	notify(ctx, s.notifier, ActionDeleted, KindDriver, id, d.Username)
	return nil
}

func (s *driverService) Authenticate(ctx context.Context, username, password string) (*models.Driver, error) {
	d, err := s.stg.Driver().GetByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(d.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Warning("failed login", logger.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return d, nil
}
