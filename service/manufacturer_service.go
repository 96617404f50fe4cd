package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const KindManufacturer = "manufacturer"

type ManufacturerService interface {
	List(ctx context.Context, name string, page int) (models.Page[*models.Manufacturer], error)
	All(ctx context.Context) ([]*models.Manufacturer, error)
	Get(ctx context.Context, id int64) (*models.Manufacturer, error)
	Create(ctx context.Context, form models.ManufacturerForm) (*models.Manufacturer, error)
	Update(ctx context.Context, id int64, form models.ManufacturerForm) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
}

type manufacturerService struct {
	stg        storage.IManufacturerStorage
	log        logger.ILogger
	validate   *validator.Validate
	notifier   Notifier
	paginateBy int
}

func NewManufacturerService(stg storage.IStorage, log logger.ILogger, v *validator.Validate, opts Options) ManufacturerService {
	return &manufacturerService{
		stg:        stg.Manufacturer(),
		log:        log,
		validate:   v,
		notifier:   opts.Notifier,
		paginateBy: opts.PaginateBy,
	}
}

func (s *manufacturerService) List(ctx context.Context, name string, page int) (models.Page[*models.Manufacturer], error) {
	list, err := s.stg.List(ctx, name)
	if err != nil {
		return models.Page[*models.Manufacturer]{}, err
	}
	return models.Paginate(list, page, s.paginateBy)
}

func (s *manufacturerService) All(ctx context.Context) ([]*models.Manufacturer, error) {
	return s.stg.List(ctx, "")
}

func (s *manufacturerService) Get(ctx context.Context, id int64) (*models.Manufacturer, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *manufacturerService) clean(ctx context.Context, form *models.ManufacturerForm, id int64) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Country = strings.TrimSpace(form.Country)

	verr := validateForm(s.validate, form)
	if _, ok := verr.Fields["name"]; !ok {
		existing, err := s.stg.GetByName(ctx, form.Name)
		switch {
		case err == nil && existing.ID != id:
			verr.Add("name", "Manufacturer with this Name already exists.")
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}
	return verr.orNil()
}

func (s *manufacturerService) Create(ctx context.Context, form models.ManufacturerForm) (*models.Manufacturer, error) {
	if err := s.clean(ctx, &form, 0); err != nil {
		return nil, err
	}

	m, err := s.stg.Create(ctx, &models.Manufacturer{Name: form.Name, Country: form.Country})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, &ValidationError{Fields: map[string][]string{"name": {"Manufacturer with this Name already exists."}}}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("manufacturer created", logger.Int64("id", m.ID), logger.String("name", m.Name))
	notify(ctx, s.notifier, ActionCreated, KindManufacturer, m.ID, m.Name)
	return m, nil
}

func (s *manufacturerService) Update(ctx context.Context, id int64, form models.ManufacturerForm) (*models.Manufacturer, error) {
	if _, err := s.stg.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.clean(ctx, &form, id); err != nil {
		return nil, err
	}

	m, err := s.stg.Update(ctx, &models.Manufacturer{ID: id, Name: form.Name, Country: form.Country})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, &ValidationError{Fields: map[string][]string{"name": {"Manufacturer with this Name already exists."}}}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("manufacturer updated", logger.Int64("id", m.ID), logger.String("name", m.Name))
	notify(ctx, s.notifier, ActionUpdated, KindManufacturer, m.ID, m.Name)
	return m, nil
}

func (s *manufacturerService) Delete(ctx context.Context, id int64) error {
	m, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("manufacturer deleted", logger.Int64("id", id))
	notify(ctx, s.notifier, ActionDeleted, KindManufacturer, id, m.Name)
	return nil
}
