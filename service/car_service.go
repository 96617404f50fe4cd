package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const KindCar = "car"

type CarService interface {
	List(ctx context.Context, model string, page int) (models.Page[*models.Car], error)
	Get(ctx context.Context, id int64) (*models.Car, error)
	Create(ctx context.Context, form models.CarForm) (*models.Car, error)
	Update(ctx context.Context, id int64, form models.CarForm) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	// ToggleAssign adds the driver to the car, or removes them if already
	// assigned, and reports whether the driver is assigned afterwards.
	ToggleAssign(ctx context.Context, carID, driverID int64) (bool, error)
}

type carService struct {
	stg        storage.IStorage
	log        logger.ILogger
	validate   *validator.Validate
	notifier   Notifier
	paginateBy int
}

func NewCarService(stg storage.IStorage, log logger.ILogger, v *validator.Validate, opts Options) CarService {
	return &carService{
		stg:        stg,
		log:        log,
		validate:   v,
		notifier:   opts.Notifier,
		paginateBy: opts.PaginateBy,
	}
}

func (s *carService) List(ctx context.Context, model string, page int) (models.Page[*models.Car], error) {
	list, err := s.stg.Car().List(ctx, model)
	if err != nil {
		return models.Page[*models.Car]{}, err
	}
	return models.Paginate(list, page, s.paginateBy)
}

func (s *carService) Get(ctx context.Context, id int64) (*models.Car, error) {
	return s.stg.Car().GetByID(ctx, id)
}

// clean validates the form and resolves its manufacturer and driver ids.
func (s *carService) clean(ctx context.Context, form *models.CarForm) (int64, []int64, error) {
	form.Model = strings.TrimSpace(form.Model)
	form.Manufacturer = strings.TrimSpace(form.Manufacturer)

	verr := validateForm(s.validate, form)

	var manufacturerID int64
	if _, ok := verr.Fields["manufacturer"]; !ok {
		id, err := strconv.ParseInt(form.Manufacturer, 10, 64)
		if err == nil {
			_, err = s.stg.Manufacturer().GetByID(ctx, id)
		}
		switch {
		case err == nil:
			manufacturerID = id
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, strconv.ErrSyntax), errors.Is(err, strconv.ErrRange):
			verr.Add("manufacturer", "Select a valid choice. That choice is not one of the available choices.")
		default:
			return 0, nil, err
		}
	}

	driverIDs := make([]int64, 0, len(form.Drivers))
	seen := make(map[int64]bool, len(form.Drivers))
	for _, raw := range form.Drivers {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			verr.Add("drivers", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
			continue
		}
		if !seen[id] {
			seen[id] = true
			driverIDs = append(driverIDs, id)
		}
	}
	if len(driverIDs) > 0 {
		found, err := s.stg.Driver().GetByIDs(ctx, driverIDs)
		if err != nil {
			return 0, nil, err
		}
		known := make(map[int64]bool, len(found))
		for _, d := range found {
			known[d.ID] = true
		}
		for _, id := range driverIDs {
			if !known[id] {
				verr.Add("drivers", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
			}
		}
	}

	return manufacturerID, driverIDs, verr.orNil()
}

func (s *carService) Create(ctx context.Context, form models.CarForm) (*models.Car, error) {
	manufacturerID, driverIDs, err := s.clean(ctx, &form)
	if err != nil {
		return nil, err
	}

	car, err := s.stg.Car().Create(ctx, &models.Car{Model: form.Model, ManufacturerID: manufacturerID}, driverIDs)
	if err != nil {
		return nil, err
	}

	s.log.Info("car created", logger.Int64("id", car.ID), logger.String("model", car.Model))
	notify(ctx, s.notifier, ActionCreated, KindCar, car.ID, car.Model)
	return car, nil
}

func (s *carService) Update(ctx context.Context, id int64, form models.CarForm) (*models.Car, error) {
	if _, err := s.stg.Car().GetByID(ctx, id); err != nil {
		return nil, err
	}
	manufacturerID, driverIDs, err := s.clean(ctx, &form)
	if err != nil {
		return nil, err
	}

	car, err := s.stg.Car().Update(ctx, &models.Car{ID: id, Model: form.Model, ManufacturerID: manufacturerID}, driverIDs)
	if err != nil {
		return nil, err
	}

	s.log.Info("car updated", logger.Int64("id", car.ID), logger.String("model", car.Model))
	notify(ctx, s.notifier, ActionUpdated, KindCar, car.ID, car.Model)
	return car, nil
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	car, err := s.stg.Car().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stg.Car().Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("car deleted", logger.Int64("id", id))
	notify(ctx, s.notifier, ActionDeleted, KindCar, id, car.Model)
	return nil
}

func (s *carService) ToggleAssign(ctx context.Context, carID, driverID int64) (bool, error) {
	car, err := s.stg.Car().GetByID(ctx, carID)
	if err != nil {
		return false, err
	}

	assigned := !car.HasDriver(driverID)
	if assigned {
		err = s.stg.Car().AddDriver(ctx, carID, driverID)
	} else {
		err = s.stg.Car().RemoveDriver(ctx, carID, driverID)
	}
	if err != nil {
		return false, err
	}

	s.log.Info("car driver toggled",
		logger.Int64("car_id", carID), logger.Int64("driver_id", driverID), logger.Bool("assigned", assigned))
	notify(ctx, s.notifier, ActionUpdated, KindCar, car.ID, car.Model)
	return assigned, nil
}
