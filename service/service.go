package service

import (
	"taxifleet/pkg/logger"
	"taxifleet/storage"
)

type IServiceManager interface {
	Manufacturer() ManufacturerService
	Car() CarService
	Driver() DriverService
	Dashboard() DashboardService
}

type Options struct {
	// PaginateBy is the list page size; 0 disables pagination.
	PaginateBy int
	// Notifier receives committed changes; nil drops them.
	Notifier Notifier
}

type service struct {
	manufacturerService ManufacturerService
	carService          CarService
	driverService       DriverService
	dashboardService    DashboardService
}

func New(stg storage.IStorage, log logger.ILogger, opts Options) IServiceManager {
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	v := newValidator()
	return &service{
		manufacturerService: NewManufacturerService(stg, log, v, opts),
		carService:          NewCarService(stg, log, v, opts),
		driverService:       NewDriverService(stg, log, v, opts),
		dashboardService:    NewDashboardService(stg),
	}
}

func (s *service) Manufacturer() ManufacturerService {
	return s.manufacturerService
}

func (s *service) Car() CarService {
	return s.carService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Dashboard() DashboardService {
	return s.dashboardService
}

