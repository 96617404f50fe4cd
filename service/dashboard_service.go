package service

import (
	"context"

	"taxifleet/storage"
)

type Counts struct {
	Drivers       int
	Cars          int
	Manufacturers int
}

type DashboardService interface {
	Counts(ctx context.Context) (Counts, error)
}

type dashboardService struct {
	stg storage.IStorage
}

func NewDashboardService(stg storage.IStorage) DashboardService {
	return &dashboardService{stg: stg}
}

func (s *dashboardService) Counts(ctx context.Context) (Counts, error) {
	var (
		c   Counts
		err error
	)
	if c.Drivers, err = s.stg.Driver().Count(ctx); err != nil {
		return Counts{}, err
	}
	if c.Cars, err = s.stg.Car().Count(ctx); err != nil {
		return Counts{}, err
	}
	if c.Manufacturers, err = s.stg.Manufacturer().Count(ctx); err != nil {
		return Counts{}, err
	}
	return c, nil
}
