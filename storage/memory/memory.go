// Package memory is an IStorage kept in process memory. It backs the
// "memory" DB driver and fast tests; filtering goes through pkg/search so it
// is the reference for the SQL backends.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type Store struct {
	mu  sync.RWMutex
	log logger.ILogger

	nextID        int64
	manufacturers map[int64]models.Manufacturer
	cars          map[int64]models.Car
	drivers       map[int64]models.Driver
	// carDrivers maps car id to the set of assigned driver ids.
	carDrivers map[int64]map[int64]bool
}

func New(log logger.ILogger) *Store {
	s := &Store{log: log}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nextID = 0
	s.manufacturers = make(map[int64]models.Manufacturer)
	s.cars = make(map[int64]models.Car)
	s.drivers = make(map[int64]models.Driver)
	s.carDrivers = make(map[int64]map[int64]bool)
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.log.Info("memory store reset")
	return nil
}

func (s *Store) Close() {}

func (s *Store) Manufacturer() storage.IManufacturerStorage { return &manufacturerRepo{s} }
func (s *Store) Car() storage.ICarStorage                   { return &carRepo{s} }
func (s *Store) Driver() storage.IDriverStorage             { return &driverRepo{s} }

// sortBy orders by key, then id, matching the SQL backends' ORDER BY.
func sortBy[T any](items []*T, key func(*T) string, id func(*T) int64) {
	slices.SortFunc(items, func(a, b *T) int {
		if c := cmp.Compare(key(a), key(b)); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
}
