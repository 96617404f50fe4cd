package memory

import (
	"context"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
	"taxifleet/storage"
)

type carRepo struct {
	s *Store
}

// load returns a copy of the car with Manufacturer set and, when
// withDrivers, Drivers sorted by username. Callers hold the lock.
func (r *carRepo) load(c models.Car, withDrivers bool) *models.Car {
	m := r.s.manufacturers[c.ManufacturerID]
	c.Manufacturer = &m
	c.Drivers = nil
	if withDrivers {
		for driverID := range r.s.carDrivers[c.ID] {
			d := r.s.drivers[driverID]
			c.Drivers = append(c.Drivers, &d)
		}
		sortBy(c.Drivers, func(d *models.Driver) string { return d.Username }, func(d *models.Driver) int64 { return d.ID })
	}
	return &c
}

func (r *carRepo) checkRefs(manufacturerID int64, driverIDs []int64) error {
	if _, ok := r.s.manufacturers[manufacturerID]; !ok {
		return storage.ErrNotFound
	}
	for _, id := range driverIDs {
		if _, ok := r.s.drivers[id]; !ok {
			return storage.ErrNotFound
		}
	}
	return nil
}

func (r *carRepo) setDrivers(carID int64, driverIDs []int64) {
	set := make(map[int64]bool, len(driverIDs))
	for _, id := range driverIDs {
		set[id] = true
	}
	r.s.carDrivers[carID] = set
}

func (r *carRepo) Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(car.ManufacturerID, driverIDs); err != nil {
		return nil, err
	}
	row := models.Car{ID: r.s.newID(), Model: car.Model, ManufacturerID: car.ManufacturerID}
	r.s.cars[row.ID] = row
	r.setDrivers(row.ID, driverIDs)
	return r.load(row, true), nil
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[car.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	if err := r.checkRefs(car.ManufacturerID, driverIDs); err != nil {
		return nil, err
	}
	row := models.Car{ID: car.ID, Model: car.Model, ManufacturerID: car.ManufacturerID}
	r.s.cars[row.ID] = row
	r.setDrivers(row.ID, driverIDs)
	return r.load(row, true), nil
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.cars, id)
	delete(r.s.carDrivers, id)
	return nil
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cars[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r.load(c, true), nil
}

func (r *carRepo) List(ctx context.Context, model string) ([]*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*models.Car, 0, len(r.s.cars))
	for _, c := range r.s.cars {
		all = append(all, r.load(c, false))
	}
	list := search.Filter(all, model, func(c *models.Car) string { return c.Model })
	sortBy(list, func(c *models.Car) string { return c.Model }, func(c *models.Car) int64 { return c.ID })
	return list, nil
}

func (r *carRepo) ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*models.Car
	for carID, set := range r.s.carDrivers {
		if set[driverID] {
			list = append(list, r.load(r.s.cars[carID], false))
		}
	}
	sortBy(list, func(c *models.Car) string { return c.Model }, func(c *models.Car) int64 { return c.ID })
	return list, nil
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[carID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := r.s.drivers[driverID]; !ok {
		return storage.ErrNotFound
	}
	if r.s.carDrivers[carID] == nil {
		r.s.carDrivers[carID] = make(map[int64]bool)
	}
	r.s.carDrivers[carID][driverID] = true
	return nil
}

func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[carID]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.carDrivers[carID], driverID)
	return nil
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.cars), nil
}
