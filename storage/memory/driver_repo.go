package memory

import (
	"context"
	"time"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
	"taxifleet/storage"
)

type driverRepo struct {
	s *Store
}

func (r *driverRepo) taken(d *models.Driver) bool {
	for id, other := range r.s.drivers {
		if id == d.ID {
			continue
		}
		if other.Username == d.Username || other.LicenseNumber == d.LicenseNumber {
			return true
		}
	}
	return false
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := *d
	row.ID = 0
	if r.taken(&row) {
		return nil, storage.ErrAlreadyExists
	}
	row.ID = r.s.newID()
	row.CreatedAt = time.Now().UTC()
	row.Cars = nil
	r.s.drivers[row.ID] = row
	return &row, nil
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, license string) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.drivers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for otherID, other := range r.s.drivers {
		if otherID != id && other.LicenseNumber == license {
			return nil, storage.ErrAlreadyExists
		}
	}
	row.LicenseNumber = license
	r.s.drivers[id] = row
	return &row, nil
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.drivers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.drivers, id)
	for _, set := range r.s.carDrivers {
		delete(set, id)
	}
	return nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &d, nil
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.drivers {
		if d.Username == username {
			return &d, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *driverRepo) GetByLicense(ctx context.Context, license string) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.drivers {
		if d.LicenseNumber == license {
			return &d, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByIDs silently skips unknown ids.
func (r *driverRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	var list []*models.Driver
	for _, id := range ids {
		d, ok := r.s.drivers[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		list = append(list, &d)
	}
	sortBy(list, func(d *models.Driver) string { return d.Username }, func(d *models.Driver) int64 { return d.ID })
	return list, nil
}

func (r *driverRepo) List(ctx context.Context, username string) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*models.Driver, 0, len(r.s.drivers))
	for _, d := range r.s.drivers {
		all = append(all, &d)
	}
	list := search.Filter(all, username, func(d *models.Driver) string { return d.Username })
	sortBy(list, func(d *models.Driver) string { return d.Username }, func(d *models.Driver) int64 { return d.ID })
	return list, nil
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.drivers), nil
}
