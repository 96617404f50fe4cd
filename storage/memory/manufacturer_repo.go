package memory

import (
	"context"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
	"taxifleet/storage"
)

type manufacturerRepo struct {
	s *Store
}

func (r *manufacturerRepo) nameTaken(name string, exceptID int64) bool {
	for id, m := range r.s.manufacturers {
		if id != exceptID && m.Name == name {
			return true
		}
	}
	return false
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(m.Name, 0) {
		return nil, storage.ErrAlreadyExists
	}
	row := *m
	row.ID = r.s.newID()
	r.s.manufacturers[row.ID] = row
	return &row, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[m.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	if r.nameTaken(m.Name, m.ID) {
		return nil, storage.ErrAlreadyExists
	}
	row := *m
	r.s.manufacturers[row.ID] = row
	return &row, nil
}

// Delete cascades to the manufacturer's cars.
func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.manufacturers, id)
	for carID, c := range r.s.cars {
		if c.ManufacturerID == id {
			delete(r.s.cars, carID)
			delete(r.s.carDrivers, carID)
		}
	}
	return nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.manufacturers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (r *manufacturerRepo) GetByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.manufacturers {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *manufacturerRepo) List(ctx context.Context, name string) ([]*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*models.Manufacturer, 0, len(r.s.manufacturers))
	for _, m := range r.s.manufacturers {
		all = append(all, &m)
	}
	list := search.Filter(all, name, func(m *models.Manufacturer) string { return m.Name })
	sortBy(list, func(m *models.Manufacturer) string { return m.Name }, func(m *models.Manufacturer) int64 { return m.ID })
	return list, nil
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.manufacturers), nil
}
