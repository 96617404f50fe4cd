package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type manufacturerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewManufacturerRepo(db *pgxpool.Pool, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{db: db, log: log}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var out models.Manufacturer
	query := `INSERT INTO manufacturers (name, country) VALUES ($1, $2) RETURNING id, name, country`
	err := r.db.QueryRow(ctx, query, m.Name, m.Country).Scan(&out.ID, &out.Name, &out.Country)
	if err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	var out models.Manufacturer
	query := `UPDATE manufacturers SET name = $1, country = $2 WHERE id = $3 RETURNING id, name, country`
	err := r.db.QueryRow(ctx, query, m.Name, m.Country, m.ID).Scan(&out.ID, &out.Name, &out.Country)
	if err != nil {
		r.log.Error("failed to update manufacturer", logger.Int64("id", m.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	// cars has ON DELETE CASCADE so the manufacturer's cars go too
	tag, err := r.db.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete manufacturer", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	query := `SELECT id, name, country FROM manufacturers WHERE id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Country); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *manufacturerRepo) GetByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	var m models.Manufacturer
	query := `SELECT id, name, country FROM manufacturers WHERE name = $1`
	if err := r.db.QueryRow(ctx, query, name).Scan(&m.ID, &m.Name, &m.Country); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *manufacturerRepo) List(ctx context.Context, name string) ([]*models.Manufacturer, error) {
	query := `
		SELECT id, name, country FROM manufacturers
		WHERE $1::text = '' OR strpos(lower(name), lower($1)) > 0
		ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		r.log.Error("failed to list manufacturers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := []*models.Manufacturer{}
	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
