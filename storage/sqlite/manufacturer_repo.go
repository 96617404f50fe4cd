package sqlite

import (
	"context"
	"database/sql"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

type manufacturerRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func NewManufacturerRepo(db *sql.DB, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{db: db, log: log}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO manufacturers (name, country) VALUES (?, ?)`, m.Name, m.Country)
	if err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Manufacturer{ID: id, Name: m.Name, Country: m.Country}, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE manufacturers SET name = ?, country = ? WHERE id = ?`, m.Name, m.Country, m.ID)
	if err != nil {
		r.log.Error("failed to update manufacturer", logger.Int64("id", m.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := rowsAffected(res); err != nil {
		return nil, err
	}
	return &models.Manufacturer{ID: m.ID, Name: m.Name, Country: m.Country}, nil
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM manufacturers WHERE id = ?`, id)
	if err != nil {
		r.log.Error("failed to delete manufacturer", logger.Int64("id", id), logger.Error(err))
		return err
	}
	return rowsAffected(res)
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := r.db.QueryRowContext(ctx, `SELECT id, name, country FROM manufacturers WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *manufacturerRepo) GetByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := r.db.QueryRowContext(ctx, `SELECT id, name, country FROM manufacturers WHERE name = ?`, name).
		Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *manufacturerRepo) List(ctx context.Context, name string) ([]*models.Manufacturer, error) {
	query := `
		SELECT id, name, country FROM manufacturers
		WHERE ? = '' OR instr(casefold(name), casefold(?)) > 0
		ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, name, name)
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
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
