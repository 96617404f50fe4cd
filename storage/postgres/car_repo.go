package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const carSelect = `
	SELECT c.id, c.model, c.manufacturer_id, m.name, m.country
	FROM cars c
	JOIN manufacturers m ON m.id = c.manufacturer_id`

type carRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCarRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICarStorage {
	return &carRepo{db: db, log: log}
}

func scanCar(row pgx.Row) (*models.Car, error) {
	c := models.Car{Manufacturer: &models.Manufacturer{}}
	err := row.Scan(&c.ID, &c.Model, &c.ManufacturerID, &c.Manufacturer.Name, &c.Manufacturer.Country)
	if err != nil {
		return nil, err
	}
	c.Manufacturer.ID = c.ManufacturerID
	return &c, nil
}

func (r *carRepo) queryCars(ctx context.Context, query string, args ...any) ([]*models.Car, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := []*models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func setDrivers(ctx context.Context, tx pgx.Tx, carID int64, driverIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1`, carID); err != nil {
		return err
	}
	if len(driverIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO car_drivers (car_id, driver_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, carID, driverIDs)
	return err
}

func (r *carRepo) Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `INSERT INTO cars (model, manufacturer_id) VALUES ($1, $2) RETURNING id`,
		car.Model, car.ManufacturerID).Scan(&id)
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, mapErr(err)
	}
	if err := setDrivers(ctx, tx, id, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Int64("car_id", id), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE cars SET model = $1, manufacturer_id = $2 WHERE id = $3`,
		car.Model, car.ManufacturerID, car.ID)
	if err != nil {
		r.log.Error("failed to update car", logger.Int64("id", car.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	if err := setDrivers(ctx, tx, car.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Int64("car_id", car.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, car.ID)
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete car", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.db.QueryRow(ctx, carSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+driverColumns+`
		FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id
		WHERE cd.car_id = $1
		ORDER BY d.username, d.id`, id)
	if err != nil {
		r.log.Error("failed to load car drivers", logger.Int64("car_id", id), logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		c.Drivers = append(c.Drivers, d)
	}
	return c, rows.Err()
}

func (r *carRepo) List(ctx context.Context, model string) ([]*models.Car, error) {
	return r.queryCars(ctx, carSelect+`
		WHERE $1::text = '' OR strpos(lower(c.model), lower($1)) > 0
		ORDER BY c.model, c.id`, model)
}

func (r *carRepo) ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	return r.queryCars(ctx, carSelect+`
		JOIN car_drivers cd ON cd.car_id = c.id
		WHERE cd.driver_id = $1
		ORDER BY c.model, c.id`, driverID)
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, carID, driverID)
	if err != nil {
		r.log.Error("failed to add car driver", logger.Int64("car_id", carID), logger.Int64("driver_id", driverID), logger.Error(err))
		return mapErr(err)
	}
	return nil
}

func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`, carID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1 AND driver_id = $2`, carID, driverID)
	return err
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}
