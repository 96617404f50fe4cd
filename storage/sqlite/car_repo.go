package sqlite

import (
	"context"
	"database/sql"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const carSelect = `
	SELECT c.id, c.model, c.manufacturer_id, m.name, m.country
	FROM cars c
	JOIN manufacturers m ON m.id = c.manufacturer_id`

type carRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func NewCarRepo(db *sql.DB, log logger.ILogger) storage.ICarStorage {
	return &carRepo{db: db, log: log}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCar(row scanner) (*models.Car, error) {
	c := models.Car{Manufacturer: &models.Manufacturer{}}
	err := row.Scan(&c.ID, &c.Model, &c.ManufacturerID, &c.Manufacturer.Name, &c.Manufacturer.Country)
	if err != nil {
		return nil, err
	}
	c.Manufacturer.ID = c.ManufacturerID
	return &c, nil
}

func (r *carRepo) queryCars(ctx context.Context, query string, args ...any) ([]*models.Car, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func setDrivers(ctx context.Context, tx *sql.Tx, carID int64, driverIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM car_drivers WHERE car_id = ?`, carID); err != nil {
		return err
	}
	for _, driverID := range driverIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO car_drivers (car_id, driver_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, carID, driverID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *carRepo) Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO cars (model, manufacturer_id) VALUES (?, ?)`, car.Model, car.ManufacturerID)
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := setDrivers(ctx, tx, id, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Int64("car_id", id), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE cars SET model = ?, manufacturer_id = ? WHERE id = ?`,
		car.Model, car.ManufacturerID, car.ID)
	if err != nil {
		r.log.Error("failed to update car", logger.Int64("id", car.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := rowsAffected(res); err != nil {
		return nil, err
	}
	if err := setDrivers(ctx, tx, car.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Int64("car_id", car.ID), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, car.ID)
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		r.log.Error("failed to delete car", logger.Int64("id", id), logger.Error(err))
		return err
	}
	return rowsAffected(res)
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, carSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return nil, mapErr(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+driverColumns+`
		FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id
		WHERE cd.car_id = ?
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
		WHERE ? = '' OR instr(casefold(c.model), casefold(?)) > 0
		ORDER BY c.model, c.id`, model, model)
}

func (r *carRepo) ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	return r.queryCars(ctx, carSelect+`
		JOIN car_drivers cd ON cd.car_id = c.id
		WHERE cd.driver_id = ?
		ORDER BY c.model, c.id`, driverID)
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO car_drivers (car_id, driver_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, carID, driverID)
	if err != nil {
		r.log.Error("failed to add car driver", logger.Int64("car_id", carID), logger.Int64("driver_id", driverID), logger.Error(err))
		return mapErr(err)
	}
	return nil
}

func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = ?)`, carID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM car_drivers WHERE car_id = ? AND driver_id = ?`, carID, driverID)
	return err
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}
