package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const driverColumns = `d.id, d.username, d.first_name, d.last_name, d.email, d.license_number, d.password_hash, d.created_at`

type driverRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func NewDriverRepo(db *sql.DB, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func scanDriver(row scanner) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.Username, &d.FirstName, &d.LastName, &d.Email, &d.LicenseNumber, &d.PasswordHash, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) getOne(ctx context.Context, where string, arg any) (*models.Driver, error) {
	d, err := scanDriver(r.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE `+where, arg))
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO drivers (username, first_name, last_name, email, license_number, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Username, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.PasswordHash, createdAt)
	if err != nil {
		r.log.Error("failed to create driver", logger.String("username", d.Username), logger.Error(err))
		return nil, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, license string) (*models.Driver, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE drivers SET license_number = ? WHERE id = ?`, license, id)
	if err != nil {
		r.log.Error("failed to update driver license", logger.Int64("id", id), logger.Error(err))
		return nil, mapErr(err)
	}
	if err := rowsAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		r.log.Error("failed to delete driver", logger.Int64("id", id), logger.Error(err))
		return err
	}
	return rowsAffected(res)
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getOne(ctx, `d.id = ?`, id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getOne(ctx, `d.username = ?`, username)
}

func (r *driverRepo) GetByLicense(ctx context.Context, license string) (*models.Driver, error) {
	return r.getOne(ctx, `d.license_number = ?`, license)
}

func (r *driverRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error) {
	if len(ids) == 0 {
		return []*models.Driver{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryDrivers(ctx, `SELECT `+driverColumns+` FROM drivers d
		WHERE d.id IN (`+placeholders+`)
		ORDER BY d.username, d.id`, args...)
}

func (r *driverRepo) List(ctx context.Context, username string) ([]*models.Driver, error) {
	return r.queryDrivers(ctx, `SELECT `+driverColumns+` FROM drivers d
		WHERE ? = '' OR instr(casefold(d.username), casefold(?)) > 0
		ORDER BY d.username, d.id`, username, username)
}

func (r *driverRepo) queryDrivers(ctx context.Context, query string, args ...any) ([]*models.Driver, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := []*models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
