package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const driverColumns = `d.id, d.username, d.first_name, d.last_name, d.email, d.license_number, d.password_hash, d.created_at`

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.Username, &d.FirstName, &d.LastName, &d.Email, &d.LicenseNumber, &d.PasswordHash, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) getOne(ctx context.Context, where string, arg any) (*models.Driver, error) {
	d, err := scanDriver(r.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE `+where, arg))
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	query := `
		INSERT INTO drivers (username, first_name, last_name, email, license_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, first_name, last_name, email, license_number, password_hash, created_at`
	out, err := scanDriver(r.db.QueryRow(ctx, query,
		d.Username, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.PasswordHash))
	if err != nil {
		r.log.Error("failed to create driver", logger.String("username", d.Username), logger.Error(err))
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, license string) (*models.Driver, error) {
	query := `
		UPDATE drivers SET license_number = $1 WHERE id = $2
		RETURNING id, username, first_name, last_name, email, license_number, password_hash, created_at`
	out, err := scanDriver(r.db.QueryRow(ctx, query, license, id))
	if err != nil {
		r.log.Error("failed to update driver license", logger.Int64("id", id), logger.Error(err))
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete driver", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getOne(ctx, `d.id = $1`, id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getOne(ctx, `d.username = $1`, username)
}

func (r *driverRepo) GetByLicense(ctx context.Context, license string) (*models.Driver, error) {
	return r.getOne(ctx, `d.license_number = $1`, license)
}

func (r *driverRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error) {
	if len(ids) == 0 {
		return []*models.Driver{}, nil
	}
	return r.queryDrivers(ctx, `SELECT `+driverColumns+` FROM drivers d
		WHERE d.id = ANY($1)
		ORDER BY d.username, d.id`, ids)
}

func (r *driverRepo) List(ctx context.Context, username string) ([]*models.Driver, error) {
	return r.queryDrivers(ctx, `SELECT `+driverColumns+` FROM drivers d
		WHERE $1::text = '' OR strpos(lower(d.username), lower($1)) > 0
		ORDER BY d.username, d.id`, username)
}

func (r *driverRepo) queryDrivers(ctx context.Context, query string, args ...any) ([]*models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
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
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
