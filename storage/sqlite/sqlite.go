// Package sqlite stores the fleet in a SQLite database through the pure-Go
// modernc driver. It is the default backend for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"taxifleet/pkg/logger"
	"taxifleet/storage"
	"taxifleet/storage/migrations"
)

func init() {
	// lower() folds ASCII only; search needs the same folding as search.Matches.
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	case nil:
		return nil, nil
	}
	return args[0], nil
}

type Store struct {
	db  *sql.DB
	log logger.ILogger
}

// New opens (creating if needed) the database at path and applies pending
// migrations. Use ":memory:" for a throwaway database.
func New(ctx context.Context, path string, log logger.ILogger) (storage.IStorage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Error("failed to open sqlite", logger.Error(err))
		return nil, err
	}
	// SQLite serialises writers anyway; one connection also keeps a
	// :memory: database alive for the life of the pool.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to connect sqlite", logger.Error(err))
		db.Close()
		return nil, err
	}

	if err := migrateUp(db, log); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("SQLite connected", logger.String("path", path))

	return &Store{db: db, log: log}, nil
}

func migrateUp(db *sql.DB, log logger.ILogger) error {
	src, err := iofs.New(migrations.SQLite(), ".")
	if err != nil {
		log.Error("migration source error", logger.Error(err))
		return err
	}
	dbDriver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		log.Error("migration driver error", logger.Error(err))
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", dbDriver)
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		return err
	}
	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	return nil
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"car_drivers", "cars", "drivers", "manufacturers"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			s.log.Error("failed to reset table", logger.String("table", table), logger.Error(err))
			return err
		}
	}
	return nil
}

func (s *Store) Manufacturer() storage.IManufacturerStorage { return NewManufacturerRepo(s.db, s.log) }
func (s *Store) Car() storage.ICarStorage                   { return NewCarRepo(s.db, s.log) }
func (s *Store) Driver() storage.IDriverStorage             { return NewDriverRepo(s.db, s.log) }

// mapErr translates driver errors into storage sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", storage.ErrAlreadyExists, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
		}
	}
	return err
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
