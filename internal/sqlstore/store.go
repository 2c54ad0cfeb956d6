package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/forgo/roster/internal/config"
	"github.com/forgo/roster/internal/database"
)

// Store owns the GORM connection and hands out repositories
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects with the dialector named by cfg.Driver
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}

	return New(db), nil
}

// New wraps an existing connection
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by default
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "foreign_keys(") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate creates or updates the schema
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&accountRecord{},
		&teamRecord{},
		&playerRecord{},
		&contractRecord{},
	)
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// Close closes the underlying pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Players returns the player repository
func (s *Store) Players() *PlayerRepository { return &PlayerRepository{store: s} }

// Teams returns the team repository
func (s *Store) Teams() *TeamRepository { return &TeamRepository{store: s} }

// Contracts returns the contract repository
func (s *Store) Contracts() *ContractRepository { return &ContractRepository{store: s} }

// Accounts returns the account repository
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

func newID() string {
	return uuid.NewString()
}

// createdOn keeps a caller-supplied creation time (imports, seeding) and
// defaults to now
func createdOn(given, now time.Time) time.Time {
	if given.IsZero() {
		return now
	}
	return given.UTC()
}

// translate maps GORM errors onto the database sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return database.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", database.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", database.ErrReferenced, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", database.ErrQuery, err)
}

// versioned applies values to the row with id if its version still equals
// expected, bumping the version by one
func (s *Store) versioned(ctx context.Context, record interface{}, id string, expected int, values map[string]interface{}) error {
	values["version"] = gorm.Expr("version + 1")
	values["updated_on"] = s.now()

	res := s.db.WithContext(ctx).Model(record).
		Where("id = ? AND version = ?", id, expected).
		Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missingOrStale(ctx, record, id)
	}
	return translate(s.db.WithContext(ctx).Where("id = ?", id).Take(record).Error)
}

// guardedDelete removes the row with id inside a transaction that first
// counts rows of guardTable referencing it through guardColumn
func (s *Store) guardedDelete(ctx context.Context, record interface{}, id string, expected int, guardTable, guardColumn, relation string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guardTable != "" {
			var refs int64
			if err := tx.Table(guardTable).Where(guardColumn+" = ?", id).Count(&refs).Error; err != nil {
				return translate(err)
			}
			if refs > 0 {
				return fmt.Errorf("%w: %s:%d", database.ErrReferenced, relation, refs)
			}
		}

		q := tx.Where("id = ?", id)
		if expected > 0 {
			q = q.Where("version = ?", expected)
		}
		res := q.Delete(record)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return (&Store{db: tx, now: s.now}).missingOrStale(ctx, record, id)
		}
		return nil
	})
}

// link is a foreign key a write sets
type link struct {
	field  string
	record interface{}
	id     *string
}

// missingLink names the absent target when a write failed on a foreign key.
// Any other error passes through.
func (s *Store) missingLink(ctx context.Context, err error, links ...link) error {
	if !errors.Is(err, database.ErrReferenced) {
		return err
	}
	for _, l := range links {
		if l.id == nil {
			continue
		}
		var n int64
		if cerr := s.db.WithContext(ctx).Model(l.record).Where("id = ?", *l.id).Count(&n).Error; cerr != nil {
			return translate(cerr)
		}
		if n == 0 {
			return &database.MissingReferenceError{Field: l.field}
		}
	}
	return err
}

func (s *Store) missingOrStale(ctx context.Context, record interface{}, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(record).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return database.ErrVersionMismatch
}

// take loads one row by a condition, returning found=false when absent
func take(ctx context.Context, db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.WithContext(ctx).Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translate(err)
	}
	return true, nil
}

// Truncate deletes every row, children first. Used by tests.
func (s *Store) Truncate(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range []interface{}{&contractRecord{}, &playerRecord{}, &teamRecord{}, &accountRecord{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(rec).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}
