package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-gorm-library/internal/core/logger"
	"go-gorm-library/internal/core/metrics"
	"go-gorm-library/internal/domain"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Opts struct {
	Driver             string // postgres | mysql | sqlite
	DSN                string
	Username           string // mysql only, overrides the DSN user
	Password           string // mysql only, overrides the DSN password
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string // silent | error | warn | info

	Logger     *zap.Logger           // nil disables the open log and SQL logging
	Registerer prometheus.Registerer // nil disables query metrics
}

func dialector(o Opts) (gorm.Dialector, string, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), o.DSN, nil
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		return mysql.Open(dsn), dsn, nil
	case "sqlite":
		dsn := sqliteDSN(o.DSN)
		return sqlite.Open(dsn), dsn, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, dsn, err := dialector(o)
	if err != nil {
		return nil, err
	}
	l := o.Logger
	if l == nil {
		l = zap.NewNop()
	}
	l.Info("opening database", zap.String("driver", o.Driver), zap.String("dsn", maskDSN(dsn)))

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.NewGormLogger(l, o.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}
	if o.Registerer != nil {
		if err := db.Use(metrics.NewGormPlugin(o.Registerer)); err != nil {
			return nil, fmt.Errorf("register query metrics: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	db = db.Session(&gorm.Session{
		PrepareStmt:            true,
		CreateBatchSize:        200,
		SkipDefaultTransaction: true, // multi-row writes open their own Tx
	})
	return db, nil
}

// Migrate creates or updates the users, authors, books, book_authors and
// orders tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Author{}, &domain.Book{}, &domain.Order{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
