package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gorm-library/internal/core/config"
	"go-gorm-library/internal/core/database"
	"go-gorm-library/internal/core/logger"
	"go-gorm-library/internal/repo"
)

type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *repo.Store
	reg   *prometheus.Registry

	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var cfgPath string

	root := &cobra.Command{
		Use:          "librarydb",
		Short:        "Manage the library database: schema, loans and accounts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cfgPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.reportMetrics()
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	root.AddCommand(
		newMigrateCmd(a),
		newOutstandingCmd(a),
		newCreateAdminCmd(a),
	)
	return root
}

func (a *app) open(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var cleanup func()
	if cfg.Log.File.Enable {
		a.log, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		})
	} else {
		a.log, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	a.closers = append(a.closers, cleanup, logger.RedirectStdLog(a.log, zapcore.InfoLevel))

	opts := database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             a.log,
	}
	if cfg.Metrics.Enabled {
		a.reg = prometheus.NewRegistry()
		opts.Registerer = a.reg
	}
	db, err := database.NewGorm(opts)
	if err != nil {
		a.log.Error("db open", zap.Error(err))
		a.close()
		return err
	}
	a.db = db
	a.store = repo.NewStore(db)
	a.closers = append(a.closers, func() { _ = database.Close(db) })
	a.log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return nil
}

// guard closes the app when run fails; cobra skips PersistentPostRun on error.
func (a *app) guard(run func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := run(cmd); err != nil {
			a.close()
			return err
		}
		return nil
	}
}

// migrateIfEnabled runs the schema migration when db.automigrate is set.
func (a *app) migrateIfEnabled() error {
	if !a.cfg.DB.AutoMigrate {
		return nil
	}
	if err := database.Migrate(a.db); err != nil {
		a.log.Error("automigrate failed", zap.Error(err))
		return err
	}
	return nil
}

func (a *app) reportMetrics() {
	if a.reg == nil || a.log == nil {
		return
	}
	families, err := a.reg.Gather()
	if err != nil {
		a.log.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		if mf.GetName() != "db_queries_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var table, op, status string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "table":
					table = lp.GetValue()
				case "operation":
					op = lp.GetValue()
				case "status":
					status = lp.GetValue()
				}
			}
			a.log.Info("db queries",
				zap.String("table", table),
				zap.String("operation", op),
				zap.String("status", status),
				zap.Float64("count", m.GetCounter().GetValue()),
			)
		}
	}
}
