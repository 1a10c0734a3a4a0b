package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const startKey = "metrics:start"

// GormPlugin counts statements and observes their latency per table and
// operation.
type GormPlugin struct {
	reg     prometheus.Registerer
	queries *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var _ gorm.Plugin = (*GormPlugin)(nil)

func NewGormPlugin(reg prometheus.Registerer) *GormPlugin {
	return &GormPlugin{
		reg: reg,
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "db_queries_total", Help: "Count of SQL statements"},
			[]string{"table", "operation", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Latency of SQL statements",
				Buckets: prometheus.DefBuckets,
			}, []string{"table", "operation"},
		),
	}
}

func (p *GormPlugin) Name() string { return "library:metrics" }

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	var err error
	if p.queries, err = register(p.reg, p.queries); err != nil {
		return err
	}
	if p.latency, err = register(p.reg, p.latency); err != nil {
		return err
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", p.before),
		cb.Create().After("gorm:create").Register("metrics:after_create", p.after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", p.before),
		cb.Query().After("gorm:query").Register("metrics:after_query", p.after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", p.before),
		cb.Update().After("gorm:update").Register("metrics:after_update", p.after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", p.after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", p.before),
		cb.Row().After("gorm:row").Register("metrics:after_row", p.after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", p.after("raw")),
	)
}

func (p *GormPlugin) before(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (p *GormPlugin) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		status := "ok"
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			status = "error"
		}
		p.queries.WithLabelValues(table, op, status).Inc()

		if v, ok := db.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				p.latency.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
			}
		}
	}
}

// register reuses a collector that an earlier connection already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
