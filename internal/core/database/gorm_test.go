package database

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-gorm-library/internal/domain"
)

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLiteMigrate(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := prometheus.NewRegistry()

	db, err := NewGorm(Opts{
		Driver:     "sqlite",
		DSN:        filepath.Join(t.TempDir(), "library.db"),
		LogLevel:   "silent",
		Logger:     zap.New(core),
		Registerer: reg,
	})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "authors", "books", "book_authors", "orders"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&domain.Author{Name: "Frank", Surname: "Herbert"}).Error)
	n, err := testutil.GatherAndCount(reg, "db_queries_total")
	require.NoError(t, err)
	assert.Positive(t, n)

	opened := logs.FilterMessage("opening database").All()
	require.Len(t, opened, 1)
	assert.Equal(t, "sqlite", opened[0].ContextMap()["driver"])
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "library.db?_foreign_keys=1&_busy_timeout=5000", sqliteDSN(""))
	assert.Equal(t, "/tmp/x.db?_foreign_keys=1&_busy_timeout=5000", sqliteDSN("/tmp/x.db"))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN("file::memory:?cache=shared"))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "driver dsn untouched",
			in:   "root:secret@tcp(127.0.0.1:3306)/library?parseTime=true",
			want: "root:secret@tcp(127.0.0.1:3306)/library?parseTime=true",
		},
		{
			name: "url with credentials",
			in:   "mysql://root:secret@db:3306/library",
			want: "root:secret@tcp(db:3306)/library?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc params translated",
			in:   "jdbc:mysql://db:3306/library?useUnicode=true&characterEncoding=utf8&useSSL=false&serverTimezone=UTC&zeroDateTimeBehavior=convertToNull",
			user: "lib",
			pass: "pw",
			want: "lib:pw@tcp(db:3306)/library?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "query credentials and override",
			in:   "mysql://db:3306/library?user=a&password=b&useSSL=true",
			user: "c",
			want: "c:b@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&tls=true",
		},
		{
			name: "no credentials",
			in:   "mysql://db/library?parseTime=false",
			want: "tcp(db)/library?charset=utf8mb4&parseTime=false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	tests := map[string]string{
		"postgres://lib:secret@db:5432/library?sslmode=disable": "postgres://lib:xxxxx@db:5432/library?sslmode=disable",
		"host=db user=lib password=secret dbname=library":      "host=db user=lib password=**** dbname=library",
		"root:secret@tcp(db:3306)/library":                     "root:****@tcp(db:3306)/library",
		"library.db?_foreign_keys=1":                           "library.db?_foreign_keys=1",
	}
	for in, want := range tests {
		assert.Equal(t, want, maskDSN(in), in)
		assert.NotContains(t, maskDSN(in), "secret")
	}
}
