package config

import "strings"

// StoreDriver selects the job store backend.
type StoreDriver string

const (
	// StoreDriverPostgres reads listings from PostgreSQL.
	StoreDriverPostgres StoreDriver = "postgres"
	// StoreDriverSQLite reads listings from a local SQLite file.
	StoreDriverSQLite StoreDriver = "sqlite"
)

// StoreConfig selects and configures the listing store.
type StoreConfig struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"postgres"`
	// SQLitePath is used when Driver is sqlite.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"landing.db"`
}

// Sanitize falls back to postgres for unknown drivers.
func (s *StoreConfig) Sanitize() {
	s.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(string(s.Driver))))
	switch s.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
	default:
		s.Driver = StoreDriverPostgres
	}
	if strings.TrimSpace(s.SQLitePath) == "" {
		s.SQLitePath = "landing.db"
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"landing"`
	Password string `env:"PASSWORD"                envDefault:"landing"`
	Name     string `env:"NAME"                    envDefault:"landing"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	Enabled            bool     `env:"ENABLED"              envDefault:"true"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
