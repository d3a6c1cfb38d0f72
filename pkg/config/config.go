package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Import ImportConfig
	Seed   SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PICKLIST_APP_ENV" required:"true"`
	Port         string `envconfig:"PICKLIST_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PICKLIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PICKLIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the embedded sqlite store by default. The postgres driver
// stays available for shared-host deployments of the same core.
type DBConfig struct {
	Driver string `envconfig:"PICKLIST_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"PICKLIST_DB_DSN"`

	MaxOpenConns    int           `envconfig:"PICKLIST_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"PICKLIST_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"PICKLIST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PICKLIST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite, "sqlite3", "":
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	case DriverPostgres:
		db.Driver = DriverPostgres
		if db.DSN == "" {
			return fmt.Errorf("%s is required when %s=postgres", EnvDBDSN, EnvDBDriver)
		}
		return nil
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
}

type ImportConfig struct {
	MaxUploadMB       int  `envconfig:"PICKLIST_IMPORT_MAX_UPLOAD_MB" default:"50"`
	AutoCreateMissing bool `envconfig:"PICKLIST_IMPORT_AUTO_CREATE_MISSING" default:"true"`
}

type SeedConfig struct {
	Enabled bool `envconfig:"PICKLIST_SEED_ENABLED" default:"true"`
}
