package config

const (
	EnvPrefix = "PICKLIST"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSQLiteDSN = "file:picklist.db?_busy_timeout=5000&_journal_mode=WAL"

	EnvAppEnv   = "PICKLIST_APP_ENV"
	EnvPort     = "PICKLIST_APP_PORT"
	EnvDBDriver = "PICKLIST_DB_DRIVER"
	EnvDBDSN    = "PICKLIST_DB_DSN"
)
