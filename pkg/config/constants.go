package config

// EnvPrefix is passed to envconfig; individual tags carry the full
// SHOPCART_ prefix already, so this stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOPCART_DB_DSN"
	EnvDBHost = "SHOPCART_DB_HOST"
	EnvDBUser = "SHOPCART_DB_USER"
	EnvDBName = "SHOPCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
