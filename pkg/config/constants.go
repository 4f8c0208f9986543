package config

const (
	EnvPrefix = "GMML"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "GMML_APP_ENV"
	EnvPort     = "GMML_APP_PORT"
	EnvLogLevel = "GMML_LOG_LEVEL"

	EnvDBDSN      = "GMML_DB_DSN"
	EnvDBHost     = "GMML_DB_HOST"
	EnvDBPort     = "GMML_DB_PORT"
	EnvDBUser     = "GMML_DB_USER"
	EnvDBPassword = "GMML_DB_PASSWORD"
	EnvDBName     = "GMML_DB_NAME"
	EnvDBSSLMode  = "GMML_DB_SSLMODE"

	EnvRedisURL = "GMML_REDIS_URL"

	EnvJWTSecret              = "GMML_JWT_SECRET"
	EnvJWTIssuer              = "GMML_JWT_ISSUER"
	EnvJWTExpMins             = "GMML_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GMML_REFRESH_TOKEN_TTL_MINUTES"

	EnvGoogleClientID     = "GMML_GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GMML_GOOGLE_CLIENT_SECRET"
	EnvAuthAdminEmails    = "GMML_AUTH_ADMIN_EMAILS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
