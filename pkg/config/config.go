package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	FeatureFlags FeatureFlagsConfig
	Activity     ActivityConfig
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
	Env          string `envconfig:"GMML_APP_ENV" required:"true"`
	Port         string `envconfig:"GMML_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GMML_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GMML_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"GMML_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GMML_DB_DSN"`
	Driver string `envconfig:"GMML_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GMML_DB_HOST"`
	LegacyPort     int    `envconfig:"GMML_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GMML_DB_USER"`
	LegacyPassword string `envconfig:"GMML_DB_PASSWORD"`
	LegacyName     string `envconfig:"GMML_DB_NAME"`
	LegacySSLMode  string `envconfig:"GMML_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GMML_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GMML_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GMML_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GMML_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GMML_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"GMML_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GMML_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GMML_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GMML_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GMML_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GMML_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GMML_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GMML_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GMML_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthConfig struct {
	GoogleClientID     string `envconfig:"GMML_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GMML_GOOGLE_CLIENT_SECRET"`
	GoogleUserInfoURL  string `envconfig:"GMML_GOOGLE_USERINFO_URL" default:"https://openidconnect.googleapis.com/v1/userinfo"`

	// Comma-separated emails promoted to admin when their profile is first created.
	AdminEmails string `envconfig:"GMML_AUTH_ADMIN_EMAILS"`
}

// AdminEmailSet returns the bootstrap admin allowlist, lowercased.
func (a AuthConfig) AdminEmailSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, raw := range strings.Split(a.AdminEmails, ",") {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return set
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GMML_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GMML_AUTO_MIGRATE" default:"false"`
}

type ActivityConfig struct {
	DefaultPageSize int `envconfig:"GMML_ACTIVITY_DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize     int `envconfig:"GMML_ACTIVITY_MAX_PAGE_SIZE" default:"100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
