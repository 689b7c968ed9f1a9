package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "CARO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Mailer        MailerConfig
	Verification  VerificationConfig
	AuthRateLimit AuthRateLimitConfig
	Retention     RetentionConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"CARO_APP_ENV" required:"true"`
	Port         string `envconfig:"CARO_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"CARO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARO_DB_DSN"`
	Driver string `envconfig:"CARO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARO_DB_HOST"`
	Port     int    `envconfig:"CARO_DB_PORT" default:"5432"`
	User     string `envconfig:"CARO_DB_USER"`
	Password string `envconfig:"CARO_DB_PASSWORD"`
	Name     string `envconfig:"CARO_DB_NAME"`
	SSLMode  string `envconfig:"CARO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARO_REDIS_URL"`
	Address      string        `envconfig:"CARO_REDIS_ADDR"`
	Password     string        `envconfig:"CARO_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARO_JWT_ISSUER" default:"caro-backend"`
	ExpirationMinutes int    `envconfig:"CARO_JWT_EXPIRATION_MINUTES" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARO_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type MailerConfig struct {
	Endpoint string        `envconfig:"CARO_MAILER_ENDPOINT"`
	APIKey   string        `envconfig:"CARO_MAILER_API_KEY"`
	From     string        `envconfig:"CARO_MAILER_FROM" default:"quotes@caro.example"`
	Timeout  time.Duration `envconfig:"CARO_MAILER_TIMEOUT" default:"10s"`
}

type VerificationConfig struct {
	CodeTTL    time.Duration `envconfig:"CARO_VERIFICATION_CODE_TTL" default:"15m"`
	CodeLength int           `envconfig:"CARO_VERIFICATION_CODE_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"CARO_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"CARO_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"CARO_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ResendWindow     time.Duration `envconfig:"CARO_RATE_LIMIT_RESEND_WINDOW" default:"5m"`
	ResendEmailLimit int           `envconfig:"CARO_RATE_LIMIT_RESEND_EMAIL_LIMIT" default:"3"`
	ResendIPLimit    int           `envconfig:"CARO_RATE_LIMIT_RESEND_IP_LIMIT" default:"20"`
}

type RetentionConfig struct {
	VerificationCodeDays int           `envconfig:"CARO_RETENTION_CODE_DAYS" default:"30"`
	SweepInterval        time.Duration `envconfig:"CARO_RETENTION_SWEEP_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"CARO_DB_HOST": db.Host,
		"CARO_DB_USER": db.User,
		"CARO_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either CARO_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
