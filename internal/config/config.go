// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvDevelopment включает подробные сообщения внутренних ошибок в ответах.
	EnvDevelopment = "development"

	// FallbackJWTSecret используется, если секрет не задан ни в файле, ни в окружении.
	FallbackJWTSecret = "codevault-secret-key-change-in-production"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"APP_ENV" env-default:"production"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Auth                    `yaml:"auth"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Cashfree                `yaml:"cashfree"`
	Payment                 `yaml:"payment"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// Auth настройки регистрации, выхода и начального администратора.
type Auth struct {
	AllowedSignupRoles []string     `yaml:"allowed_signup_roles" env:"ALLOWED_SIGNUP_ROLES" env-separator:","`
	KeepTokenOnLogout  bool         `yaml:"keep_token_on_logout"`
	RateLimitRPS       float64      `yaml:"rate_limit_rps" env-default:"5"`
	RateLimitBurst     int          `yaml:"rate_limit_burst" env-default:"10"`
	DefaultAdmin       DefaultAdmin `yaml:"default_admin"`
}

// DefaultAdmin учётная запись администратора, создаваемая при старте.
// Пустой Email отключает создание.
type DefaultAdmin struct {
	Email    string `yaml:"email" env:"DEFAULT_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"DEFAULT_ADMIN_PASSWORD"`
	FullName string `yaml:"full_name" env:"DEFAULT_ADMIN_NAME" env-default:"Administrator"`
	Phone    string `yaml:"phone" env:"DEFAULT_ADMIN_PHONE"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ настройки брокера для событий сверки платежей.
// Пустой URL отключает публикацию событий.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Cashfree параметры платёжного шлюза.
type Cashfree struct {
	AppID           string        `yaml:"app_id" env:"CASHFREE_APP_ID"`
	SecretKey       string        `yaml:"secret_key" env:"CASHFREE_SECRET_KEY"`
	APIURL          string        `yaml:"api_url" env:"CASHFREE_API_URL" env-default:"https://sandbox.cashfree.com/pg"`
	APIVersion      string        `yaml:"api_version" env-default:"2023-08-01"`
	Currency        string        `yaml:"currency" env-default:"INR"`
	TimeoutCashfree time.Duration `yaml:"timeout" env-default:"10s"`
}

// Payment настройки сценария оплаты.
// Нулевой SweepInterval отключает фоновую сверку застрявших заказов.
type Payment struct {
	FrontendURL       string        `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	StrictAmountCheck bool          `yaml:"strict_amount_check" env:"PAYMENT_STRICT_AMOUNT_CHECK"`
	SweepInterval     time.Duration `yaml:"sweep_interval" env-default:"10m"`
	SweepAge          time.Duration `yaml:"sweep_age" env-default:"30m"`
	// MetricsAddress адрес /metrics воркера сверки. Пустое значение отключает listener.
	MetricsAddress    string        `yaml:"metrics_address" env:"RECONCILER_METRICS_ADDRESS" env-default:":9091"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// Validate проверяет значения, которые нельзя выразить тегами.
// Пустой список ролей самостоятельной регистрации заменяется на customer.
func (c *Config) Validate() error {
	if c.StorageConnectionString == "" {
		return errors.New("storage_connection_string is required")
	}
	if len(c.AllowedSignupRoles) == 0 {
		c.AllowedSignupRoles = []string{"customer"}
	}
	for i, role := range c.AllowedSignupRoles {
		role = strings.ToLower(strings.TrimSpace(role))
		switch role {
		case "customer":
		case "admin":
			return errors.New("auth.allowed_signup_roles must not contain admin")
		default:
			return fmt.Errorf("auth.allowed_signup_roles: unknown role %q", role)
		}
		c.AllowedSignupRoles[i] = role
	}
	if c.DefaultAdmin.Email != "" && c.DefaultAdmin.Password == "" {
		return errors.New("auth.default_admin.password is required when email is set")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	if c.SweepInterval < 0 || c.SweepAge < 0 {
		return errors.New("payment sweep durations must not be negative")
	}
	return nil
}

// JWTSecret возвращает секрет подписи токенов и признак того, что взят запасной.
func (c *Config) JWTSecret() (string, bool) {
	if c.JWTSecretKey == "" {
		return FallbackJWTSecret, true
	}
	return c.JWTSecretKey, false
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"Auth:\n"+
			"  AllowedSignupRoles: %s\n"+
			"  KeepTokenOnLogout: %t\n"+
			"Cashfree:\n"+
			"  AppID: %s\n"+
			"  SecretKey: %s\n"+
			"  APIURL: %s\n"+
			"Payment:\n"+
			"  FrontendURL: %s\n"+
			"  StrictAmountCheck: %t\n"+
			"  SweepInterval: %s\n"+
			"  MetricsAddress: %s\n",
		c.Env,
		c.AddressRedis,
		mask(c.RedisConnection.Password),
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		strings.Join(c.AllowedSignupRoles, ","),
		c.KeepTokenOnLogout,
		c.AppID,
		mask(c.Cashfree.SecretKey),
		c.APIURL,
		c.FrontendURL,
		c.StrictAmountCheck,
		c.SweepInterval,
		c.MetricsAddress,
	)
}
