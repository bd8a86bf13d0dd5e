package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Webhook  WebhookConfig
	Delivery DeliveryConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	OrderLog OrderLogConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	AppEnv             string
	HTTPPort           string
	GRPCPort           string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	CatalogTopic string
	GroupID      string
}

type WebhookConfig struct {
	URL      string
	Timeout  time.Duration
	Timezone string
}

type DeliveryConfig struct {
	// FeesFile overrides the embedded fee table when set.
	FeesFile string
}

type SessionConfig struct {
	TTL          time.Duration
	ResetDelay   time.Duration
	CookieSecure bool
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type OrderLogConfig struct {
	Key string
	Max int
}

type AdminConfig struct {
	APIKey string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:             getEnv("APP_ENV", "dev"),
			HTTPPort:           getEnv("HTTP_PORT", ":8080"),
			GRPCPort:           getEnv("GRPC_PORT", ":8082"),
			CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_storefront"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:      getEnvBool("KAFKA_ENABLED", true),
			Brokers:      getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:        getEnv("KAFKA_TOPIC_ORDERS", "storefront.orders"),
			WriteTimeout: getEnvDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
			CatalogTopic: getEnv("KAFKA_TOPIC_CATALOG", "catalog.events"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "storefront-service"),
		},
		Webhook: WebhookConfig{
			URL:      getEnv("ORDER_WEBHOOK_URL", ""),
			Timeout:  getEnvDuration("ORDER_WEBHOOK_TIMEOUT", 10*time.Second),
			Timezone: getEnv("ORDER_WEBHOOK_TIMEZONE", "Africa/Casablanca"),
		},
		Delivery: DeliveryConfig{
			FeesFile: getEnv("DELIVERY_FEES_FILE", ""),
		},
		Session: SessionConfig{
			TTL:          getEnvDuration("SESSION_TTL", 24*time.Hour),
			ResetDelay:   getEnvDuration("CHECKOUT_RESET_DELAY", 300*time.Millisecond),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Catalog: CatalogConfig{
			CacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		OrderLog: OrderLogConfig{
			Key: getEnv("ORDER_LOG_KEY", "storefront:orders"),
			Max: getEnvInt("ORDER_LOG_MAX", 1000),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
