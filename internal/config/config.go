package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMongo    = "mongo"
)

// Cache drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Config mirrors config/config.yaml
type Config struct {
	AppEnv      string          `mapstructure:"app_env"`
	LogLevel    string          `mapstructure:"log_level"`
	UseFixtures bool            `mapstructure:"use_fixtures"`
	Server      ServerConfig    `mapstructure:"server"`
	Store       StoreConfig     `mapstructure:"store"`
	Source      SourceConfig    `mapstructure:"source"`
	Ingestion   IngestionConfig `mapstructure:"ingestion"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Redis       RedisConfig     `mapstructure:"redis"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig names the one logical listing store. Database and Collection
// are the only place the store name is defined.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	Database    string `mapstructure:"database"`
	Collection  string `mapstructure:"collection"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	MongoURI    string `mapstructure:"mongo_uri"`
}

type SourceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	TokenURL     string        `mapstructure:"token_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scope        string        `mapstructure:"scope"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type IngestionConfig struct {
	PageSize             int           `mapstructure:"page_size"`
	MaxRecords           int           `mapstructure:"max_records"`
	PageDelay            time.Duration `mapstructure:"page_delay"`
	PartitionConcurrency int           `mapstructure:"partition_concurrency"`
	ScheduleInterval     time.Duration `mapstructure:"schedule_interval"`
}

type CacheConfig struct {
	Driver     string        `mapstructure:"driver"`
	FacetTTL   time.Duration `mapstructure:"facet_ttl"`
	WarmPeriod time.Duration `mapstructure:"warm_period"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port for the redis client
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("use_fixtures", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"https://*", "http://localhost:3000"})

	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.database", "vehicle_auction")
	v.SetDefault("store.collection", "vehicle_listings")
	v.SetDefault("store.sqlite_path", "vehicle_auction.db")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")

	v.SetDefault("source.base_url", "https://api.manheim.com")
	v.SetDefault("source.token_url", "https://api.manheim.com/oauth2/token.oauth2")
	v.SetDefault("source.scope", "search:buyer-seller")
	v.SetDefault("source.timeout", 30*time.Second)

	v.SetDefault("ingestion.page_size", 1000)
	v.SetDefault("ingestion.max_records", 3000)
	v.SetDefault("ingestion.page_delay", 100*time.Millisecond)
	v.SetDefault("ingestion.partition_concurrency", 1)
	v.SetDefault("ingestion.schedule_interval", time.Duration(0))

	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.facet_ttl", 10*time.Minute)
	v.SetDefault("cache.warm_period", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
}

// Load reads .env (if present), then the YAML file at path, then applies
// environment overrides. A missing YAML file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv applies secrets and deployment switches from the environment
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("USE_FIXTURES"); v != "" {
		cfg.UseFixtures = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
	if cfg.Store.PostgresDSN == "" && os.Getenv("PG_HOST") != "" {
		cfg.Store.PostgresDSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("PG_USER"),
			os.Getenv("PG_PASSWORD"),
			os.Getenv("PG_HOST"),
			os.Getenv("PG_PORT"),
			os.Getenv("PG_DB"),
		)
	}
	if v := os.Getenv("SOURCE_CLIENT_ID"); v != "" {
		cfg.Source.ClientID = v
	}
	if v := os.Getenv("SOURCE_CLIENT_SECRET"); v != "" {
		cfg.Source.ClientSecret = v
	}
	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		cfg.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMongo:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Store.Collection == "" {
		return fmt.Errorf("store.collection must be set")
	}
	if c.Ingestion.PageSize <= 0 {
		return fmt.Errorf("ingestion.page_size must be positive, got %d", c.Ingestion.PageSize)
	}
	if c.Ingestion.MaxRecords <= 0 {
		return fmt.Errorf("ingestion.max_records must be positive, got %d", c.Ingestion.MaxRecords)
	}
	if c.Ingestion.PartitionConcurrency < 1 {
		c.Ingestion.PartitionConcurrency = 1
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("unsupported cache driver %q", c.Cache.Driver)
	}
	return nil
}

// IsSQL reports whether the listing store is backed by gorm
func (c *Config) IsSQL() bool {
	return c.Store.Driver == StoreDriverPostgres || c.Store.Driver == StoreDriverSQLite
}
