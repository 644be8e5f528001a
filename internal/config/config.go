package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// ElasticsearchConfig holds connection settings for the search engine cluster.
type ElasticsearchConfig struct {
	URLs          []string
	Username      string
	Password      string
	APIKey        string
	CACertPath    string
	SkipTLSVerify bool
	MaxRetries    int
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for search exports.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// RedisConfig holds settings for the search response cache.
// An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig holds settings for the indexing worker.
type KafkaConfig struct {
	Brokers       []string
	Topics        []string
	GroupID       string
	BatchSize     int
	FlushInterval time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port             string
	TimeZone         string
	LogLevel         string
	IndexDefinitions string
	Elasticsearch    ElasticsearchConfig
	Database         DatabaseConfig
	MinIO            MinIOConfig
	Redis            RedisConfig
	Kafka            KafkaConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:             getEnv("PORT", "8080"),
		TimeZone:         getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		IndexDefinitions: getEnv("INDEX_DEFINITIONS", "indices.yaml"),
		Elasticsearch: ElasticsearchConfig{
			URLs:          getEnvList("ELASTICSEARCH_URLS", []string{"http://localhost:9200"}),
			Username:      getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:      getEnv("ELASTICSEARCH_PASSWORD", ""),
			APIKey:        getEnv("ELASTICSEARCH_API_KEY", ""),
			CACertPath:    getEnv("ELASTICSEARCH_CA_CERT", ""),
			SkipTLSVerify: getEnvBool("ELASTICSEARCH_SKIP_TLS_VERIFY", false),
			MaxRetries:    getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "searchbridge"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "search-exports"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: time.Duration(getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 3600)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 60)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", nil),
			Topics:        getEnvList("KAFKA_TOPICS", nil),
			GroupID:       getEnv("KAFKA_GROUP_ID", "searchbridge-indexer"),
			BatchSize:     getEnvInt("KAFKA_BATCH_SIZE", 500),
			FlushInterval: time.Duration(getEnvInt("KAFKA_FLUSH_INTERVAL_MS", 1000)) * time.Millisecond,
		},
	}
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the settings every command needs.
func (c *AppConfig) Validate() error {
	if len(c.Elasticsearch.URLs) == 0 {
		return errors.New("config: ELASTICSEARCH_URLS is required")
	}
	return nil
}

// ValidateWorker checks the settings the indexing worker needs on top of Validate.
func (c *AppConfig) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Kafka.Brokers) == 0 || len(c.Kafka.Topics) == 0 {
		return errors.New("config: worker requires KAFKA_BROKERS and KAFKA_TOPICS")
	}
	if c.Kafka.BatchSize <= 0 {
		return errors.New("config: KAFKA_BATCH_SIZE must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
