package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Duplicate-name policies for PUT /. Reject is the canonical behavior;
// upsert updates the existing row in place instead of returning a conflict.
const (
	DuplicateReject = "reject"
	DuplicateUpsert = "upsert"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort      int
	JWTSecret       string
	JWTTTLHours     int
	DuplicatePolicy string
	EventsBackend   string
	ExportBackend   string
	Database        DatabaseConfig
	RabbitMQ        RabbitMQConfig
	PubSub          PubSubConfig
	Minio           MinioConfig
	GCS             GCSConfig
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	UseSSL     bool
	SQLitePath string
}

type RabbitMQConfig struct {
	URL             string
	Queue           string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	Topic              string
	CredentialsFile    string
	SubscriptionSuffix string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnvInt("DB_PORT", 5432),
		User:       getEnv("DB_USER", "memberdir"),
		Password:   getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "memberdir_db"),
		UseSSL:     getEnvBool("DB_USE_SSL", false),
		SQLitePath: getEnv("SQLITE_PATH", "memberdir.db"),
	}

	return Config{
		ServerPort:      getEnvInt("SERVER_PORT", 8080),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTTTLHours:     getEnvInt("JWT_TTL_HOURS", 24),
		DuplicatePolicy: duplicatePolicy(getEnv("MEMBER_DUPLICATE_POLICY", DuplicateReject)),
		EventsBackend:   getEnv("EVENTS_BACKEND", ""),
		ExportBackend:   getEnv("EXPORT_BACKEND", "minio"),
		Database:        dbConfig,
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			Queue:           getEnv("RABBITMQ_QUEUE", "member-events"),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			Topic:              getEnv("PUBSUB_TOPIC", "member-events"),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "member-exports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}
}

func duplicatePolicy(value string) string {
	if strings.EqualFold(value, DuplicateUpsert) {
		return DuplicateUpsert
	}
	return DuplicateReject
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}
