package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, DuplicateReject, cfg.DuplicatePolicy)
	assert.Equal(t, 24, cfg.JWTTTLHours)
	assert.Empty(t, cfg.EventsBackend)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("MEMBER_DUPLICATE_POLICY", "UPSERT")
	t.Setenv("EVENTS_BACKEND", "rabbitmq")
	t.Setenv("RABBITMQ_QUEUE_DURABLE", "false")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, DuplicateUpsert, cfg.DuplicatePolicy)
	assert.Equal(t, "rabbitmq", cfg.EventsBackend)
	assert.False(t, cfg.RabbitMQ.QueueDurable)
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("MEMBER_DUPLICATE_POLICY", "merge")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DuplicateReject, cfg.DuplicatePolicy)
}
