package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SF_TEST_INT", "42")
	t.Setenv("SF_TEST_BAD_INT", "x")
	t.Setenv("SF_TEST_DUR", "3s")
	t.Setenv("SF_TEST_BOOL", "true")

	assert.Equal(t, 42, EnvIntDefault("SF_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SF_TEST_BAD_INT", 1))
	assert.Equal(t, 3*time.Second, EnvDurationDefault("SF_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("SF_TEST_MISSING", time.Second))
	assert.True(t, EnvBoolDefault("SF_TEST_BOOL", false))
	assert.Equal(t, "def", EnvDefault("SF_TEST_MISSING", "def"))
}

func TestLoad_OperatorEmailFallsBackToEmailUser(t *testing.T) {
	t.Setenv("EMAIL_USER", "shop@example.com")
	t.Setenv("OPERATOR_EMAIL", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, "shop@example.com", cfg.OperatorEmail)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
}
