package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("TRACE_SAMPLE_RATIO", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")

	cfg := Load()
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 60, cfg.Business.OTPTTLSeconds)
	assert.Equal(t, "dummy", cfg.Business.DefaultPaymentMethod)
	assert.Equal(t, "simple-ecommerce", cfg.Observ.ServiceName)
	assert.Equal(t, 1.0, cfg.Observ.TraceSampleRatio)
}

func TestTraceSampleRatio(t *testing.T) {
	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	assert.Equal(t, 0.25, Load().Observ.TraceSampleRatio)

	t.Setenv("TRACE_SAMPLE_RATIO", "lots")
	assert.Equal(t, 1.0, Load().Observ.TraceSampleRatio)
}

func TestGetBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getBool("SOME_FLAG", true))

	t.Setenv("SOME_FLAG", "0")
	assert.False(t, getBool("SOME_FLAG", true))
}
