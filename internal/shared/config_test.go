package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "REDIS_ADDR", "EVENTS_DRIVER", "KAFKA_BROKERS", "STRICT_STATUS_TRANSITIONS", "RECONCILE_WORKERS"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, "none", c.EventsDriver)
	assert.Nil(t, c.KafkaBrokers)
	assert.False(t, c.StrictTransitions)
	assert.True(t, c.AutoMigrate)
	assert.Equal(t, 4, c.ReconcileWorkers)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", " k1:9092, k2:9092 ,")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("STRICT_STATUS_TRANSITIONS", "true")
	t.Setenv("RECONCILE_WORKERS", "0")
	t.Setenv("REDIS_DB", "not-a-number")

	c := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, time.Minute, c.CacheTTL)
	assert.InDelta(t, 2.5, c.RateLimitRPS, 1e-9)
	assert.True(t, c.StrictTransitions)
	assert.Equal(t, 1, c.ReconcileWorkers)
	assert.Equal(t, 0, c.RedisDB)
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:9999\nEVENTS_QUEUE=from-file\n"), 0o600)
	assert.NoError(t, err)
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("EVENTS_QUEUE", "")
	os.Unsetenv("EVENTS_QUEUE")

	c := Load()
	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, "from-file", c.EventsQueue)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
