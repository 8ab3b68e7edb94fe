package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
port: "9090"
db:
  path: /var/lib/irrigation/state.db
log:
  level: debug
zones:
  low_pressure_tolerant:
    - нешков пластеник
    - башта
backup:
  interval: daily
ws:
  interval: 2s
mqtt:
  broker: tcp://localhost:1883
`)

	cfg, err := NewSource(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/lib/irrigation/state.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"нешков пластеник", "башта"}, cfg.LowPressureTolerant)
	assert.Equal(t, "daily", cfg.BackupInterval)
	assert.Equal(t, 2*time.Second, cfg.WSInterval)
	assert.True(t, cfg.MQTT.Enabled())
	assert.Equal(t, "irrigation/pressure", cfg.MQTT.Topic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "port: \"9090\"\n")
	t.Setenv("IRRIGATION_PORT", "7070")
	t.Setenv("IRRIGATION_ZONES_LOW_PRESSURE_TOLERANT", "драгчетов цветни врт, башта")

	cfg, err := NewSource(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, []string{"драгчетов цветни врт", "башта"}, cfg.LowPressureTolerant)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"log level":   "log:\n  level: loud\n",
		"interval":    "backup:\n  interval: hourly\n",
		"ws interval": "ws:\n  interval: 5m\n",
		"qos":         "mqtt:\n  qos: 3\n",
		"topic":       "mqtt:\n  broker: tcp://x:1883\n  topic: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSource(writeConfig(t, t.TempDir(), body)).Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent.yml")).Load()
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("IRRIGATION_DOTENV_PROBE=from-file\n"), 0o600))
	t.Setenv("IRRIGATION_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("IRRIGATION_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv("IRRIGATION_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")
	src := NewSource(path)
	_, err := src.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	src.Watch(func(c *Config, _ fsnotify.Event) { changed <- c }, nil)

	writeConfig(t, dir, "log:\n  level: warn\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.LogLevel == "warn" {
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
