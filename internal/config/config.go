// Package config loads the daemon configuration with viper: configs/config.yml,
// IRRIGATION_* environment overrides and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "IRRIGATION"

// Config keys.
const (
	keyPort              = "port"
	keyDBPath            = "db.path"
	keyLogLevel          = "log.level"
	keyTolerant          = "zones.low_pressure_tolerant"
	keyBackupInterval    = "backup.interval"
	keyWSInterval        = "ws.interval"
	keyReadHeaderTimeout = "http.read_header_timeout"
	keyWriteTimeout      = "http.write_timeout"
	keyIdleTimeout       = "http.idle_timeout"
	keyMQTTBroker        = "mqtt.broker"
	keyMQTTTopic         = "mqtt.topic"
	keyMQTTClientID      = "mqtt.client_id"
	keyMQTTUsername      = "mqtt.username"
	keyMQTTPassword      = "mqtt.password"
	keyMQTTQoS           = "mqtt.qos"
)

var (
	validLogLevels       = []string{"debug", "info", "warn", "error"}
	validBackupIntervals = []string{"daily", "weekly", "monthly"}
)

type Config struct {
	Port                string
	DBPath              string
	LogLevel            string
	LowPressureTolerant []string
	BackupInterval      string
	WSInterval          time.Duration
	HTTP                HTTPConfig
	MQTT                MQTTConfig
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// MQTTConfig configures the optional pressure feed; an empty Broker disables it.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// Source reads Config from one viper instance and can watch it for changes.
type Source struct {
	v        *viper.Viper
	explicit bool
	mu       sync.Mutex
}

// NewSource reads configFile, or configs/config.yml when configFile is empty.
func NewSource(configFile string) *Source {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}
	return &Source{v: v, explicit: configFile != ""}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyDBPath, "irrigation.db")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyTolerant, []string{})
	v.SetDefault(keyBackupInterval, "weekly")
	v.SetDefault(keyWSInterval, "5s")
	v.SetDefault(keyReadHeaderTimeout, "10s")
	v.SetDefault(keyWriteTimeout, "30s")
	v.SetDefault(keyIdleTimeout, "60s")
	v.SetDefault(keyMQTTBroker, "")
	v.SetDefault(keyMQTTTopic, "irrigation/pressure")
	v.SetDefault(keyMQTTClientID, "irrigationd")
	v.SetDefault(keyMQTTUsername, "")
	v.SetDefault(keyMQTTPassword, "")
	v.SetDefault(keyMQTTQoS, 1)
}

// Load reads the file (a missing default file is fine) and returns the validated config.
func (s *Source) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return s.decode()
}

// File is the config file in use, empty when running on defaults.
func (s *Source) File() string {
	return s.v.ConfigFileUsed()
}

// Watch calls onChange with the re-read config whenever the file changes.
// Invalid edits are passed to onError and the previous config stays in force.
func (s *Source) Watch(onChange func(*Config, fsnotify.Event), onError func(error)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.mu.Lock()
		cfg, err := s.decode()
		s.mu.Unlock()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg, e)
	})
	s.v.WatchConfig()
}

func (s *Source) decode() (*Config, error) {
	v := s.v
	cfg := &Config{
		Port:                strings.TrimSpace(v.GetString(keyPort)),
		DBPath:              strings.TrimSpace(v.GetString(keyDBPath)),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))),
		LowPressureTolerant: stringList(v.Get(keyTolerant)),
		BackupInterval:      strings.ToLower(strings.TrimSpace(v.GetString(keyBackupInterval))),
		WSInterval:          v.GetDuration(keyWSInterval),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: v.GetDuration(keyReadHeaderTimeout),
			WriteTimeout:      v.GetDuration(keyWriteTimeout),
			IdleTimeout:       v.GetDuration(keyIdleTimeout),
		},
		MQTT: MQTTConfig{
			Broker:   strings.TrimSpace(v.GetString(keyMQTTBroker)),
			Topic:    strings.TrimSpace(v.GetString(keyMQTTTopic)),
			ClientID: strings.TrimSpace(v.GetString(keyMQTTClientID)),
			Username: v.GetString(keyMQTTUsername),
			Password: v.GetString(keyMQTTPassword),
			QoS:      byte(v.GetUint(keyMQTTQoS)),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList accepts a YAML list or a comma separated string (environment variables).
func stringList(raw any) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, it := range val {
			items = append(items, fmt.Sprint(it))
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DBPath == "" {
		return errors.New("db.path is required")
	}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("log.level %q: want one of %v", c.LogLevel, validLogLevels)
	}
	if !contains(validBackupIntervals, c.BackupInterval) {
		return fmt.Errorf("backup.interval %q: want one of %v", c.BackupInterval, validBackupIntervals)
	}
	if c.WSInterval <= 0 || c.WSInterval > time.Minute {
		return fmt.Errorf("ws.interval %v: want (0, 1m]", c.WSInterval)
	}
	if c.MQTT.Enabled() && c.MQTT.Topic == "" {
		return errors.New("mqtt.topic is required when mqtt.broker is set")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d: want 0, 1 or 2", c.MQTT.QoS)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}

// LoadDotEnv loads variables from the given .env files that exist. Variables
// already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
