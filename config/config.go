package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Robot     RobotConfig     `yaml:"robot"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Missions  MissionsConfig  `yaml:"missions"`
	Web       WebConfig       `yaml:"web"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type RobotConfig struct {
	ID         string        `yaml:"id"`
	BaseURL    string        `yaml:"base_url"`
	AuthSecret string        `yaml:"auth_secret"`
	Timeout    time.Duration `yaml:"timeout"`

	MovePollInterval time.Duration `yaml:"move_poll_interval"`
	MoveTimeout      time.Duration `yaml:"move_timeout"`
	AlignTimeout     time.Duration `yaml:"align_timeout"`
	JackTimeout      time.Duration `yaml:"jack_timeout"`
	JackSettleDelay  time.Duration `yaml:"jack_settle_delay"`
	ChargeVerifyWait time.Duration `yaml:"charge_verify_wait"`
}

type CatalogConfig struct {
	MapID    string        `yaml:"map_id"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type MissionsConfig struct {
	DataDir      string        `yaml:"data_dir"`
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxRetries   int           `yaml:"max_retries"`
	AuditLogCap  int           `yaml:"audit_log_cap"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

func Defaults() *Config {
	return &Config{
		Robot: RobotConfig{
			ID:               "AMB-01",
			BaseURL:          "http://192.168.1.50:9000",
			AuthSecret:       "change-me-in-production",
			Timeout:          10 * time.Second,
			MovePollInterval: 1 * time.Second,
			MoveTimeout:      180 * time.Second,
			AlignTimeout:     120 * time.Second,
			JackTimeout:      20 * time.Second,
			JackSettleDelay:  3 * time.Second,
			ChargeVerifyWait: 3 * time.Minute,
		},
		Catalog: CatalogConfig{
			MapID:    "warehouse",
			CacheTTL: 5 * time.Minute,
		},
		Missions: MissionsConfig{
			DataDir:      "data",
			TickInterval: 5 * time.Second,
			MaxRetries:   3,
			AuditLogCap:  200,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8084,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Broker:      "localhost",
			Port:        1883,
			ClientID:    "ambercore",
			TopicPrefix: "amber",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Lock()   { c.mu.Lock() }
func (c *Config) Unlock() { c.mu.Unlock() }
