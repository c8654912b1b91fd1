package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8081
  read_timeout: 5s
marketdata:
  base_url: http://localhost:9000
  timeout: 10s
stream:
  enabled: true
  symbols: [TCS, INFY]
scan:
  profile: combined
profiles:
  combined:
    left_bars: 5
    right_bars: 5
    penalty: 20
    model: rbf
    window: 8
  light:
    left_bars: 3
    right_bars: 3
    penalty: 10
    model: rbf
    window: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout)
	}
	p, ok := cfg.Profiles["light"]
	if !ok {
		t.Fatalf("light profile missing")
	}
	if p.LeftBars != 3 || p.Penalty != 10 || p.Model != "rbf" || p.Window != 5 {
		t.Errorf("light profile = %+v", p)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "HDFC,SBIN")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("MARKETDATA_TOKEN", "secret")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Stream.Symbols) != 2 || cfg.Stream.Symbols[0] != "HDFC" {
		t.Errorf("symbols = %v", cfg.Stream.Symbols)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.MarketData.Token != "secret" {
		t.Errorf("token not overridden")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"missing base url", func(c *Config) { c.MarketData.BaseURL = "" }},
		{"stream without symbols", func(c *Config) { c.Stream.Symbols = nil }},
		{"no profiles", func(c *Config) { c.Profiles = nil }},
		{"bad model", func(c *Config) {
			p := c.Profiles["combined"]
			p.Model = "linear"
			c.Profiles["combined"] = p
		}},
		{"zero penalty", func(c *Config) {
			p := c.Profiles["combined"]
			p.Penalty = 0
			c.Profiles["combined"] = p
		}},
		{"unknown scan profile", func(c *Config) { c.Scan.Profile = "aggressive" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
