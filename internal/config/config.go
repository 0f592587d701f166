package config

import (
	"fmt"
	"os"
	"time"

	"quizshow-scoreboard/internal/scoring"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
		// Dir holds <set>.csv question files and <roster>.csv/.xlsx rosters
		// when no postgres url is configured.
		Dir string `yaml:"dir"`
	} `yaml:"questions"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Show struct {
		ID             string `yaml:"id"`
		Roster         string `yaml:"roster"`
		QuestionSet    string `yaml:"question_set"`
		Timer          int    `yaml:"timer"`
		RenderDebounce string `yaml:"render_debounce"`
		ShowTimer      bool   `yaml:"show_timer"`
	} `yaml:"show"`
	Rules scoring.Config `yaml:"rules"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() Config {
	cfg := Config{Rules: scoring.DefaultConfig()}
	cfg.Show.ID = "main"
	cfg.Show.Timer = 60
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
