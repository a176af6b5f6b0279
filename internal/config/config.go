package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Channel names a notification target. The webhook URL normally lives in
// the OS keychain; the yaml field is a fallback for headless installs.
type Channel struct {
	Name       string `yaml:"name"`
	PingRole   string `yaml:"ping_role"`
	WebhookURL string `yaml:"webhook_url"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		IntervalHours int `yaml:"interval_hours"`
	} `yaml:"polling"`

	Sources struct {
		RMP struct {
			Enabled bool   `yaml:"enabled"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"rmp"`
		GMFJ struct {
			Enabled   bool   `yaml:"enabled"`
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"gmfj"`
	} `yaml:"sources"`

	Notify struct {
		Enabled  bool      `yaml:"enabled"`
		Channels []Channel `yaml:"channels"`
	} `yaml:"notify"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
