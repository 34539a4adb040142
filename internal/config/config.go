package config

import "os"

type ZaypayConfig struct {
	BaseURL string
	APIKey  string
}

type Config struct {
	Zaypay ZaypayConfig
}

func LoadConfig() *Config {
	cfg := &Config{}

	// Zaypay config
	cfg.Zaypay.BaseURL = os.Getenv("ZAYPAY_BASE_URL")
	if cfg.Zaypay.BaseURL == "" {
		cfg.Zaypay.BaseURL = "https://secure.zaypay.com"
	}
	cfg.Zaypay.APIKey = os.Getenv("ZAYPAY_API_KEY")

	return cfg
}
