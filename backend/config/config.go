package config

import (
	"github.com/tradewind-gg/tradewind/tradewind"
)

// WebAppConfig wraps the shared configuration with web-specific settings.
type WebAppConfig struct {
	Config      *tradewind.Config
	Debug       bool
	Environment string
}

func NewWebAppConfig(cfg *tradewind.Config, debug bool) *WebAppConfig {
	environment := "production"
	if debug {
		environment = "development"
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       debug,
		Environment: environment,
	}
}

func (w *WebAppConfig) GetWebConfig() tradewind.WebConfig {
	return w.Config.Web
}

// IsAdminUser reports whether the Discord id is on the configured admin
// list.
func (w *WebAppConfig) IsAdminUser(discordID string) bool {
	for _, admin := range w.Config.Web.AdminUsers {
		if admin == discordID {
			return true
		}
	}
	return false
}
