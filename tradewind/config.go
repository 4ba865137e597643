package tradewind

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log        LogConfig        `toml:"log"`
	Bot        BotConfig        `toml:"bot"`
	DB         DBConfig         `toml:"db"`
	Web        WebConfig        `toml:"web"`
	Spaces     SpacesConfig     `toml:"spaces"`
	Moderation ModerationConfig `toml:"moderation"`
	Import     ImportConfig     `toml:"import"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type WebConfig struct {
	Host                 string      `toml:"host"`
	Port                 int         `toml:"port"`
	SessionKey           string      `toml:"session_key"`
	AdminUsers           []string    `toml:"admin_users"`
	ListingRetentionDays int         `toml:"listing_retention_days"`
	OAuth                OAuthConfig `toml:"oauth"`
}

type OAuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURL  string   `toml:"redirect_url"`
	Scopes       []string `toml:"scopes"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	ItemRoot string `toml:"item_root"`
}

type ModerationConfig struct {
	BlockedTerms []string `toml:"blocked_terms"`
	// Optional external moderation endpoint. Unreachable or erroring
	// escalation is treated as safe (fail open).
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// EscalationTimeout bounds the optional external moderation call.
func (m ModerationConfig) EscalationTimeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

type ImportConfig struct {
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	BatchSize     int    `toml:"batch_size"`
}

// ListingRetention returns the configured listing retention window,
// falling back to the documented 7 day default.
func (w WebConfig) ListingRetention() time.Duration {
	days := w.ListingRetentionDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}
