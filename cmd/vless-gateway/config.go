package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/remnaops/vless-gateway/internal/api/http"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig
	Http      http.Config
	Sheet     SheetConfig
	Remna     RemnaConfig
	Tailscale TailscaleConfig
}

type SheetConfig struct {
	ID              string `mapstructure:"id"`
	Page            string `mapstructure:"page"`
	Column          int    `mapstructure:"column"`
	StartRow        int    `mapstructure:"start_row"`
	RefreshMinutes  int    `mapstructure:"refresh_minutes"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Credentials     string `mapstructure:"credentials"` // base64-encoded service account JSON
}

type RemnaConfig struct {
	BaseURL    string   `mapstructure:"base_url"`
	Token      string   `mapstructure:"token"`
	Tag        string   `mapstructure:"tag"`
	Status     string   `mapstructure:"status"`
	Inbounds   []string `mapstructure:"inbounds"`
	ExpireDays int      `mapstructure:"expire_days"`
}

type TailscaleConfig struct {
	Host    string `mapstructure:"host"`
	AuthKey string `mapstructure:"auth_key"`
}

var config Config

func InitConfig() {
	var err error

	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/vless-gateway")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("sheet.id", "GOOGLE_SHEET_ID")
	_ = viper.BindEnv("sheet.page", "GOOGLE_SHEET_PAGE")
	_ = viper.BindEnv("sheet.credentials", "GOOGLE_CREDENTIALS")
	_ = viper.BindEnv("remna.base_url", "BASE_URL")
	_ = viper.BindEnv("remna.token", "TOKEN")
	_ = viper.BindEnv("tailscale.host", "TAILSCALE_HOST")
	_ = viper.BindEnv("tailscale.auth_key", "TAILSCALE_AUTH_KEY")
	_ = viper.BindEnv("http.admin_api_key", "ADMIN_API_KEY")
	_ = viper.BindEnv("http.auth_secret", "AUTH_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		panic(err)
	}

	config.Remna.BaseURL = normalizeBaseURL(config.Remna.BaseURL)

	// Initialize logger with configured log level
	initLogger(config.Log.Level)

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}

// normalizeBaseURL accepts a bare host (how the deployment env sets it)
// or a full URL and always returns a URL with a scheme.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func (c *Config) Validate() error {
	var missing []string
	if c.Sheet.ID == "" {
		missing = append(missing, "sheet.id")
	}
	if c.Sheet.Page == "" {
		missing = append(missing, "sheet.page")
	}
	if c.Remna.BaseURL == "" {
		missing = append(missing, "remna.base_url")
	}
	if c.Remna.Token == "" {
		missing = append(missing, "remna.token")
	}
	if len(c.Remna.Inbounds) == 0 {
		missing = append(missing, "remna.inbounds")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	for _, inbound := range c.Remna.Inbounds {
		if _, err := uuid.Parse(inbound); err != nil {
			return fmt.Errorf("remna.inbounds entry %q is not a valid UUID: %w", inbound, err)
		}
	}
	if c.Sheet.Column < 1 {
		return fmt.Errorf("sheet.column must be a 1-based column index, got %d", c.Sheet.Column)
	}
	if c.Sheet.StartRow < 0 {
		return fmt.Errorf("sheet.start_row must not be negative, got %d", c.Sheet.StartRow)
	}
	if c.Remna.ExpireDays <= 0 {
		return fmt.Errorf("remna.expire_days must be positive, got %d", c.Remna.ExpireDays)
	}
	return nil
}
