package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Channels ChannelsConfig `json:"channels"`
	Log      LogConfig      `json:"log"`
}

type ChannelsConfig struct {
	QQ QQConfig `json:"qq"`
}

type QQConfig struct {
	Enabled          bool                `env:"QQEVENTS_CHANNELS_QQ_ENABLED"            json:"enabled"`
	AppID            string              `env:"QQEVENTS_CHANNELS_QQ_APP_ID"             json:"app_id"`
	AppSecret        string              `env:"QQEVENTS_CHANNELS_QQ_APP_SECRET"         json:"app_secret"`
	Sandbox          bool                `env:"QQEVENTS_CHANNELS_QQ_SANDBOX"            json:"sandbox"`
	AllowFrom        FlexibleStringSlice `env:"QQEVENTS_CHANNELS_QQ_ALLOW_FROM"         json:"allow_from"`
	TimeoutSeconds   int                 `env:"QQEVENTS_CHANNELS_QQ_TIMEOUT_SECONDS"    json:"timeout_seconds"`
	ReactionPageSize int                 `env:"QQEVENTS_CHANNELS_QQ_REACTION_PAGE_SIZE" json:"reaction_page_size"`
	DedupSize        int                 `env:"QQEVENTS_CHANNELS_QQ_DEDUP_SIZE"         json:"dedup_size"`
}

type LogConfig struct {
	Level string `env:"QQEVENTS_LOG_LEVEL" json:"level"`
	JSON  bool   `env:"QQEVENTS_LOG_JSON"  json:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		Channels: ChannelsConfig{
			QQ: QQConfig{
				Enabled:          false,
				AllowFrom:        FlexibleStringSlice{},
				TimeoutSeconds:   5,
				ReactionPageSize: 20,
				DedupSize:        1024,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports configuration that cannot start a channel.
func (c *Config) Validate() error {
	qq := c.Channels.QQ
	if qq.Enabled && (qq.AppID == "" || qq.AppSecret == "") {
		return errors.New("channels.qq: app_id and app_secret are required when enabled")
	}
	if qq.TimeoutSeconds < 0 || qq.ReactionPageSize < 0 || qq.DedupSize < 0 {
		return errors.New("channels.qq: numeric settings must not be negative")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
