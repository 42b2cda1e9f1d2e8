package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// 默认值常量
const (
	defaultAppEnv              = "dev"
	defaultAppLogLevel         = "info"
	defaultDatabasePath        = "data/trading.db"
	defaultReportAddr          = ":9992"
	defaultAnalyticsSimCapital = 1_000_000
	defaultAnalyticsWindowDays = 7
)

func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回不依赖配置文件的缺省配置，便于工具与测试直接使用。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = defaultAppEnv
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if strings.TrimSpace(c.Report.Addr) == "" {
		c.Report.Addr = defaultReportAddr
	}
	if c.Analytics.SimCapital == 0 {
		c.Analytics.SimCapital = defaultAnalyticsSimCapital
	}
	if c.Analytics.WindowDays == 0 {
		c.Analytics.WindowDays = defaultAnalyticsWindowDays
	}
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path cannot be empty")
	}
	if c.Analytics.SimCapital <= 0 {
		return fmt.Errorf("analytics.sim_capital must be > 0")
	}
	if c.Analytics.WindowDays <= 0 {
		return fmt.Errorf("analytics.window_days must be > 0")
	}
	if c.Report.Enabled && strings.TrimSpace(c.Report.Addr) == "" {
		return fmt.Errorf("report.addr cannot be empty when report.enabled")
	}
	return nil
}
