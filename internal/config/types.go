package config

// Config 是 bitjournal 的主配置载体。
type Config struct {
	App       AppConfig       `toml:"app"`
	Database  DatabaseConfig  `toml:"database"`
	Report    ReportConfig    `toml:"report"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Migration MigrationConfig `toml:"migration"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ReportConfig 控制只读报表 HTTP 服务。
type ReportConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// AnalyticsConfig 控制绩效回放模拟的参数。
// SimCapital 是回放模拟的名义起始资金（KRW），不是真实账户余额。
type AnalyticsConfig struct {
	SimCapital float64 `toml:"sim_capital"`
	WindowDays int     `toml:"window_days"`
}

// MigrationConfig 指向旧版 JSON 行式日志，留空则跳过导入。
type MigrationConfig struct {
	LegacyLog string `toml:"legacy_log"`
}
