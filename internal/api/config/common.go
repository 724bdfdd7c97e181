package config

// Config is the configuration root.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Twitch    TwitchConfig    `mapstructure:"twitch"`
	Kick      KickConfig      `mapstructure:"kick"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Collector CollectorConfig `mapstructure:"collector"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type YouTubeConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type TwitchConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type KickConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// ScraperConfig applies to the unauthenticated HTML scrapers.
type ScraperConfig struct {
	UserAgent string `mapstructure:"user_agent"`
	TimeoutS  int    `mapstructure:"timeout_s"`
}

// CollectorConfig tunes the maintenance runners.
type CollectorConfig struct {
	RefreshBatch    int    `mapstructure:"refresh_batch"`
	RefreshDelayMs  int    `mapstructure:"refresh_delay_ms"`
	DiscoverTarget  int    `mapstructure:"discover_target"`
	RequestBatch    int    `mapstructure:"request_batch"`
	IntegrityTopN   int    `mapstructure:"integrity_top_n"`
	CandidateFile   string `mapstructure:"candidate_file"`
	RequestRateMax  int    `mapstructure:"request_rate_max"`
	RequestRateWinS int    `mapstructure:"request_rate_window_s"`
}
