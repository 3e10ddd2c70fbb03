package utilities

import (
	"log"
)

// Logging Level
const (
	Debug LogLevel = iota
	Info
	Warn
	Error
	Fatal
)

// --- Types (Alphabetized) ---

// AppConfig is the root configuration structure, holding all other config sections.
type AppConfig struct {
	AppName       string               `mapstructure:"app_name"`
	Binance       *BinanceConfig       `mapstructure:"binance"`
	Blockchain    *BlockchainConfig    `mapstructure:"blockchain"`
	Coingecko     *CoingeckoConfig     `mapstructure:"coingecko"`
	Coinmarketcap *CoinmarketcapConfig `mapstructure:"coinmarketcap"`
	Debug         bool                 `mapstructure:"debug"`
	Environment   string               `mapstructure:"environment"`
	FearGreed     *FearGreedConfig     `mapstructure:"fear_greed"`
	Logging       LoggingConfig        `mapstructure:"logging"`
	News          NewsConfig           `mapstructure:"news"`
	Server        ServerConfig         `mapstructure:"server"`
	Version       string               `mapstructure:"version"`
}

// BinanceConfig holds settings for the Binance spot price provider.
type BinanceConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	QuoteSuffix       string `mapstructure:"quote_suffix"`
	RateLimitBurst    int    `mapstructure:"rate_limit_burst"`
	RateLimitPerSec   int    `mapstructure:"rate_limit_per_sec"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// BlockchainConfig holds settings for the blockchain.info whale feed.
type BlockchainConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// CoingeckoConfig holds settings for the CoinGecko data provider.
type CoingeckoConfig struct {
	APIKey            string `mapstructure:"api_key"`
	BaseURL           string `mapstructure:"base_url"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RateLimitBurst    int    `mapstructure:"rate_limit_burst"`
	RateLimitPerSec   int    `mapstructure:"rate_limit_per_sec"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
	RetryDelaySec     int    `mapstructure:"retry_delay_sec"`
}

// CoinmarketcapConfig holds settings for the CoinMarketCap historical scraper.
type CoinmarketcapConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// FearGreedConfig holds settings for the Fear & Greed Index data source.
type FearGreedConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// Logger provides a structured logger with different levels.
type Logger struct {
	Level  LogLevel
	Logger *log.Logger
}

// LoggingConfig holds settings related to logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LogLevel defines the severity of a log message.
type LogLevel int

// NewsConfig holds the named RSS/Atom feeds served by the news endpoint.
type NewsConfig struct {
	Feeds             map[string]string `mapstructure:"feeds"`
	RequestTimeoutSec int               `mapstructure:"request_timeout_sec"`
}

// ServerConfig holds settings for the HTTP listener.
type ServerConfig struct {
	Addr               string `mapstructure:"addr"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec"`
}
