package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Chains   []ChainConfig  `mapstructure:"chains"`
	Markets  []MarketConfig `mapstructure:"markets"`
	Trading  TradingConfig  `mapstructure:"trading"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Users    []UserConfig   `mapstructure:"users"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type AuthConfig struct {
	RequireAPIKey bool   `mapstructure:"require_api_key"`
	OperatorKey   string `mapstructure:"operator_key"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ChainConfig describes one supported network. A single RPC endpoint per
// chain; RPC failures propagate to the caller.
type ChainConfig struct {
	ID           int64  `mapstructure:"id"`
	Name         string `mapstructure:"name"`
	RPCURL       string `mapstructure:"rpc_url"`
	AccountProxy string `mapstructure:"account_proxy"`
	PerpsMarket  string `mapstructure:"perps_market"`
}

// MarketConfig maps a market key (e.g. "ETH-PERP") to the protocol's
// numeric market id.
type MarketConfig struct {
	Key string `mapstructure:"key"`
	ID  uint64 `mapstructure:"id"`
}

type TradingConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	MaxLeverage        float64 `mapstructure:"max_leverage"`
	WindowMs           int64   `mapstructure:"window_ms"`
	DefaultSlippageBps int64   `mapstructure:"default_slippage_bps"`
	ConfirmTimeoutSec  int     `mapstructure:"confirm_timeout_seconds"`
}

type OracleConfig struct {
	FeedURL      string             `mapstructure:"feed_url"`
	StaticPrices map[string]float64 `mapstructure:"static_prices"`
	StaleAfterMs int64              `mapstructure:"stale_after_ms"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// UserConfig registers an API consumer and the QPS budget the HTTP layer
// grants it. Wallet keys and trading accounts live in the database.
type UserConfig struct {
	ID     string  `mapstructure:"id"`
	APIKey string  `mapstructure:"api_key"`
	QPS    float64 `mapstructure:"qps"`
	Burst  int     `mapstructure:"burst"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variables support
	// e.g. TREZURY_TRADING_ENABLED, TREZURY_DATABASE_DSN
	viper.SetEnvPrefix("trezury")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("auth.require_api_key", true)
	viper.SetDefault("trading.enabled", false)
	viper.SetDefault("trading.max_leverage", 10)
	viper.SetDefault("trading.window_ms", 6000)
	viper.SetDefault("trading.default_slippage_bps", 50)
	viper.SetDefault("trading.confirm_timeout_seconds", 120)
	viper.SetDefault("oracle.stale_after_ms", 30000)
	viper.SetDefault("kafka.topic", "perp-fills")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
