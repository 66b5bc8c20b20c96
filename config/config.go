package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full broker configuration. Values come from an optional
// config/config.yaml plus environment variables (dots become underscores,
// e.g. CHAIN_RPCURL overrides chain.rpcurl).
type Config struct {
	Server  Server
	Chain   Chain
	Pinata  Pinata
	Auth    Auth
	Redis   Redis
	Catalog Catalog
}

type Server struct {
	Port string
}

type Chain struct {
	RPCURL              string
	NFTContract         string
	MarketplaceContract string
	ChunkSize           uint64
}

type Pinata struct {
	JWT        string
	GatewayURL string
}

type Auth struct {
	SessionTTL   time.Duration
	ChallengeTTL time.Duration
}

type Redis struct {
	URL string
}

type Catalog struct {
	// Source picks the catalog-building strategy: "chain" (event scan) or
	// "pins" (pinned-metadata enumeration).
	Source string
	Fanout int
}

// Load reads the configuration. A missing config file is fine; env vars
// alone can configure everything.
func Load() (*Config, error) {
	v := viper.New()

	// Every key needs a default, even an empty one: Unmarshal only sees
	// keys viper already knows about, and env-only values would be lost.
	v.SetDefault("server.port", "3001")
	v.SetDefault("chain.rpcurl", "")
	v.SetDefault("chain.nftcontract", "")
	v.SetDefault("chain.marketplacecontract", "")
	v.SetDefault("chain.chunksize", 2048)
	v.SetDefault("pinata.jwt", "")
	v.SetDefault("pinata.gatewayurl", "https://gateway.pinata.cloud/ipfs/")
	v.SetDefault("auth.sessionttl", "24h")
	v.SetDefault("auth.challengettl", "5m")
	v.SetDefault("redis.url", "")
	v.SetDefault("catalog.source", "chain")
	v.SetDefault("catalog.fanout", 8)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
