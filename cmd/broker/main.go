package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/brickbyblock/broker/adapters/chain"
	"github.com/brickbyblock/broker/adapters/events"
	"github.com/brickbyblock/broker/adapters/metadata"
	"github.com/brickbyblock/broker/adapters/pin"
	"github.com/brickbyblock/broker/adapters/store"
	"github.com/brickbyblock/broker/adapters/tokenizer"
	"github.com/brickbyblock/broker/config"
	"github.com/brickbyblock/broker/ports"
	"github.com/brickbyblock/broker/service"
	transport "github.com/brickbyblock/broker/transport/http"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Session tokens only need to survive as long as this process; a fresh
	// signing key at boot invalidates sessions across restarts, which the
	// 1-day TTL already tolerates. Load from secure storage if that ever
	// becomes a problem.
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate signing key: %v", err)
	}

	chainClient, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.NFTContract, cfg.Chain.MarketplaceContract)
	if err != nil {
		log.Fatalf("Failed to connect to chain RPC: %v", err)
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	pinner := pin.NewClient(cfg.Pinata.JWT, pin.WithHTTPClient(httpClient))
	resolver := metadata.NewResolver(cfg.Pinata.GatewayURL, httpClient)

	// Redis is optional: with it the nonce store and login events work
	// across instances; without it everything stays in-process.
	var nonceStore ports.NonceStore
	var eventPub ports.EventPublisher
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		nonceStore = store.NewRedisStore(redisClient, cfg.Auth.ChallengeTTL)
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		nonceStore = store.NewMemoryStore()
	}

	var source ports.CatalogSource
	switch cfg.Catalog.Source {
	case "pins":
		source = service.NewPinCatalog(pinner, resolver, cfg.Catalog.Fanout)
	default:
		source = service.NewChainCatalog(chainClient, resolver, cfg.Chain.ChunkSize, cfg.Catalog.Fanout)
	}

	authService := service.NewAuthService(nonceStore, tokenizer.NewJWTTokenizer(signKey), eventPub, cfg.Auth.SessionTTL)
	catalogService := service.NewCatalogService(source, chainClient, resolver)
	txService := service.NewTxService(chainClient, pinner)

	router := transport.SetupRouter(authService, catalogService, txService)

	slog.Info("broker listening", "port", cfg.Server.Port, "catalogSource", cfg.Catalog.Source)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
