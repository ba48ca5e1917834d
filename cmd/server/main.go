// Package main runs the CommitLabs API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Commitlabs-Org/commitlabs/internal/api"
	"github.com/Commitlabs-Org/commitlabs/internal/chain"
	"github.com/Commitlabs-Org/commitlabs/internal/config"
	"github.com/Commitlabs-Org/commitlabs/internal/ratelimit"
	"github.com/Commitlabs-Org/commitlabs/internal/service/commitments"
	"github.com/Commitlabs-Org/commitlabs/internal/storage/memory"
	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("server").WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	log := logger.New("server", logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	invoker := buildInvoker(cfg, log)
	store := memory.New()
	svc := commitments.New(store, invoker, log)

	limiter := buildLimiter(cfg, log)

	router := api.NewRouter(api.Deps{
		Commitments: svc,
		Limiter:     limiter,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildInvoker selects the chain backend. Without an RPC endpoint the
// mock invoker is used, which issues synthetic transaction hashes.
func buildInvoker(cfg *config.Config, log *logger.Logger) chain.Invoker {
	if cfg.Chain.RPCEndpoint == "" {
		log.Warn("no chain RPC endpoint configured, using mock invoker")
		return chain.NewMockInvoker()
	}
	log.WithField("endpoint", cfg.Chain.RPCEndpoint).Info("using chain RPC invoker")
	return chain.NewRPCClient(chain.RPCConfig{
		Endpoint: cfg.Chain.RPCEndpoint,
		Contract: cfg.Chain.ContractHash,
		Timeout:  cfg.Chain.Timeout.Std(),
	})
}

// buildLimiter wires the rate limiter with the configured store and any
// per-scope overrides.
func buildLimiter(cfg *config.Config, log *logger.Logger) *ratelimit.Limiter {
	var store ratelimit.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, falling back to in-memory rate limiting")
			store = ratelimit.NewMemoryStore(nil)
		} else {
			log.WithField("addr", cfg.Redis.Addr).Info("using redis rate-limit store")
			store = ratelimit.NewRedisStore(client)
		}
	} else {
		store = ratelimit.NewMemoryStore(nil)
	}

	opts := []ratelimit.Option{ratelimit.WithLogger(log)}
	for scope, sl := range cfg.RateLimit.Scopes {
		opts = append(opts, ratelimit.WithScope(scope, ratelimit.Config{
			Limit:  sl.Limit,
			Window: sl.Window.Std(),
		}))
	}
	return ratelimit.New(store, ratelimit.Config{
		Limit:  cfg.RateLimit.Limit,
		Window: cfg.RateLimit.Window.Std(),
	}, opts...)
}
