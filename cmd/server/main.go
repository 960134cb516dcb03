package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Relay/internal/adapters/http"
	"github.com/dkeye/Relay/internal/adapters/tcp"
	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	var limiter *app.JoinRateLimiter
	if cfg.JoinRateLimit > 0 {
		limiter = app.NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval)
	}
	o := orch.New(orch.Options{
		Room: domain.Room{
			Name:      domain.RoomName(cfg.RoomName),
			Capacity:  cfg.RoomCapacity,
			QueueSize: cfg.QueueSize,
		},
		JoinTimeout: cfg.JoinTimeout,
		Policy:      app.SimplePolicy{},
		Limiter:     limiter,
	})

	ln, err := tcp.Listen(cfg.Addr(), cfg.WriteTimeout)
	if err != nil {
		return err
	}
	o.Start()
	defer o.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return o.Serve(gctx, ln)
	})

	var srv *http.Server
	if addr := cfg.HTTPAddr(); addr != "" {
		srv = &http.Server{
			Addr:    addr,
			Handler: router.SetupRouter(cfg, o),
		}
		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("Relay admin API started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		if srv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("HTTP server forced to shutdown")
			}
		}
		o.Shutdown()
		return nil
	})

	return g.Wait()
}
