package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ExplorViz/vs-code-backend/internal/config"
	"github.com/ExplorViz/vs-code-backend/internal/httpapi"
	"github.com/ExplorViz/vs-code-backend/internal/hub"
	"github.com/ExplorViz/vs-code-backend/internal/logging"
	"github.com/ExplorViz/vs-code-backend/internal/names"
	"github.com/ExplorViz/vs-code-backend/internal/relay"
	"github.com/ExplorViz/vs-code-backend/internal/session"
	"github.com/ExplorViz/vs-code-backend/internal/ws"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vs-code-backend",
		Short: "Pairs IDE and visualization clients and relays messages between them",
		Long: `vs-code-backend accepts websocket connections from visualization frontends
and IDE extensions, pairs them into sessions and forwards their messages.
It also hosts pair-programming rooms for sharing text selections.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}

	cmd.Flags().AddFlagSet(config.Flags())
	cmd.Flags().StringVar(&cfgFile, "config", "", "optional config file (yaml, toml or json)")
	return cmd
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	h := hub.NewHub(ctx, log)
	defer h.Close()

	namer := names.New()
	registry := session.NewRegistry(namer)
	router := relay.NewRouter(h, registry, namer, relay.Options{ExperimentMode: cfg.ExperimentMode}, log)

	socket := ws.Handler(h, router, ws.Options{
		OriginPatterns: cfg.AllowedOrigins,
		MaxMessageSize: cfg.MaxMessageSize,
		PingInterval:   cfg.PingInterval,
		PingTimeout:    cfg.PingTimeout,
		OutboxSize:     cfg.OutboxSize,
	}, log)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:      h,
			Registry: registry,
			Socket:   socket,
			BasePath: cfg.BasePath,
			Log:      log,
		}),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("path", cfg.BasePath),
			zap.Int64("max_message_size", cfg.MaxMessageSize),
			zap.Bool("experiment_mode", cfg.ExperimentMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown;
		// closing the hub closes their outboxes, which ends them.
		h.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
