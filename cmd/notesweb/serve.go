package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notesweb/internal/config"
	"notesweb/internal/http/handlers"
	applog "notesweb/internal/log"
	"notesweb/internal/repos"
	"notesweb/internal/server"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.SetOutput(out)

	db, err := repos.OpenDB(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := repos.Migrate(ctx, db); err != nil {
		return err
	}

	deps := handlers.NewDeps(db, cfg)
	if n, err := deps.Auth.PurgeExpired(ctx); err != nil {
		return err
	} else if n > 0 {
		applog.Info(nil, "session.sweep", map[string]any{"removed": n})
	}
	go deps.Auth.RunSweeper(ctx, cfg.SessionSweep)

	app := server.New(cfg, deps, server.Options{AccessLog: out})

	errCh := make(chan error, 1)
	go func() {
		applog.Info(nil, "server.start", map[string]any{"addr": cfg.Addr, "driver": cfg.DBDriver})
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	applog.Info(nil, "server.stop", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
