package main

import (
	"context"
	"flag"
	"fmt"
	"gradebook/backend/config"
	"gradebook/backend/initialize"
	"gradebook/backend/server"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (optional; GRADEBOOK_* env vars override)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "gradebook:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	src, err := config.Open(configPath)
	if err != nil {
		return err
	}
	cfg, err := src.Config()
	if err != nil {
		return err
	}

	log, logFile, err := initialize.NewLogger(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initialize.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if configPath != "" {
		src.Watch(func(next *config.Config) {
			if err := initialize.SetLevel(next.Log.Level); err != nil {
				log.Warn().Err(err).Msg("ignoring log level from reloaded config")
				return
			}
			log.Info().Str("level", next.Log.Level).Msg("config reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("config reload rejected")
		})
	}

	return server.Run(ctx, server.Options{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, app.Router, log)
}
