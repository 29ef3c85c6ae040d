// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the birdseye route fly-over service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/birdseye/internal/config"
	"github.com/wneessen/birdseye/internal/i18n"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/presenter"
	"github.com/wneessen/birdseye/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	routePath := flag.String("route", "", "path to a GeoJSON route file")
	printPlan := flag.Bool("plan", false, "print the segment plan of the route and exit")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	if *routePath != "" {
		conf.Route.File = *routePath
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	// Initialize the service
	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize birdseye service", logger.Err(err))
		os.Exit(1)
	}

	if *printPlan {
		segments, err := serv.Plan()
		if err != nil {
			log.Error("failed to plan route", logger.Err(err))
			os.Exit(1)
		}
		fmt.Print(presenter.New(t, i18n.Tag(conf.Locale)).PlanTable(segments))
		return
	}

	// Start the service loop
	log.Info("starting birdseye service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to run birdseye service", logger.Err(err))
	}
	log.Info("shutting down birdseye service")
}

// loadConfig reads the config file at the given path. Without a path, the default location
// is searched and the defaults are used if no config file is found there.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "birdseye", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
