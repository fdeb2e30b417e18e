// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/handler"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/server"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/internal/workers"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:          "jobcrm-worker",
		Short:        "Request-interception proxy serving the job CRM shell offline",
		SilenceUsage: true,
	}
	flags := config.BindFlags(root.PersistentFlags())

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		printBuildInfo(cmd)
		return run(cmd.Context(), flags)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, flags *config.Flags) error {
	log := logger.NewLogger("jobcrm-worker")

	cfg, err := config.GetWorkerConfig(flags)
	if err != nil {
		log.Err(err).Msg("error getting configs")
		return err
	}
	log = log.WithLevel(cfg.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Msg("error creating storages")
		return err
	}
	defer storages.Close()

	fetcher := adapter.NewHTTPFetcher(cfg.UpstreamTimeout, log)

	services, err := service.NewWorkerServices(storages, fetcher, cfg, log)
	if err != nil {
		log.Err(err).Msg("error creating services")
		return err
	}

	if err = services.Lifecycle.Restore(ctx); err != nil {
		log.Err(err).Msg("error restoring active shell version")
	}

	handlers, err := handler.NewWorkerHandlers(services, fetcher, cfg, log)
	if err != nil {
		log.Err(err).Msg("error creating handlers")
		return err
	}

	srv, err := server.NewWorkerServer(handlers, cfg, log)
	if err != nil {
		log.Err(err).Msg("error creating server")
		return err
	}

	err = workers.NewWorkers(log).
		Add("worker-proxy", srv).
		Add("manifest-watcher", services.Manifest).
		Run(ctx)
	if err != nil {
		log.Err(err).Msg("worker stopped with error")
		return err
	}

	log.Info().Msg("worker stopped")
	return nil
}

func printBuildInfo(cmd *cobra.Command) {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Build version: %s\n", buildVersion)
	fmt.Fprintf(out, "Build date: %s\n", buildDate)
	fmt.Fprintf(out, "Build commit: %s\n", buildCommit)
}
