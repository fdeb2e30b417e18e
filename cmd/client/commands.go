// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/client"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

const (
	defaultLogFile  = "jobcrm-client.log"
	localAPITimeout = time.Minute
)

func newRunCommand(flags *config.Flags, buildInfo models.AppBuildInfo) *cobra.Command {
	var (
		headless bool
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the client with the status view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetClientConfig(flags)
			if err != nil {
				return fmt.Errorf("error getting configs: %w", err)
			}

			// the status view owns stdout
			var log *logger.Logger
			if headless {
				log = logger.NewLogger("jobcrm-client")
			} else {
				log = logger.NewFileLogger("jobcrm-client", logFile)
			}
			log = log.WithLevel(cfg.LogLevel)

			opts := []client.Option{}
			if headless {
				opts = append(opts, client.WithHeadless())
			}

			app, err := client.NewApp(cmd.Context(), cfg, buildInfo, log, opts...)
			if err != nil {
				log.Err(err).Msg("init client app error")
				return err
			}
			if app.OnlineOnly() {
				fmt.Fprintln(cmd.ErrOrStderr(), "offline store unavailable, running in online-only mode")
			}

			if err = app.Run(cmd.Context()); err != nil {
				log.Err(err).Msg("client run error")
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the status view")
	cmd.Flags().StringVar(&logFile, "log-file", defaultLogFile, "Log file used while the status view is shown")

	return cmd
}

func newStatusCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := localAPI(flags)
			if err != nil {
				return err
			}

			snapshot, err := api.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("get status: %w", err)
			}

			out := cmd.OutOrStdout()
			network := "offline"
			switch {
			case snapshot.IsOnline && snapshot.IsSlowConnection:
				network = "online (slow connection)"
			case snapshot.IsOnline:
				network = "online"
			}
			fmt.Fprintf(out, "Network:  %s\n", network)
			fmt.Fprintf(out, "Pending:  %d\n", snapshot.PendingCount)
			fmt.Fprintf(out, "Unsynced: %d\n", snapshot.UnsyncedCount)
			if snapshot.IsSyncing {
				fmt.Fprintf(out, "Syncing:  %.0f%%\n", snapshot.SyncProgress*100)
			}
			return nil
		},
	}
}

func newSyncCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Drain the pending changes of a running client now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := localAPI(flags)
			if err != nil {
				return err
			}

			result, err := api.Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintln(out, "a sync is already running")
				return nil
			}
			fmt.Fprintf(out, "synced %d of %d, %d failed, %d abandoned\n",
				result.Succeeded, result.Total, result.Failed, result.Abandoned)
			if result.Aborted {
				fmt.Fprintln(out, "the connection was lost during the sync")
			}
			return nil
		},
	}
}

func newExportCommand(flags *config.Flags) *cobra.Command {
	var (
		dir    string
		toClip bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the offline data of a running client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := localAPI(flags)
			if err != nil {
				return err
			}

			body, err := api.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			var bundle models.ExportBundle
			if err = json.Unmarshal(body, &bundle); err != nil {
				return fmt.Errorf("export: decode bundle: %w", err)
			}
			pretty, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return fmt.Errorf("export: encode bundle: %w", err)
			}

			if toClip {
				if err = clipboard.WriteAll(string(pretty)); err != nil {
					return fmt.Errorf("copy export to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "export copied to the clipboard")
				return nil
			}

			path := filepath.Join(dir, service.ExportFileName(time.Now()))
			if err = os.WriteFile(path, pretty, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output-dir", "o", ".", "Directory the export file is written to")
	cmd.Flags().BoolVar(&toClip, "clipboard", false, "Copy the export to the clipboard instead of writing a file")

	return cmd
}

func localAPI(flags *config.Flags) (*adapter.LocalAPI, error) {
	cfg, err := config.GetClientConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}
	return adapter.NewLocalAPI(cfg.Server.HTTPAddress, localAPITimeout)
}
