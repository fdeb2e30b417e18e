// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/models"
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

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	buildInfo := models.NewAppBuildInfo(orNA(buildVersion), orNA(buildDate), orNA(buildCommit))

	root := &cobra.Command{
		Use:          "jobcrm-client",
		Short:        "Offline-first sync client for the job CRM",
		Version:      buildInfo.BuildVersion(),
		SilenceUsage: true,
	}

	flags := config.BindFlags(root.PersistentFlags())

	run := newRunCommand(flags, buildInfo)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(
		run,
		newStatusCommand(flags),
		newSyncCommand(flags),
		newExportCommand(flags),
		newVersionCommand(buildInfo),
	)

	return root
}

func newVersionCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			printBuildInfo(cmd, buildInfo)
		},
	}
}

func printBuildInfo(cmd *cobra.Command, buildInfo models.AppBuildInfo) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Build version: %s\n", buildInfo.BuildVersion())
	fmt.Fprintf(out, "Build date: %s\n", buildInfo.BuildDate())
	fmt.Fprintf(out, "Build commit: %s\n", buildInfo.BuildCommit())
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
