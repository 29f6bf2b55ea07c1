// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/pkg/config"
	"github.com/telekom/lookingglass/pkg/glass"
)

// runFlags maps the flags of the run command to their config keys
var runFlags = map[string]string{
	"name":            "name",
	"location":        "metadata.location",
	"ipv4":            "metadata.ipv4",
	"ipv6":            "metadata.ipv6",
	"methods":         "methods",
	"api-address":     "api.address",
	"allowed-origins": "api.allowedOrigins",
}

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the looking glass",
		Long:  "Serves the looking glass api and runs diagnostics on request",
		RunE:  run(),
	}

	cmd.Flags().String("name", "", "DNS name of the looking glass (default is the hostname)")
	cmd.Flags().String("location", "", "location published on the info endpoint")
	cmd.Flags().String("ipv4", "", "public IPv4 address the diagnostics originate from")
	cmd.Flags().String("ipv6", "", "public IPv6 address the diagnostics originate from")
	cmd.Flags().StringSlice("methods", nil, "enabled diagnostic methods (default is ping,traceroute,mtr)")
	cmd.Flags().String("api-address", "", "address the api listens on (default is :8080)")
	cmd.Flags().StringSlice("allowed-origins", nil, "origins browsers may call the api from (default is any)")

	for flag, key := range runFlags {
		cobra.CheckErr(viper.BindPFlag(key, cmd.Flags().Lookup(flag)))
	}

	return cmd
}

// run is the entry point to start the looking glass
func run() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		log := logger.NewLogger()
		ctx, cancel := context.WithCancel(logger.IntoContext(cmd.Context(), log))
		defer cancel()

		if err := cfg.Validate(ctx); err != nil {
			return fmt.Errorf("error while validating the config: %w", err)
		}

		g := glass.New(cfg)
		cErr := make(chan error, 1)
		log.Info("Running looking glass", "name", cfg.Name, "address", cfg.Api.ListeningAddress)
		go func() {
			cErr <- g.Run(ctx)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			log.Info("Signal received, shutting down")
			cancel()
			<-cErr
			return nil
		case err := <-cErr:
			if errors.Is(err, glass.ErrFinalShutdown) {
				return nil
			}
			return err
		}
	}
}
