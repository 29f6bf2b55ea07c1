// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/mtr"
	"github.com/telekom/lookingglass/internal/runner"
)

// NewCmdDiagnose creates a new diagnose command
func NewCmdDiagnose() *cobra.Command {
	var (
		count, failThreshold int
		format               string
	)

	cmd := &cobra.Command{
		Use:   "diagnose <method> <target>",
		Short: "Run a single diagnostic and print its output",
		Long: "Runs one of ping, ping6, traceroute, traceroute6, mtr or mtr6 against the target\n" +
			"and prints the output the same way the api streams it.",
		Example: "  lookingglass diagnose traceroute example.net\n" +
			"  lookingglass diagnose mtr6 2001:db8::1 --format json",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mtr.ParseFormat(format)
			if err != nil {
				return err
			}
			return diagnose(cmd, args[0], args[1], runner.Options{
				Count:         count,
				FailThreshold: failThreshold,
				Format:        f,
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of echo requests of a ping run (default is the configured count)")
	cmd.Flags().IntVar(&failThreshold, "fail-threshold", 0, "consecutive unanswered traceroute hops after which the run is cut short")
	cmd.Flags().StringVar(&format, "format", string(mtr.FormatText), "format of an mtr report: text, json or yaml")

	return cmd
}

// diagnose runs a single diagnostic and writes its output to the command's output
func diagnose(cmd *cobra.Command, method, target string, opts runner.Options) error {
	kind, err := diag.ParseKind(method)
	if err != nil {
		return err
	}
	target = strings.TrimSpace(target)
	if err = diag.ValidateTarget(kind, target); err != nil {
		return fmt.Errorf("invalid target %q: %w", target, err)
	}
	if err = opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	var cfg runner.Config
	if err = viper.UnmarshalKey("diagnostics", &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = cfg.Validate(ctx); err != nil {
		return fmt.Errorf("error while validating the config: %w", err)
	}

	stream, err := runner.NewRunner(cfg).Run(ctx, runner.Request{Kind: kind, Target: target, Options: opts})
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	out := cmd.OutOrStdout()
	for ev := range stream.Events() {
		if _, err = io.WriteString(out, ev.Line()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return stream.Close()
}
