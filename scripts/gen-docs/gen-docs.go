// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs
//go:generate go run gen-docs.go gen-docs --path ../../docs/man --format man

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	lgcmd "github.com/telekom/lookingglass/cmd"
)

const (
	formatMarkdown = "markdown"
	formatMan      = "man"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates the documentation of the lookingglass cli",
	}
	rootCmd.AddCommand(newCmdGenDocs())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmdGenDocs() *cobra.Command {
	var path, format string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate the cli documentation",
		Long:  "Generates one markdown file or man page per lookingglass command",
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(path, format)
		},
	}

	cmd.Flags().StringVar(&path, "path", "docs", "directory the files are written to")
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "format of the files: markdown or man")

	return cmd
}

func genDocs(path, format string) error {
	c := lgcmd.BuildCmd("")
	c.DisableAutoGenTag = true

	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	var err error
	switch format {
	case formatMarkdown:
		err = doc.GenMarkdownTree(c, path)
	case formatMan:
		err = doc.GenManTree(c, &doc.GenManHeader{
			Title:   "LOOKINGGLASS",
			Section: "1",
			Source:  "Deutsche Telekom",
		}, path)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}
	return nil
}
