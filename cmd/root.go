// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/lookingglass/pkg/config"
)

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	var cfgFile, envFile string

	rootCmd := &cobra.Command{
		Use:   "lookingglass",
		Short: "Looking glass, network path diagnostics on demand",
		Long: "Looking glass runs ping, traceroute and mtr against a requested target.\n" +
			"The output of the tools is streamed back over an API as it is produced.",
		Version: version,
	}

	cobra.OnInitialize(func() {
		initConfig(cfgFile, envFile)
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.lookingglass.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "file with environment variables to load (default is .env if present)")

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func BuildCmd(version string) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdRun())
	cmd.AddCommand(NewCmdDiagnose())
	return cmd
}

func initConfig(cfgFile, envFile string) {
	cobra.CheckErr(loadEnvFile(envFile))

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".lookingglass" (without an extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lookingglass")
	}

	viper.SetOptions(viper.ExperimentalBindStruct())
	viper.SetEnvPrefix("lookingglass")
	dotreplacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(dotreplacer)
	viper.AutomaticEnv()
	cobra.CheckErr(bindLegacyEnv(viper.GetViper()))
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	cobra.CheckErr(normalizeLists(viper.GetViper()))
}

// loadEnvFile loads the environment variables of the given file.
// Without a file an existing .env in the working directory is loaded.
// Variables already set in the environment take precedence.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// legacyEnv maps config keys to the unprefixed variables of older deployments
var legacyEnv = map[string]string{
	"metadata.location":  "LOCATION",
	"metadata.ipv4":      "IPV4",
	"metadata.ipv6":      "IPV6",
	"methods":            "METHODS",
	"api.allowedOrigins": "ALLOWED_ORIGIN",
}

// bindLegacyEnv binds the unprefixed variables. The prefixed variable wins
// if both are set.
func bindLegacyEnv(v *viper.Viper) error {
	replacer := strings.NewReplacer(".", "_")
	for key, env := range legacyEnv {
		prefixed := "LOOKINGGLASS_" + strings.ToUpper(replacer.Replace(key))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.address", ":8080")
	v.SetDefault("methods", config.DefaultMethods)
	if host, err := os.Hostname(); err == nil {
		v.SetDefault("name", strings.ToLower(host))
	}
}
