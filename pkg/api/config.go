// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"net"
	"os"
)

var (
	// ErrInvalidAddress is returned when the listening address is invalid
	ErrInvalidAddress = errors.New("invalid listening address")
	// ErrMissingTLSFile is returned when tls is enabled without a certificate or key
	ErrMissingTLSFile = errors.New("tls certificate and key are required")
	// ErrInvalidOrigin is returned for an empty allowed origin
	ErrInvalidOrigin = errors.New("allowed origins must not be empty strings")
)

// Config is the configuration of the API server
type Config struct {
	// ListeningAddress is the address the server listens on, e.g. ":8080"
	ListeningAddress string `yaml:"address" mapstructure:"address"`
	// AllowedOrigins are the origins browsers may call the API from.
	// An empty list allows every origin.
	AllowedOrigins []string `yaml:"allowedOrigins" mapstructure:"allowedOrigins"`
	// Tls is the tls configuration of the server
	Tls TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig is the tls configuration of the server
type TLSConfig struct {
	// Enabled is a flag to serve the API over https
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath is the path to the tls certificate file
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
	// KeyPath is the path to the tls key file
	KeyPath string `yaml:"keyPath" mapstructure:"keyPath"`
}

// Validate validates the api configuration
func (c *Config) Validate() (err error) {
	if _, _, sErr := net.SplitHostPort(c.ListeningAddress); sErr != nil {
		err = errors.Join(err, ErrInvalidAddress)
	}
	for _, o := range c.AllowedOrigins {
		if o == "" {
			err = errors.Join(err, ErrInvalidOrigin)
			break
		}
	}
	if c.Tls.Enabled {
		if c.Tls.CertPath == "" || c.Tls.KeyPath == "" {
			return errors.Join(err, ErrMissingTLSFile)
		}
		for _, p := range []string{c.Tls.CertPath, c.Tls.KeyPath} {
			if _, sErr := os.Stat(p); sErr != nil {
				err = errors.Join(err, sErr)
			}
		}
	}
	return err
}
