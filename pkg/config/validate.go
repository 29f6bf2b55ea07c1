// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"regexp"

	"github.com/telekom/lookingglass/internal/logger"
)

var dnsNameRegexp = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?$`)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	if !isDNSName(c.Name) {
		log.Error("The name of the looking glass must be DNS compliant", "name", c.Name)
		err = errors.Join(err, ErrInvalidName)
	}

	if vErr := c.Metadata.Validate(ctx); vErr != nil {
		log.Error("The metadata is invalid")
		err = errors.Join(err, vErr)
	}

	for _, m := range c.Methods {
		if !isKnownMethod(m) {
			log.Error("Unknown diagnostic method", "method", m)
			err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidMethod, m))
		}
	}

	if vErr := c.Diagnostics.Validate(ctx); vErr != nil {
		log.Error("The diagnostics configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.Error("The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if vErr := c.Api.Validate(); vErr != nil {
		log.Error("The api configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// Validate validates the metadata. Unset addresses are valid.
func (m *Metadata) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	if m.IPv4 != "" {
		if addr, pErr := netip.ParseAddr(m.IPv4); pErr != nil || !addr.Is4() {
			log.Error("The ipv4 address is invalid", "ipv4", m.IPv4)
			err = errors.Join(err, ErrInvalidIPv4)
		}
	}
	if m.IPv6 != "" {
		if addr, pErr := netip.ParseAddr(m.IPv6); pErr != nil || !addr.Is6() || addr.Is4In6() {
			log.Error("The ipv6 address is invalid", "ipv6", m.IPv6)
			err = errors.Join(err, ErrInvalidIPv6)
		}
	}
	return err
}

// isDNSName checks if the given string is a valid DNS name
func isDNSName(s string) bool {
	return len(s) <= 253 && dnsNameRegexp.MatchString(s)
}
