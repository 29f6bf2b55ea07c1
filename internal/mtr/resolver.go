// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"context"
	"net"
	"strings"
	"time"
)

// Resolver performs reverse lookups of hop addresses.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

type resolver struct {
	*net.Resolver
}

// NewResolver returns a [Resolver] backed by the pure Go resolver.
func NewResolver() Resolver {
	return &resolver{
		Resolver: &net.Resolver{PreferGo: true},
	}
}

// reverseLookup returns the first name of addr without its trailing dot,
// or an empty string if the lookup fails or takes longer than timeout.
func reverseLookup(ctx context.Context, r Resolver, addr string, timeout time.Duration) string {
	if r == nil {
		return ""
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	names, err := r.LookupAddr(ctx, addr)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
