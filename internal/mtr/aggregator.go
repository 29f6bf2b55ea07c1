// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/telekom/lookingglass/internal/logger"
)

// DefaultResolveTimeout bounds a single reverse lookup of a hop address.
const DefaultResolveTimeout = time.Second

// Aggregator folds the raw output of one mtr run into per hop statistics.
// It is not safe for concurrent use; every run owns its own aggregator.
type Aggregator struct {
	resolver       Resolver
	resolveTimeout time.Duration
	// hops is kept sorted by hop index
	hops []*Hop
	// dropped holds the indices removed as repeated hops
	dropped map[int]struct{}
}

// Option configures an [Aggregator].
type Option func(*Aggregator)

// WithResolver sets the resolver used for reverse lookups of hop addresses.
// A nil resolver disables lookups.
func WithResolver(r Resolver) Option {
	return func(a *Aggregator) {
		a.resolver = r
	}
}

// WithResolveTimeout sets the timeout of a single reverse lookup.
func WithResolveTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.resolveTimeout = d
	}
}

// NewAggregator creates an empty aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver:       NewResolver(),
		resolveTimeout: DefaultResolveTimeout,
		dropped:        map[int]struct{}{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Update parses one raw mtr line and folds it into the hop statistics.
// Lines that are not a valid sample are ignored.
func (a *Aggregator) Update(ctx context.Context, line string) {
	s, err := ParseSample(line)
	if err != nil {
		logger.FromContext(ctx).DebugContext(ctx, "Ignoring mtr line", "line", line, "error", err)
		return
	}
	a.Add(ctx, s)
}

// Add folds a parsed sample into the hop statistics.
func (a *Aggregator) Add(ctx context.Context, s Sample) {
	if _, ok := a.dropped[s.HopIndex()]; ok {
		return
	}

	h := a.hop(s.HopIndex())
	switch s := s.(type) {
	case HostSample:
		h.Addresses = append(h.Addresses, s.Address)
		h.Hostnames = append(h.Hostnames, reverseLookup(ctx, a.resolver, s.Address, a.resolveTimeout))
	case TimingSample:
		h.Sent++
		h.Timings = append(h.Timings, s.Microseconds/1000)
	}

	var removed []int
	a.hops, removed = filterRepeatedHops(a.hops)
	for _, idx := range removed {
		logger.FromContext(ctx).DebugContext(ctx, "Removed repeated hop", "hop", idx)
		a.dropped[idx] = struct{}{}
	}
}

// Hops returns a copy of the current hops in ascending index order.
func (a *Aggregator) Hops() []Hop {
	hops := make([]Hop, 0, len(a.hops))
	for _, h := range a.hops {
		hops = append(hops, h.clone())
	}
	return hops
}

// Stats returns the derived statistics of every hop in ascending index order.
func (a *Aggregator) Stats() []Stats {
	stats := make([]Stats, 0, len(a.hops))
	for _, h := range a.hops {
		stats = append(stats, h.Stats())
	}
	return stats
}

// hop returns the hop with the given index, inserting a new one at its
// sorted position if it does not exist yet.
func (a *Aggregator) hop(idx int) *Hop {
	i, found := slices.BinarySearchFunc(a.hops, idx, func(h *Hop, target int) int {
		return cmp.Compare(h.Index, target)
	})
	if found {
		return a.hops[i]
	}
	h := &Hop{Index: idx}
	a.hops = slices.Insert(a.hops, i, h)
	return h
}

// filterRepeatedHops removes hops whose first address repeats the first
// address of the hop right before them. mtr regularly reports the destination
// once more on the hop after it; only the first of such a run is kept. Hops
// without any address are kept and break a run. The input must be sorted by
// index and is not modified.
func filterRepeatedHops(hops []*Hop) (kept []*Hop, removed []int) {
	kept = make([]*Hop, 0, len(hops))
	prev := ""
	for _, h := range hops {
		addr, ok := h.firstAddress()
		if ok && addr == prev {
			removed = append(removed, h.Index)
			continue
		}
		prev = addr
		kept = append(kept, h)
	}
	return kept, removed
}
