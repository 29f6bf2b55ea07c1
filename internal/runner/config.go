// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"time"

	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/mtr"
	"github.com/telekom/lookingglass/internal/traceroute"
)

const (
	// DefaultCount is the number of echo requests of a ping run
	DefaultCount = 4
	// DefaultTimeout is the wall-clock ceiling of a single run
	DefaultTimeout = 120 * time.Second
	// MaxCount is the largest accepted ping count
	MaxCount = 100
	// MaxFailThreshold is the largest accepted traceroute fail threshold
	MaxFailThreshold = 30
)

// Config is the configuration of a [Runner].
type Config struct {
	// Binaries maps a tool name (ping, traceroute, mtr) to the executable
	// to run. Tools without an entry are looked up in PATH.
	Binaries map[string]string `json:"binaries,omitempty" yaml:"binaries,omitempty" mapstructure:"binaries"`
	// Count is the default number of echo requests of a ping run.
	Count int `json:"count" yaml:"count" mapstructure:"count"`
	// FailThreshold is the default number of consecutive unanswered
	// traceroute hops after which a run is cut short.
	FailThreshold int `json:"failThreshold" yaml:"failThreshold" mapstructure:"failThreshold"`
	// Timeout is the wall-clock ceiling of a single run.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// ResolveTimeout bounds the reverse lookup of a single mtr hop address.
	ResolveTimeout time.Duration `json:"resolveTimeout" yaml:"resolveTimeout" mapstructure:"resolveTimeout"`
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Count:          DefaultCount,
		FailThreshold:  traceroute.DefaultFailThreshold,
		Timeout:        DefaultTimeout,
		ResolveTimeout: mtr.DefaultResolveTimeout,
	}
}

// Binary returns the executable of the given tool.
func (c *Config) Binary(tool string) string {
	if b, ok := c.Binaries[tool]; ok && b != "" {
		return b
	}
	return tool
}

// withDefaults returns a copy of c with every unset field set to its default.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Count == 0 {
		c.Count = d.Count
	}
	if c.FailThreshold == 0 {
		c.FailThreshold = d.FailThreshold
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = d.ResolveTimeout
	}
	return c
}

// Validate validates the runner configuration. Unset fields are valid and
// fall back to their defaults.
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if c.Count < 0 || c.Count > MaxCount {
		log.Error("The ping count should be between 1 and 100", "count", c.Count)
		err = errors.Join(err, ErrInvalidConfig{Field: "count", Reason: "must be between 1 and 100"})
	}
	if c.FailThreshold < 0 || c.FailThreshold > MaxFailThreshold {
		log.Error("The fail threshold should be between 1 and 30", "failThreshold", c.FailThreshold)
		err = errors.Join(err, ErrInvalidConfig{Field: "failThreshold", Reason: "must be between 1 and 30"})
	}
	if c.Timeout < 0 {
		log.Error("The run timeout must not be negative", "timeout", c.Timeout)
		err = errors.Join(err, ErrInvalidConfig{Field: "timeout", Reason: "must not be negative"})
	}
	if c.ResolveTimeout < 0 {
		log.Error("The resolve timeout must not be negative", "resolveTimeout", c.ResolveTimeout)
		err = errors.Join(err, ErrInvalidConfig{Field: "resolveTimeout", Reason: "must not be negative"})
	}
	for tool := range c.Binaries {
		if tool != diag.ToolPing && tool != diag.ToolTraceroute && tool != diag.ToolMtr {
			log.Error("Unknown tool in binaries", "tool", tool)
			err = errors.Join(err, ErrInvalidConfig{Field: "binaries." + tool, Reason: "unknown tool"})
		}
	}
	return err
}

// Options are the per run settings of a [Request].
// Zero values fall back to the [Config] of the runner.
type Options struct {
	// Count is the number of echo requests of a ping run.
	Count int `json:"count,omitempty"`
	// FailThreshold is the number of consecutive unanswered traceroute
	// hops after which the run is cut short.
	FailThreshold int `json:"failThreshold,omitempty"`
	// Format is the format of the mtr report.
	Format mtr.Format `json:"format,omitempty"`
}

// Validate validates the options of a single run.
func (o Options) Validate() (err error) {
	if o.Count < 0 || o.Count > MaxCount {
		err = errors.Join(err, ErrInvalidConfig{Field: "count", Reason: "must be between 1 and 100"})
	}
	if o.FailThreshold < 0 || o.FailThreshold > MaxFailThreshold {
		err = errors.Join(err, ErrInvalidConfig{Field: "failThreshold", Reason: "must be between 1 and 30"})
	}
	if _, fErr := mtr.ParseFormat(string(o.Format)); fErr != nil {
		err = errors.Join(err, ErrInvalidConfig{Field: "format", Reason: fErr.Error()})
	}
	return err
}

// resolve fills the unset options from the runner configuration.
func (o Options) resolve(c Config) Options {
	if o.Count == 0 {
		o.Count = c.Count
	}
	if o.FailThreshold == 0 {
		o.FailThreshold = c.FailThreshold
	}
	if o.Format == "" {
		o.Format = mtr.FormatText
	}
	return o
}
