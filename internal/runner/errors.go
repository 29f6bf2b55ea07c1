// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"errors"
	"fmt"

	"github.com/telekom/lookingglass/internal/diag"
)

var (
	// ErrInvalidKind is returned for requests without a valid diagnostic kind
	ErrInvalidKind = errors.New("invalid diagnostic kind")
	// ErrEmptyTarget is returned when the sanitized target is empty
	ErrEmptyTarget = errors.New("empty target")
	// ErrOptionTarget is returned when the sanitized target would be read as a command line option
	ErrOptionTarget = errors.New("target must not start with '-'")
)

// SpawnError is returned when the diagnostic process could not be started.
// Nothing is streamed for such a run.
type SpawnError struct {
	Kind diag.Kind
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ErrInvalidConfig is returned when a configuration field is invalid
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Reason)
}
