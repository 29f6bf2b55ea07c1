// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package glass

import (
	"errors"
)

// ErrFinalShutdown is returned by [Glass.Run] once the looking glass was shut down
var ErrFinalShutdown = errors.New("looking glass was shut down")

// ErrShutdown holds any errors that may
// have occurred during shutdown of the looking glass
type ErrShutdown struct {
	errAPI     error
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errMetrics != nil
}

func (e ErrShutdown) Error() string {
	if err := errors.Join(e.errAPI, e.errMetrics); err != nil {
		return "failed to shutdown: " + err.Error()
	}
	return "no shutdown error"
}

func (e ErrShutdown) Unwrap() []error {
	return []error{e.errAPI, e.errMetrics}
}
