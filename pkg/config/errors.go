// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidName is returned when the looking glass name is invalid
	ErrInvalidName = errors.New("invalid looking glass name")
	// ErrInvalidMethod is returned when a configured method is unknown
	ErrInvalidMethod = errors.New("invalid diagnostic method")
	// ErrInvalidIPv4 is returned when the published ipv4 address is invalid
	ErrInvalidIPv4 = errors.New("invalid metadata ipv4 address")
	// ErrInvalidIPv6 is returned when the published ipv6 address is invalid
	ErrInvalidIPv6 = errors.New("invalid metadata ipv6 address")
)
