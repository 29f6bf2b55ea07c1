// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about the looking glass.
package pkg

// Version is the current version of the looking glass.
// It is set at startup from the version the binary was built with.
var Version string

// GetVersion returns the version of the looking glass, "dev" for builds without one.
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
