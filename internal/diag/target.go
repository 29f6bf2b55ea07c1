// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"errors"
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var (
	// ErrEmptyTarget is returned for an empty target
	ErrEmptyTarget = errors.New("target must not be empty")
	// ErrInvalidTarget is returned for targets that are neither an IP address nor a hostname
	ErrInvalidTarget = errors.New("target must be an IP address or a hostname")
	// ErrFamilyMismatch is returned for IP addresses of the wrong family
	ErrFamilyMismatch = errors.New("IP address family does not match the method")
)

// maxHostnameLength is the longest name DNS can carry.
const maxHostnameLength = 253

var hostnameRegexp = regexp.MustCompile(`^([a-z0-9_]([a-z0-9_-]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.?$`)

// ValidateTarget checks that target is an IP address of the family of k or
// a syntactically valid hostname. Internationalized hostnames are accepted.
func ValidateTarget(k Kind, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrEmptyTarget
	}

	if addr, err := netip.ParseAddr(target); err == nil {
		if addr.Zone() != "" {
			return ErrInvalidTarget
		}
		addr = addr.Unmap()
		if (k.Family() == 4) != addr.Is4() {
			return ErrFamilyMismatch
		}
		return nil
	}

	ascii, err := idna.Lookup.ToASCII(target)
	if err != nil {
		return ErrInvalidTarget
	}
	if len(ascii) > maxHostnameLength || !hostnameRegexp.MatchString(ascii) {
		return ErrInvalidTarget
	}
	return nil
}
