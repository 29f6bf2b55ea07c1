// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		target  string
		wantErr error
	}{
		{name: "ipv4 for ping", kind: Ping4, target: "192.0.2.1"},
		{name: "ipv6 for ping6", kind: Ping6, target: "2001:db8::1"},
		{name: "ipv6 for mtr", kind: Mtr4, target: "2001:db8::1", wantErr: ErrFamilyMismatch},
		{name: "ipv4 for traceroute6", kind: Traceroute6, target: "192.0.2.1", wantErr: ErrFamilyMismatch},
		{name: "mapped ipv4", kind: Ping4, target: "::ffff:192.0.2.1"},
		{name: "zoned ipv6", kind: Ping6, target: "fe80::1%eth0", wantErr: ErrInvalidTarget},
		{name: "hostname", kind: Traceroute4, target: "www.example.net"},
		{name: "hostname for ipv6", kind: Mtr6, target: "example.net"},
		{name: "single label", kind: Ping4, target: "localhost"},
		{name: "fully qualified", kind: Ping4, target: "example.net."},
		{name: "upper case", kind: Ping4, target: "Example.NET"},
		{name: "internationalized", kind: Ping4, target: "bücher.example"},
		{name: "surrounding space", kind: Ping4, target: " example.net "},
		{name: "empty", kind: Ping4, target: "  ", wantErr: ErrEmptyTarget},
		{name: "url", kind: Ping4, target: "https://example.net/", wantErr: ErrInvalidTarget},
		{name: "flag injection", kind: Ping4, target: "-f example.net", wantErr: ErrInvalidTarget},
		{name: "shell metacharacters", kind: Ping4, target: "example.net;reboot", wantErr: ErrInvalidTarget},
		{name: "quote", kind: Ping4, target: "example.net'", wantErr: ErrInvalidTarget},
		{name: "leading hyphen label", kind: Ping4, target: "-example.net", wantErr: ErrInvalidTarget},
		{name: "too long", kind: Ping4, target: strings.Repeat("a.", 127) + "net", wantErr: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.kind, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
