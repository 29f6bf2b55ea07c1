// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "ping", want: Ping4},
		{in: "ping6", want: Ping6},
		{in: "traceroute", want: Traceroute4},
		{in: " Traceroute6 ", want: Traceroute6},
		{in: "mtr", want: Mtr4},
		{in: "MTR6", want: Mtr6},
		{in: "tracert", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Properties(t *testing.T) {
	tests := []struct {
		kind   Kind
		tool   string
		family int
	}{
		{kind: Ping4, tool: ToolPing, family: 4},
		{kind: Ping6, tool: ToolPing, family: 6},
		{kind: Traceroute4, tool: ToolTraceroute, family: 4},
		{kind: Traceroute6, tool: ToolTraceroute, family: 6},
		{kind: Mtr4, tool: ToolMtr, family: 4},
		{kind: Mtr6, tool: ToolMtr, family: 6},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.True(t, tt.kind.IsValid())
			assert.Equal(t, tt.tool, tt.kind.Tool())
			assert.Equal(t, tt.family, tt.kind.Family())

			roundTrip, err := ParseKind(tt.kind.String())
			require.NoError(t, err)
			assert.Equal(t, tt.kind, roundTrip)
		})
	}

	assert.False(t, Kind(0).IsValid())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestKind_JSON(t *testing.T) {
	var req struct {
		Method Kind `json:"method"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"method":"mtr6"}`), &req))
	assert.Equal(t, Mtr6, req.Method)

	err := json.Unmarshal([]byte(`{"method":"nmap"}`), &req)
	assert.Error(t, err)

	_, err = json.Marshal(struct{ K Kind }{K: Kind(99)})
	assert.Error(t, err)
}
