// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const wantHeader = "       Host                                             Loss%   Snt   Last   Avg  Best  Wrst StDev\n"

func newReportAggregator(t *testing.T) *Aggregator {
	t.Helper()
	r := &ResolverMock{
		LookupAddrFunc: func(ctx context.Context, addr string) ([]string, error) {
			if addr == "192.0.2.1" {
				return []string{"router.example.net."}, nil
			}
			return nil, &dnsError{}
		},
	}
	a := NewAggregator(WithResolver(r))
	for _, l := range []string{
		"h 0 192.0.2.1",
		"p 0 1000 0",
		"p 0 2000 1",
		"p 0 3000 2",
		"h 1 192.0.2.2",
	} {
		a.Update(t.Context(), l)
	}
	return a
}

type dnsError struct{}

func (*dnsError) Error() string { return "no such host" }

func TestAggregator_Render_text(t *testing.T) {
	a := newReportAggregator(t)

	got, err := a.Render(FormatText)
	require.NoError(t, err)

	want := wantHeader +
		" 0.|-- router.example.net                         0.0%     3    3.0   2.0   1.0   3.0   1.0\n" +
		" 1.|-- 192.0.2.2                                100.0%     0    0.0   0.0   0.0   0.0   0.0\n"
	assert.Equal(t, want, got)
}

func TestAggregator_Render_empty(t *testing.T) {
	got, err := NewAggregator(WithResolver(nil)).Render(FormatText)
	require.NoError(t, err)
	assert.Equal(t, wantHeader, got)
}

func TestAggregator_Render_wideHost(t *testing.T) {
	host := "a-rather-long-reverse-name.backbone.example.net"
	r := &ResolverMock{
		LookupAddrFunc: func(ctx context.Context, addr string) ([]string, error) {
			return []string{host}, nil
		},
	}
	a := NewAggregator(WithResolver(r))
	a.Update(t.Context(), "h 0 192.0.2.1")
	a.Update(t.Context(), "p 0 1500")

	got, err := a.Render(FormatText)
	require.NoError(t, err)

	want := "       Host                                                      Loss%   Snt   Last   Avg  Best  Wrst StDev\n" +
		" 0.|-- a-rather-long-reverse-name.backbone.example.net     0.0%     1    1.5   1.5   1.5   1.5   0.0\n"
	assert.Equal(t, want, got)
}

func TestAggregator_Render_idempotent(t *testing.T) {
	a := newReportAggregator(t)
	for _, f := range []Format{FormatText, FormatJSON, FormatYAML} {
		first, err := a.Render(f)
		require.NoError(t, err)
		second, err := a.Render(f)
		require.NoError(t, err)
		assert.Equal(t, first, second, "format %s", f)
	}
}

func TestAggregator_Render_structured(t *testing.T) {
	a := newReportAggregator(t)
	want := Report{Hops: []Stats{
		{Index: 0, Host: "router.example.net", Sent: 3, Received: 3, Last: 3, Avg: 2, Best: 1, Worst: 3, StDev: 1},
		{Index: 1, Host: "192.0.2.2", Loss: 100},
	}}

	t.Run("json", func(t *testing.T) {
		out, err := a.Render(FormatJSON)
		require.NoError(t, err)
		var got Report
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := a.Render(FormatYAML)
		require.NoError(t, err)
		var got Report
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})
}

func TestAggregator_Render_unknownFormat(t *testing.T) {
	_, err := NewAggregator(WithResolver(nil)).Render(Format("xml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: " JSON ", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
