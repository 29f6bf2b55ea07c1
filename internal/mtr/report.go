// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the output format of a rendered report.
type Format string

const (
	// FormatText is the fixed column layout of "mtr --report".
	FormatText Format = "text"
	// FormatJSON renders the hop statistics as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the hop statistics as YAML.
	FormatYAML Format = "yaml"
)

// minHostWidth is the minimum width of the host column in text reports.
const minHostWidth = 38

// Report is the structured form of a rendered report.
type Report struct {
	Hops []Stats `json:"hops" yaml:"hops"`
}

// ParseFormat parses a format name. An empty name selects [FormatText].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Render renders the current statistics in the given format.
// Rendering does not change the aggregator.
func (a *Aggregator) Render(f Format) (string, error) {
	stats := a.Stats()

	switch f {
	case FormatText, "":
		return renderText(stats), nil
	case FormatJSON:
		b, err := json.MarshalIndent(Report{Hops: stats}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(b), nil
	case FormatYAML:
		b, err := yaml.Marshal(Report{Hops: stats})
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown report format %q", f)
	}
}

// renderText lays out the statistics like "mtr --report" does: a header
// followed by one row per hop in index order.
func renderText(stats []Stats) string {
	width := minHostWidth
	for _, s := range stats {
		width = max(width, len(s.Host))
	}

	var b strings.Builder
	b.WriteString("       Host")
	b.WriteString(strings.Repeat(" ", width+7))
	b.WriteString("Loss%   Snt   Last   Avg  Best  Wrst StDev\n")
	for i, s := range stats {
		fmt.Fprintf(&b, "%2d.|-- %-*s%3d.0%%   %3d  %5.1f %5.1f %5.1f %5.1f %5.1f\n",
			i, width+3, s.Host, int(s.Loss), s.Sent, s.Last, s.Avg, s.Best, s.Worst, s.StDev)
	}
	return b.String()
}
