// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"strconv"
	"strings"

	"github.com/telekom/lookingglass/internal/diag"
	"golang.org/x/net/idna"
)

// mtrCycles is the number of pings mtr sends to every hop.
const mtrCycles = 10

// urlSafe holds the punctuation a URL sanitizing filter keeps besides
// letters and digits.
const urlSafe = "$-_.+!*'(),{}|\\^~[]`<>#%\";/?:@&="

// SanitizeTarget prepares a target for use as a process argument.
// Internationalized names are converted to their ASCII form, every
// character that is not allowed in a URL is dropped and single quotes are
// removed. The result is always passed as one discrete argument.
func SanitizeTarget(target string) string {
	target = strings.TrimSpace(target)
	if ascii, err := idna.Lookup.ToASCII(target); err == nil {
		target = ascii
	}

	var b strings.Builder
	for _, r := range target {
		switch {
		case r == '\'':
		case r > 0x7f:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(urlSafe, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// commandArgs returns the arguments of the process of kind k, without the
// executable. The target is always the last argument.
func commandArgs(k diag.Kind, opts Options, target string) []string {
	family := "-" + strconv.Itoa(k.Family())
	switch {
	case k.IsPing():
		return []string{family, "-c", strconv.Itoa(opts.Count), "-w15", target}
	case k.IsMtr():
		return []string{"--raw", "-n", family, "-c", strconv.Itoa(mtrCycles), target}
	case k.IsTraceroute():
		return []string{family, "-w2", target}
	default:
		return nil
	}
}
