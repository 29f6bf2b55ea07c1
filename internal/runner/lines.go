// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bufio"
	"errors"
	"io"
)

// maxLineSize is the longest line yielded at once. Longer lines are
// split into chunks of this size so no output is lost.
const maxLineSize = 64 * 1024

// lineReader reads the lines of process output without their line endings.
type lineReader struct {
	r *bufio.Reader
	// prefix is set while a line longer than the buffer is returned in chunks
	prefix bool
	err    error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, maxLineSize)}
}

// Next returns the next line or chunk of a long line. It returns false
// at the end of the input or on a read error.
func (l *lineReader) Next() (string, bool) {
	for {
		b, isPrefix, err := l.r.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = err
			}
			return "", false
		}
		wasPrefix := l.prefix
		l.prefix = isPrefix
		// a line of exactly the buffer size ends in an empty remainder
		if wasPrefix && len(b) == 0 {
			continue
		}
		return string(b), true
	}
}

// Err returns the first read error other than io.EOF.
func (l *lineReader) Err() error {
	return l.err
}
