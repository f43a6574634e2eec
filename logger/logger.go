// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger implements a bounded diagnostic log. Consecutive entries
// with identical tags and details are folded into a single entry with a
// repeat count, so a misbehaving program that faults on every instruction
// doesn't flood the log.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultMaxEntries is the entry limit used by New when no limit is given.
const DefaultMaxEntries = 256

// An Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e *Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Tag, e.Detail)
	if e.Repeated > 0 {
		fmt.Fprintf(&b, " (repeat x%d)", e.Repeated+1)
	}
	b.WriteString("\n")
	return b.String()
}

// A Log holds the most recent entries written to it. A Log is not safe for
// concurrent use; each emulated CPU owns its own.
type Log struct {
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// New creates a log holding at most maxEntries entries.
func New(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// SetEcho causes every new or repeated entry to be written to w as it is
// logged. Pass nil to disable echoing.
func (l *Log) SetEcho(w io.Writer) {
	l.echo = w
}

// Log adds an entry to the log.
func (l *Log) Log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var e *Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		e = &l.entries[n-1]
		e.Repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		if len(l.entries) > l.maxEntries {
			l.entries = l.entries[len(l.entries)-l.maxEntries:]
		}
		e = &l.entries[len(l.entries)-1]
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}
}

// Logf adds a formatted entry to the log.
func (l *Log) Logf(tag, format string, args ...any) {
	l.Log(tag, fmt.Sprintf(format, args...))
}

// Len returns the number of entries currently held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries currently held.
func (l *Log) Entries() []Entry {
	c := make([]Entry, len(l.entries))
	copy(c, l.entries)
	return c
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.entries = l.entries[:0]
}

// Write writes every entry to w. It returns false if the log is empty.
func (l *Log) Write(w io.Writer) bool {
	if len(l.entries) == 0 {
		return false
	}
	for i := range l.entries {
		io.WriteString(w, l.entries[i].String())
	}
	return true
}

// Tail writes the last n entries to w.
func (l *Log) Tail(w io.Writer, n int) {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n <= 0 {
		return
	}
	for i := len(l.entries) - n; i < len(l.entries); i++ {
		io.WriteString(w, l.entries[i].String())
	}
}
