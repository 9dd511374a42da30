// Package buildlog writes the org-mode build log.
//
// Every entry is a heading whose depth is the entry level, followed by a property
// drawer carrying the topic id and an optional body. Slots write concurrently, so
// each entry is written in one piece.
package buildlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.BuildLog       = (*Log)(nil)
	_ ports.BuildLogOpener = (*Opener)(nil)
)

// Opener implements ports.BuildLogOpener on the local filesystem.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open truncates or creates the log at path.
func (o *Opener) Open(path string) (ports.BuildLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBuildLogWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // path is below the project's .weld directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBuildLogWriteFailed.Error()), "path", path)
	}
	return New(f), nil
}

// Log is an org-mode build log.
type Log struct {
	topics atomic.Uint64

	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// New creates a Log writing to w. If w is an io.Closer, Close closes it.
func New(w io.Writer) *Log {
	l := &Log{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// NextTopic returns a new topic identifier, starting at 1.
func (l *Log) NextTopic() uint64 {
	return l.topics.Add(1)
}

// Write appends an entry.
func (l *Log) Write(entry domain.LogEntry) error {
	text := Format(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return zerr.Wrap(domain.ErrBuildLogWriteFailed, "log already closed")
	}
	if _, err := l.w.WriteString(text); err != nil {
		return zerr.Wrap(err, domain.ErrBuildLogWriteFailed.Error())
	}
	return nil
}

// Close flushes and releases the log. Closing twice is a no-op.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	err := l.w.Flush()
	if l.closer != nil {
		err = errors.Join(err, l.closer.Close())
	}
	if err != nil {
		return zerr.Wrap(err, domain.ErrBuildLogWriteFailed.Error())
	}
	return nil
}

// Format renders one entry.
func Format(entry domain.LogEntry) string {
	level := max(int(entry.Level), 1)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", strings.Repeat("*", level), entry.Title)

	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TOPIC: %d\n", entry.Topic)
	for _, key := range slices.Sorted(maps.Keys(entry.Properties)) {
		fmt.Fprintf(&b, ":%s: %s\n", strings.ToUpper(key), entry.Properties[key])
	}
	b.WriteString(":END:\n")

	body := strings.TrimRight(entry.Body, "\n")
	switch {
	case body == "":
	case entry.Lang != "":
		fmt.Fprintf(&b, "#+begin_src %s\n", entry.Lang)
		for line := range strings.Lines(body) {
			b.WriteString(escapeLine(line))
		}
		b.WriteString("\n#+end_src\n")
	default:
		for line := range strings.Lines(body) {
			b.WriteString(escapeLine(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// escapeLine keeps body lines from being read as headings or block delimiters.
func escapeLine(line string) string {
	if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "#+") {
		return "," + line
	}
	return line
}
