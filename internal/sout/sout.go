// Package sout is where printed output goes. The evaluator only ever writes
// through a Sink so programs can be run against a buffer in tests.
package sout

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

type Sink interface {
	Println(line string) error
}

type writerSink struct {
	w io.Writer
}

// Writer prints each line to w followed by a newline.
func Writer(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Println(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// Buffer keeps every printed line in memory.
type Buffer struct {
	lines []string
}

func (b *Buffer) Println(line string) error {
	b.lines = append(b.lines, line)
	return nil
}

func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

func (b *Buffer) String() string {
	lines := b.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (b *Buffer) Reset() {
	b.lines = nil
}

type teeSink []Sink

// Tee writes every line to each sink in turn. All sinks are attempted; the
// errors are joined.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

func (t teeSink) Println(line string) error {
	var errs []error
	for _, s := range t {
		if err := s.Println(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type discard struct{}

func (discard) Println(string) error { return nil }

var Discard Sink = discard{}
