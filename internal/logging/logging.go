// Package logging provides the logger used across rotavault.
//
// The logger is two-phase: until the configuration has resolved a sink,
// every message is buffered in memory; once Activate fixes the sink
// (console or file), the buffer is flushed through it and all later
// messages are written directly. The transition is one-way and happens
// at most once per process, so diagnostics emitted before the sink is
// known are never lost.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the interface the rest of the system logs through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type entry struct {
	level zerolog.Level
	at    time.Time
	msg   string
	args  []any
}

// Log is the two-phase Logger implementation backed by zerolog.
type Log struct {
	mu     sync.Mutex
	buf    []entry
	sink   *zerolog.Logger
	level  zerolog.Level
	closer io.Closer
}

// New returns a logger in its buffered phase.
func New() *Log {
	return &Log{level: zerolog.DebugLevel}
}

// Activate fixes the sink and flushes the buffer. With an empty file the
// sink is stderr. format is "text" or "json"; level is a zerolog level
// name such as "debug" or "info".
func (l *Log) Activate(level, format, file string) error {
	w := io.Writer(os.Stderr)
	var closer io.Closer
	if file != "" {
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = f
	}
	if err := l.ActivateWriter(level, format, w); err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}
	l.mu.Lock()
	l.closer = closer
	l.mu.Unlock()
	return nil
}

// ActivateWriter is Activate with a caller-supplied writer.
func (l *Log) ActivateWriter(level, format string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}

	switch format {
	case "", "text":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink != nil {
		return fmt.Errorf("logger already activated")
	}

	zl := zerolog.New(w)
	l.sink = &zl
	l.level = lvl

	for _, e := range l.buf {
		l.emit(e)
	}
	l.buf = nil
	return nil
}

// Close releases the log file, if one was opened.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func (l *Log) Debug(msg string, args ...any) { l.log(zerolog.DebugLevel, msg, args) }
func (l *Log) Info(msg string, args ...any)  { l.log(zerolog.InfoLevel, msg, args) }
func (l *Log) Warn(msg string, args ...any)  { l.log(zerolog.WarnLevel, msg, args) }
func (l *Log) Error(msg string, args ...any) { l.log(zerolog.ErrorLevel, msg, args) }

func (l *Log) log(lvl zerolog.Level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := entry{level: lvl, at: time.Now(), msg: msg, args: args}
	if l.sink == nil {
		l.buf = append(l.buf, e)
		return
	}
	l.emit(e)
}

// emit writes one entry, keeping its original timestamp so flushed
// messages carry the time they were logged at, not the flush time.
func (l *Log) emit(e entry) {
	if e.level < l.level {
		return
	}
	l.sink.WithLevel(e.level).
		Time(zerolog.TimestampFieldName, e.at).
		Fields(e.args).
		Msg(e.msg)
}

// Nop discards everything. Useful in tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
