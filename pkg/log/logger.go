package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// The first stack line looks like "goroutine 123 [running]:".
	stackBufSize  = 32
	stackPrefix   = "goroutine "
	unknownGoroID = "unknown"
)

var (
	Logger   zerolog.Logger
	stackBuf = sync.Pool{New: func() any { return make([]byte, stackBufSize) }}
)

// goroutineID returns the numeric id of the calling goroutine, or "unknown".
func goroutineID() string {
	buf, ok := stackBuf.Get().([]byte)
	if !ok {
		return unknownGoroID
	}
	defer stackBuf.Put(buf) //nolint:staticcheck // slice header reuse is intended

	n := runtime.Stack(buf, false)
	if n <= len(stackPrefix) {
		return unknownGoroID
	}

	end := len(stackPrefix)
	for end < n && buf[end] >= '0' && buf[end] <= '9' {
		end++
	}
	if end == len(stackPrefix) {
		return unknownGoroID
	}
	return string(buf[len(stackPrefix):end])
}

// New builds a logger writing to w at the given level. Every event carries
// a timestamp and the goroutine id.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger().
		Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
			e.Str("goid", goroutineID())
		}))
}

func init() {
	Logger = New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, zerolog.InfoLevel)
	log.Logger = Logger
}

// Info starts an info level event.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error starts an error level event.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Warn starts a warning level event.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Debug starts a debug level event.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Fatal starts a fatal event; sending it exits the process.
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// SetDebugMode switches the logger to debug level.
func SetDebugMode() {
	setLevel(zerolog.DebugLevel)
}

// SetLevel parses a level name such as "debug" or "warn" and applies it.
func SetLevel(name string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	setLevel(level)
	return nil
}

func setLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
	log.Logger = Logger
}
