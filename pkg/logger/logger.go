// Package logger owns the process-wide zerolog logger. Init builds it once
// from Options; Get hands it out afterwards.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by Init.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else means info.
	Level string
	// Pretty switches to zerolog's console writer for local development.
	Pretty bool
	// Output defaults to os.Stdout. The MCP server passes os.Stderr so
	// stdout stays reserved for the protocol.
	Output io.Writer
	// Service, Env and Version are stamped on every entry when non-empty.
	Service string
	Env     string
	Version string
}

var (
	mu    sync.Mutex
	built *zerolog.Logger
)

// Init builds the logger on the first call and returns the existing one on
// every later call.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if built != nil {
		return *built
	}

	level := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(writer(opts)).Level(level).With().Timestamp().Caller().Logger()
	l = l.With().Fields(staticFields(opts)).Logger()
	built = &l
	return l
}

// Get returns the logger built by Init. It panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if built == nil {
		panic("logger: Get called before Init")
	}
	return *built
}

// Reset drops the built logger. Tests only.
func Reset() {
	mu.Lock()
	built = nil
	mu.Unlock()
}

func writer(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return out
}

func staticFields(opts Options) map[string]any {
	fields := make(map[string]any, 3)
	for k, v := range map[string]string{"service": opts.Service, "env": opts.Env, "version": opts.Version} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
