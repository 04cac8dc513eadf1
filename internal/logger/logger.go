package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu       sync.Mutex
	log      zerolog.Logger
	initDone bool
	testMode bool
)

// Init initializes the default logger with a console writer on os.Stderr.
// It is safe to call more than once; later calls are no-ops.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	if initDone {
		return
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	initDone = true
}

// SetTestMode silences all log output when enabled. Retry loops and bulk
// operations log on every attempt, which would drown test output otherwise.
func SetTestMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	testMode = enabled
	if enabled {
		log = zerolog.Nop()
		initDone = true
	} else {
		initDone = false
	}
}

// Get returns the initialized default logger.
func Get() zerolog.Logger {
	Init()
	mu.Lock()
	defer mu.Unlock()
	return log
}

// Info logs an informational message with alternating key/value args.
func Info(msg string, args ...any) {
	l := Get()
	l.Info().Fields(fields(args)).Msg(msg)
}

// Warn logs a warning message with alternating key/value args.
func Warn(msg string, args ...any) {
	l := Get()
	l.Warn().Fields(fields(args)).Msg(msg)
}

// Error logs an error message. A nil err is allowed.
func Error(msg string, err error, args ...any) {
	l := Get()
	l.Error().Err(err).Fields(fields(args)).Msg(msg)
}

// Debug logs a debug message with alternating key/value args.
func Debug(msg string, args ...any) {
	l := Get()
	l.Debug().Fields(fields(args)).Msg(msg)
}

func fields(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		m[key] = args[i+1]
	}
	return m
}
