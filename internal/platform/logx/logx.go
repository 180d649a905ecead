// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type simpleLogger struct {
	mu    sync.Mutex
	lvl   Level
	scope []string // pares key=value fijos
	lg    *log.Logger
}

func New() Logger {
	return &simpleLogger{
		lvl: parseLevel(os.Getenv("OVERSEERX_LOG_LEVEL")),
		lg:  log.New(os.Stderr, "", 0),
	}
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return &simpleLogger{
		lvl: lvl,
		lg:  log.New(os.Stderr, "", 0),
	}
}

// NewSilent creates a logger that only outputs errors (silent mode for UI)
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

func (s *simpleLogger) With(kv ...any) Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	child := &simpleLogger{
		lvl:   s.lvl,
		scope: append(append([]string{}, s.scope...), formatKV(kv)...),
		lg:    s.lg,
	}
	return child
}

func (s *simpleLogger) SetLevel(lvl Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lvl = lvl
}

func (s *simpleLogger) Debug(msg string, kv ...any) { s.emit(LevelDebug, "DBG", msg, kv...) }
func (s *simpleLogger) Info(msg string, kv ...any)  { s.emit(LevelInfo, "INF", msg, kv...) }
func (s *simpleLogger) Warn(msg string, kv ...any)  { s.emit(LevelWarn, "WRN", msg, kv...) }

func (s *simpleLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	s.emit(LevelError, "ERR", err.Error(), kv...)
}

func (s *simpleLogger) emit(lvl Level, tag, msg string, kv ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lvl < s.lvl {
		return
	}

	parts := []string{
		time.Now().Format(time.RFC3339),
		tag,
		msg,
	}
	parts = append(parts, s.scope...)
	parts = append(parts, formatKV(kv)...)

	s.lg.Println(strings.Join(parts, " "))
}

// formatKV convierte pares clave-valor variádicos a strings key=value.
// Una clave sin valor se emite como key=?.
func formatKV(kv []any) []string {
	out := make([]string, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprintf("%v", kv[i])
		if i+1 < len(kv) {
			out = append(out, fmt.Sprintf("%s=%v", key, kv[i+1]))
		} else {
			out = append(out, key+"=?")
		}
	}
	return out
}

func parseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "err":
		return LevelError
	default:
		return LevelInfo
	}
}
