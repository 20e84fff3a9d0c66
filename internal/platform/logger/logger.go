package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Output por defecto es stderr: stdout queda para la salida del CLI.
	Output io.Writer
}

// writer compartido entre el logger raíz y los derivados con With.
type writer struct {
	mu  sync.Mutex
	std *log.Logger
}

type StdLogger struct {
	out    *writer
	level  Level
	format Format
	base   map[string]any
	now    func() time.Time
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	base := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	return &StdLogger{
		out:    &writer{std: log.New(out, "", 0)},
		level:  opts.Level,
		format: format,
		base:   base,
		now:    time.Now,
	}
}

// NewFromSettings crea el logger desde los valores de texto de la configuración
// (level y format tal como vienen del archivo o del entorno).
func NewFromSettings(level, format, app string, out io.Writer) Logger {
	return New(Options{
		Level:  ParseLevel(level),
		Format: ParseFormat(format),
		App:    app,
		Output: out,
	})
}

func (l *StdLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}

	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}

	return &StdLogger{
		out:    l.out,
		level:  l.level,
		format: l.format,
		base:   merged,
		now:    l.now,
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]any) { l.log(Debug, msg, fields) }
func (l *StdLogger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *StdLogger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *StdLogger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *StdLogger) log(lvl Level, msg string, fields map[string]any) {
	if lvl < l.level {
		return
	}

	entry := map[string]any{
		"ts":    l.now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.format == FormatJSON {
		b, _ := json.Marshal(entry)
		l.out.std.Println(string(b))
		return
	}
	l.out.std.Println(formatText(entry))
}

func formatText(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

type nop struct{}

// Nop descarta todo. Útil en tests y como default cuando no se inyecta logger.
func Nop() Logger { return nop{} }

func (n nop) With(map[string]any) Logger { return n }
func (nop) Debug(string, map[string]any) {}
func (nop) Info(string, map[string]any)  {}
func (nop) Warn(string, map[string]any)  {}
func (nop) Error(string, map[string]any) {}
