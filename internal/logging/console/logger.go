package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// Level orders entry severities. The zero value is LevelInfo.
type Level int8

const (
	LevelTrace Level = iota - 2
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int8(l))
}

// ErrUnknownLevel reports a level name ParseLevel does not recognise.
var ErrUnknownLevel = errors.New("console: unknown level")

// ParseLevel accepts the level names in any case. An empty name is info.
func ParseLevel(name string) (Level, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	switch key {
	case "":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarn, nil
	}
	for level, label := range levelNames {
		if label == key {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// badKey names the value of a trailing argument without a key.
const badKey = "!BADKEY"

// Options configures the provider. Entries below Level are dropped.
type Options struct {
	Writer io.Writer
	Clock  func() time.Time
	Level  Level
}

// NewProvider returns a provider that writes one logfmt line per entry,
// to stderr unless Options.Writer is set.
func NewProvider(opts Options) interfaces.LoggerProvider {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &sink{opts: opts}
}

type sink struct {
	opts Options
	mu   sync.Mutex
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &consoleLogger{sink: s, name: name}
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.opts.Writer.Write(line)
}

type consoleLogger struct {
	sink   *sink
	name   string
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *consoleLogger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(next.fields, l.fields)
	maps.Copy(next.fields, fields)
	return &next
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *consoleLogger) emit(level Level, msg string, args []any) {
	if level < l.sink.opts.Level {
		return
	}

	// precedence: call args over context fields over logger fields
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields[badKey] = args[i]
			break
		}
		fields[keyString(args[i])] = args[i+1]
	}

	var b strings.Builder
	b.WriteString(l.sink.opts.Clock().UTC().Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if l.name != "" {
		b.WriteString(" [")
		b.WriteString(l.name)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[key]))
	}
	b.WriteByte('\n')
	l.sink.write([]byte(b.String()))
}

func keyString(key any) string {
	if s, ok := key.(string); ok && s != "" {
		return s
	}
	if key == nil || key == "" {
		return badKey
	}
	return fmt.Sprint(key)
}

func formatValue(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		s = v
	case error:
		s = v.Error()
	case time.Time:
		s = v.UTC().Format(timeLayout)
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsFunc(s, needsQuote) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuote(r rune) bool {
	return r == '=' || r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r)
}
