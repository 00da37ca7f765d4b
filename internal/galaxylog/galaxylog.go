// Package galaxylog adapts the teacher's slog-based ServiceHandler
// (src/utils/logging) to the explicit LogEvent value described in spec
// §9: instead of code-generating macros that interpolate call-site
// identifiers, every log line is built by a small typed constructor
// (Sent, Dropped, Buffered, ...) producing a LogEvent, which is then
// emitted through a slog.Logger. A bounded ring of recent events, backed
// by an LRU cache, is retained and readable through Recent; neither the
// orchestrator's snapshot nor the websocket status feed includes it.
package galaxylog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Kind enumerates the shape of a logged event.
type Kind string

const (
	KindSent     Kind = "sent"
	KindDropped  Kind = "dropped"
	KindBuffered Kind = "buffered"
	KindAccepted Kind = "accepted"
	KindInfo     Kind = "info"
	KindWarn     Kind = "warn"
	KindError    Kind = "error"
)

// LogEvent is the explicit value spec §9 asks for in place of
// auto-capturing logging macros.
type LogEvent struct {
	Time    time.Time
	From    string
	To      string
	Kind    Kind
	Channel string
	Payload map[string]string
}

func newEvent(from, to string, kind Kind, channel string, payload map[string]string) LogEvent {
	return LogEvent{Time: time.Now(), From: from, To: to, Kind: kind, Channel: channel, Payload: payload}
}

// Sent builds a LogEvent for a message successfully handed to a
// send-end.
func Sent(from, to, channel, msgType string) LogEvent {
	return newEvent(from, to, KindSent, channel, map[string]string{"message": msgType})
}

// Dropped builds a LogEvent for a message that could not be delivered or
// processed (e.g. a protocol violation with no safe buffering option).
func Dropped(from, to, channel, msgType, reason string) LogEvent {
	return newEvent(from, to, KindDropped, channel, map[string]string{"message": msgType, "reason": reason})
}

// Buffered builds a LogEvent for a message appended to a per-source
// buffer because it did not match the current state's acceptance table.
func Buffered(from, to, channel, msgType, state string) LogEvent {
	return newEvent(from, to, KindBuffered, channel, map[string]string{"message": msgType, "state": state})
}

// Accepted builds a LogEvent for a message dispatched to its handler.
func Accepted(from, to, channel, msgType, state string) LogEvent {
	return newEvent(from, to, KindAccepted, channel, map[string]string{"message": msgType, "state": state})
}

// Info/Warn/Error build freeform operational LogEvents.
func Info(from, msg string, kv ...string)  { defaultLogger.log(newEvent(from, "", KindInfo, "", kvMap(msg, kv))) }
func Warn(from, msg string, kv ...string)  { defaultLogger.log(newEvent(from, "", KindWarn, "", kvMap(msg, kv))) }
func Error(from, msg string, kv ...string) { defaultLogger.log(newEvent(from, "", KindError, "", kvMap(msg, kv))) }

func kvMap(msg string, kv []string) map[string]string {
	m := map[string]string{"message": msg}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// Logger wraps a *slog.Logger and a bounded recent-event ring.
type Logger struct {
	slog   *slog.Logger
	recent *lru.Cache[int64, LogEvent]
	mu     sync.Mutex
	seq    int64
}

var defaultLogger = New("galaxy", slog.LevelInfo, os.Stdout, 512)

// New builds a Logger writing service-formatted lines to w at the given
// level, retaining the last ringSize events for the status view.
func New(serviceName string, level slog.Level, w io.Writer, ringSize int) *Logger {
	cache, _ := lru.New[int64, LogEvent](ringSize)
	handler := NewServiceHandler(serviceName, level, w)
	return &Logger{slog: slog.New(handler), recent: cache}
}

// SetDefault replaces the package-level default logger used by
// Info/Warn/Error.
func SetDefault(l *Logger) { defaultLogger = l }

func (l *Logger) log(e LogEvent) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()
	if l.recent != nil {
		l.recent.Add(seq, e)
	}
	attrs := make([]slog.Attr, 0, len(e.Payload)+3)
	if e.From != "" {
		attrs = append(attrs, slog.String("from", e.From))
	}
	if e.To != "" {
		attrs = append(attrs, slog.String("to", e.To))
	}
	if e.Channel != "" {
		attrs = append(attrs, slog.String("channel", e.Channel))
	}
	msg := string(e.Kind)
	for k, v := range e.Payload {
		if k == "message" {
			msg = v
			continue
		}
		attrs = append(attrs, slog.String(k, v))
	}
	level := slog.LevelInfo
	switch e.Kind {
	case KindWarn, KindDropped:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	l.slog.LogAttrs(context.Background(), level, msg, attrs...)
}

// Log emits a pre-built LogEvent through the default logger.
func Log(e LogEvent) { defaultLogger.log(e) }

// Recent returns up to n of the most recently logged events, newest
// last.
func (l *Logger) Recent(n int) []LogEvent {
	if l.recent == nil {
		return nil
	}
	keys := l.recent.Keys()
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}
	out := make([]LogEvent, 0, len(keys))
	for _, k := range keys {
		if v, ok := l.recent.Peek(k); ok {
			out = append(out, v)
		}
	}
	return out
}

// Recent returns the most recent events from the default logger.
func Recent(n int) []LogEvent { return defaultLogger.Recent(n) }

// ServiceHandler formats log records as one line each:
// <ISO8601_time> <service> [<LEVEL>] <message> key=value ...
// Adapted from the teacher's src/utils/logging.ServiceHandler, trimmed
// of the Python-parity "user" field extraction this domain has no use
// for.
type ServiceHandler struct {
	serviceName string
	level       slog.Level
	writer      io.Writer
	mu          *sync.Mutex
}

// NewServiceHandler builds a ServiceHandler writing to w.
func NewServiceHandler(serviceName string, level slog.Level, w io.Writer) *ServiceHandler {
	return &ServiceHandler{serviceName: serviceName, level: level, writer: w, mu: &sync.Mutex{}}
}

func (h *ServiceHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ServiceHandler) Handle(_ context.Context, r slog.Record) error {
	timeStr := r.Time.Format("2006-01-02T15:04:05.000-07:00")
	var parts []string
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Key, a.Value.String()))
		return true
	})
	line := fmt.Sprintf("%s %s [%s] %s", timeStr, h.serviceName, r.Level, r.Message)
	if len(parts) > 0 {
		line += " " + strings.Join(parts, " ")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.writer, line)
	return err
}

func (h *ServiceHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *ServiceHandler) WithGroup(_ string) slog.Handler      { return h }
