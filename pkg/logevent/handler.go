// Package logevent is a slog handler that writes one JSON array per record and
// counts records carrying an "event" attribute in a prometheus counter.
package logevent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const EventAttrKey = "event"

var eventCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asn1map_logged_events",
	Help: "Count logged events",
}, []string{"level", "group", "event"})

type handler struct {
	opt   *slog.HandlerOptions
	attrs []slog.Attr
	group []string

	mu *sync.Mutex
	w  io.Writer
}

// NewHandler returns a handler writing to w. A nil opt logs at Info and above.
func NewHandler(w io.Writer, opt *slog.HandlerOptions) slog.Handler {
	if opt == nil {
		opt = &slog.HandlerOptions{}
	}
	return &handler{opt: opt, mu: &sync.Mutex{}, w: w}
}

var _ slog.Handler = &handler{}

// Enabled implements slog.Handler.
func (l *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return true //pass all logs to handler so events can be counted ( and then discarded if under log level )
}

func (l *handler) minLevel() slog.Level {
	if l.opt.Level == nil {
		return slog.LevelInfo
	}
	return l.opt.Level.Level()
}

// Handle implements slog.Handler.
func (l *handler) Handle(ctx context.Context, r slog.Record) error {

	attr := make(map[string]any)
	level := r.Level
	var event string

	attrFunc := func(a slog.Attr) bool {
		key := a.Key
		i := a.Value.Any()
		if i == nil {
			return true
		}
		if key == EventAttrKey {
			event = a.Value.String()
			return true
		}
		attr[key] = a.Value.String()
		return true
	}

	for _, a := range l.attrs {
		attrFunc(a)
	}
	r.Attrs(attrFunc)

	group := "/" + strings.Join(l.group, "/")
	if len(l.group) > 0 {
		group += "/"
	}

	if event != "" {
		eventCounter.WithLabelValues(level.String(), group, event).Inc()
		group += event
	}
	if level < l.minLevel() {
		return nil
	}

	line := []any{r.Time.Format(time.RFC1123Z), level.String(), group, r.Message, attr}

	l.mu.Lock()
	defer l.mu.Unlock()
	e := json.NewEncoder(l.w)
	e.SetEscapeHTML(false)
	return e.Encode(line)
}

func (l *handler) clone() *handler {
	c := &handler{opt: l.opt, mu: l.mu, w: l.w}
	c.attrs = append(c.attrs, l.attrs...)
	c.group = append(c.group, l.group...)
	return c
}

// WithAttrs implements slog.Handler.
func (l *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := l.clone()
	c.attrs = append(c.attrs, attrs...)
	return c
}

// WithGroup implements slog.Handler.
func (l *handler) WithGroup(name string) slog.Handler {
	c := l.clone()
	c.group = append(c.group, name)
	return c
}

type ctxKeyType struct{}

var ctxKey = ctxKeyType{}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, logger)
}

// LoggerFromContext returns the logger stored by WithLogger, or slog.Default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}
