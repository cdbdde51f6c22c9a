// Package log bridges log/slog to the host debug console. Log output is
// best-effort text outside the attested computation; it costs cycles but
// never changes what the receipt commits to.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bouewnm/risc0/domain/ports"
)

// HostLogHandler implements slog.Handler by rendering each record to a
// single text line and forwarding it to the host log call.
type HostLogHandler struct {
	host ports.Host
	opts handlerConfig
	// bound holds attrs from WithAttrs, rendered with the group prefix
	// in effect when they were bound.
	bound []string
	group string
}

// HandlerOption configures the HostLogHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level slog.Level
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{level: slog.LevelInfo}
}

// WithLevel sets the minimum log level to forward. Records below this
// level are dropped on the guest side, before any host call is spent.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// NewHandler creates a handler forwarding to the given host.
func NewHandler(host ports.Host, opts ...HandlerOption) *HostLogHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &HostLogHandler{host: host, opts: cfg}
}

// Install makes a HostLogHandler the slog default.
func Install(host ports.Host, opts ...HandlerOption) {
	slog.SetDefault(slog.New(NewHandler(host, opts...)))
}

// Enabled implements slog.Handler.
func (h *HostLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle implements slog.Handler.
func (h *HostLogHandler) Handle(_ context.Context, record slog.Record) error {
	var line strings.Builder
	line.WriteString(record.Level.String())
	line.WriteByte(' ')
	line.WriteString(record.Message)
	for _, b := range h.bound {
		line.WriteByte(' ')
		line.WriteString(b)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(&line, attr)
		return true
	})
	h.host.Log([]byte(line.String()))
	return nil
}

func (h *HostLogHandler) writeAttr(line *strings.Builder, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	line.WriteByte(' ')
	if h.group != "" {
		line.WriteString(h.group)
		line.WriteByte('.')
	}
	line.WriteString(attr.Key)
	line.WriteByte('=')
	fmt.Fprintf(line, "%v", attr.Value.Any())
}

// WithAttrs implements slog.Handler.
func (h *HostLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = append([]string(nil), h.bound...)
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()
		if attr.Equal(slog.Attr{}) {
			continue
		}
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		next.bound = append(next.bound, fmt.Sprintf("%s=%v", key, attr.Value.Any()))
	}
	return &next
}

// WithGroup implements slog.Handler.
func (h *HostLogHandler) WithGroup(name string) slog.Handler {
	next := *h
	if name == "" {
		return &next
	}
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}
