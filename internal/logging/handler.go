// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package logging configures slog for the inkwell processes: JSON or
// text output at debug level, the service identity on every line, and
// trace correlation IDs whenever a request context carries a span.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// spanHandler decorates records with trace_id and span_id from the
// calling context. Everything else, including the service identity
// attrs installed by Setup, lives on the embedded handler.
type spanHandler struct {
	slog.Handler
}

func (h spanHandler) Handle(ctx context.Context, r slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.Handler.Handle(ctx, r)
}

func (h spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h spanHandler) WithGroup(name string) slog.Handler {
	return spanHandler{Handler: h.Handler.WithGroup(name)}
}

// Setup builds a logger writing to w (os.Stderr when nil). format
// selects "json" or "text"; anything else falls back to JSON so a
// config typo never silences logs.
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}
	base = base.WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("version", version),
	})

	return slog.New(spanHandler{Handler: base})
}

// SetDefault installs the configured logger process-wide.
func SetDefault(service, version, format string) {
	slog.SetDefault(Setup(service, version, format, nil))
}
