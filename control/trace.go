// control/trace.go
// Author: momentics <momentics@gmail.com>
//
// Structured trace events for component lifecycles. Components emit events
// at lifecycle edges only (lane start, arena growth, handler panic,
// shutdown); the tracer never sits on an allocation or pop fast path.

package control

import (
	"io"

	"github.com/rs/zerolog"
)

// Tracer receives structured lifecycle events from library components.
type Tracer interface {
	Event(component, event string, fields map[string]any)
}

// NopTracer discards all events. It is the default everywhere.
type NopTracer struct{}

// Event implements Tracer.
func (NopTracer) Event(string, string, map[string]any) {}

// ZerologTracer emits events as structured JSON log lines.
type ZerologTracer struct {
	log zerolog.Logger
}

// NewZerologTracer builds a tracer writing to w.
func NewZerologTracer(w io.Writer) *ZerologTracer {
	return &ZerologTracer{
		log: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// NewTracerFromLogger wraps an existing zerolog.Logger.
func NewTracerFromLogger(log zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{log: log}
}

// Event implements Tracer.
func (t *ZerologTracer) Event(component, event string, fields map[string]any) {
	t.log.Info().
		Str("component", component).
		Fields(fields).
		Msg(event)
}
