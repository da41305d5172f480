// Package notify delivers user-facing toast messages.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Error   Severity = "error"
)

// Notifier is the sink for user-visible messages.
type Notifier interface {
	Notify(ctx context.Context, sev Severity, msg string)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, sev Severity, msg string)

func (f Func) Notify(ctx context.Context, sev Severity, msg string) {
	f(ctx, sev, msg)
}

// Discard drops every message.
var Discard Notifier = Func(func(context.Context, Severity, string) {})

// Writer prints messages as "[severity] message" lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(_ context.Context, sev Severity, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", sev, msg)
}

// Message is a recorded notification.
type Message struct {
	Severity Severity
	Text     string
}

// Recorder keeps every message in order. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Notify(_ context.Context, sev Severity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Severity: sev, Text: msg})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}
