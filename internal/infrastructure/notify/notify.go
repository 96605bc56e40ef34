// Package notify provides admin.Notifier implementations: a sink that logs
// through the application logger and prints to a terminal, and a Recorder
// that keeps notifications in memory.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"backoffice/internal/admin"
	"backoffice/internal/core/apperror"
	"backoffice/pkg/logger"
)

// Severity is the fixed vocabulary of notifications.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Severity Severity
	Title    string
	Detail   string
}

// Message extracts a human readable message from err: the server's detail
// for transport errors, the error text, or the string itself.
func Message(err any) string {
	switch v := err.(type) {
	case nil:
		return "Error desconocido."
	case string:
		if v == "" {
			return "Error desconocido."
		}
		return v
	case error:
		var tErr *apperror.TransportError
		if errors.As(v, &tErr) {
			if msg := tErr.DetailMessage(); msg != "" {
				return msg
			}
		}
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

var (
	_ admin.Notifier = (*Sink)(nil)
	_ admin.Notifier = (*Recorder)(nil)
)

// Sink logs every notification and, when out is set, prints it as a line.
type Sink struct {
	log *logger.Logger
	out io.Writer
	mu  sync.Mutex
}

// NewSink creates a sink. out may be nil.
func NewSink(log *logger.Logger, out io.Writer) *Sink {
	return &Sink{log: log.WithComponent("notify"), out: out}
}

func (s *Sink) emit(n Notification) {
	switch n.Severity {
	case SeverityError:
		s.log.Errorw(n.Title, "detail", n.Detail)
	case SeverityWarn:
		s.log.Warnw(n.Title, "detail", n.Detail)
	default:
		s.log.Infow(n.Title, "severity", string(n.Severity), "detail", n.Detail)
	}

	if s.out == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Detail == "" {
		fmt.Fprintf(s.out, "[%s] %s\n", n.Severity, n.Title)
		return
	}
	fmt.Fprintf(s.out, "[%s] %s: %s\n", n.Severity, n.Title, n.Detail)
}

func (s *Sink) Success(title, detail string) { s.emit(Notification{SeveritySuccess, title, detail}) }
func (s *Sink) Info(title, detail string)    { s.emit(Notification{SeverityInfo, title, detail}) }
func (s *Sink) Warn(title, detail string)    { s.emit(Notification{SeverityWarn, title, detail}) }
func (s *Sink) Error(title string, err any)  { s.emit(Notification{SeverityError, title, Message(err)}) }

// Recorder keeps notifications in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *Recorder) Success(title, detail string) { r.add(Notification{SeveritySuccess, title, detail}) }
func (r *Recorder) Info(title, detail string)    { r.add(Notification{SeverityInfo, title, detail}) }
func (r *Recorder) Warn(title, detail string)    { r.add(Notification{SeverityWarn, title, detail}) }
func (r *Recorder) Error(title string, err any)  { r.add(Notification{SeverityError, title, Message(err)}) }

// All returns a copy of the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// BySeverity returns the notifications of one severity.
func (r *Recorder) BySeverity(s Severity) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.items {
		if n.Severity == s {
			out = append(out, n)
		}
	}
	return out
}

// Reset forgets every notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
