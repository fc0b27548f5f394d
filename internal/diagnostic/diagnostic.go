// Package diagnostic куда колесо сообщает о логических аномалиях.
// В приложении это zerolog, в тестах Recorder
package diagnostic

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sink принимает событие и его поля
type Sink interface {
	LogDiagnostic(event string, fields map[string]any)
}

type nop struct{}

func (nop) LogDiagnostic(string, map[string]any) {}

// Nop все выбрасывает
var Nop Sink = nop{}

type zerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink пишет каждое событие как warn
func NewZerologSink(logger zerolog.Logger) Sink {
	return &zerologSink{logger: logger}
}

func (s *zerologSink) LogDiagnostic(event string, fields map[string]any) {
	s.logger.Warn().Str("event", event).Fields(fields).Msg("wheel diagnostic")
}

// Event записанное событие
type Event struct {
	Name   string
	Fields map[string]any
}

// Recorder держит события в памяти
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) LogDiagnostic(event string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Fields: fields})
}

// Events копия записанного на текущий момент
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

type withFields struct {
	next   Sink
	fields map[string]any
}

// WithFields добавляет постоянные поля ко всем событиям
func WithFields(next Sink, fields map[string]any) Sink {
	return &withFields{next: next, fields: fields}
}

func (s *withFields) LogDiagnostic(event string, fields map[string]any) {
	merged := make(map[string]any, len(fields)+len(s.fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	s.next.LogDiagnostic(event, merged)
}
