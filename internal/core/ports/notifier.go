// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"

	"curatorx/internal/core/domain"
)

// Notifier es el port para notificaciones de eventos de agregación.
// Desacopla el agregador de la presentación (terminal, logs, métricas).
type Notifier interface {
	// Notify envía una notificación para un evento
	Notify(ctx context.Context, event Event) error

	// Close cierra el notifier y libera recursos
	Close() error
}

// Event representa un evento de agregación.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// Source fuente que generó el evento (vacío para eventos globales)
	Source domain.Source

	// Data datos específicos del evento
	Data interface{}

	// Severity severidad del evento
	Severity EventSeverity
}

// EventType define los tipos de eventos.
type EventType string

const (
	// Source events
	EventTypeSourceStarted   EventType = "source.started"
	EventTypeSourceCompleted EventType = "source.completed"
	EventTypeSourceFailed    EventType = "source.failed"
	EventTypeSourceTimeout   EventType = "source.timeout"

	// Search events
	EventTypeSearchCompleted EventType = "search.completed"
)

// EventSeverity define la severidad de un evento.
type EventSeverity string

const (
	EventSeverityInfo    EventSeverity = "info"
	EventSeverityWarning EventSeverity = "warning"
	EventSeverityError   EventSeverity = "error"
)

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, source domain.Source, data interface{}) Event {
	severity := EventSeverityInfo
	switch eventType {
	case EventTypeSourceFailed:
		severity = EventSeverityError
	case EventTypeSourceTimeout:
		severity = EventSeverityWarning
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
		Severity:  severity,
	}
}

// SourceCompletedEvent datos de una fuente que terminó su búsqueda.
type SourceCompletedEvent struct {
	Count    int
	Duration time.Duration
}

// SourceFailedEvent datos de una fuente que falló.
type SourceFailedEvent struct {
	Err      error
	Duration time.Duration
}

// SearchCompletedEvent datos del fin de una búsqueda agregada.
type SearchCompletedEvent struct {
	Query    string
	Sources  []domain.Source
	Count    int
	Failed   []domain.Source
	TimedOut []domain.Source
	Duration time.Duration
}
