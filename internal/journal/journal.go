// Package journal is an in-memory append-only record of service mutations.
// Every successful catalog or session mutation appends a typed event keyed by
// an aggregate ID, with optimistic concurrency control on the version.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrInvalidVersion      = errors.New("invalid version number")
)

// Event represents a recorded domain event.
type Event struct {
	ID            int64           `json:"id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Journal holds events in memory. Appends for the same aggregate are
// serialized by a single exclusive lock so the version check and the insert
// are atomic together.
type Journal struct {
	mu       sync.RWMutex
	events   []Event
	versions map[uuid.UUID]int
	nextID   int64
	tracer   trace.Tracer
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{
		versions: make(map[uuid.UUID]int),
		nextID:   1,
		tracer:   otel.Tracer("bookery/journal"),
	}
}

// Append atomically appends events with optimistic concurrency control.
// expectedVersion must equal the aggregate's current version (0 for a new
// aggregate) or ErrConcurrencyConflict is returned.
func (j *Journal) Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []Event) error {
	_, span := j.tracer.Start(ctx, "journal.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.String("aggregate.type", aggregateType),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	if expectedVersion < 0 {
		return ErrInvalidVersion
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if current := j.versions[aggregateID]; current != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", current),
			attribute.Bool("conflict.detected", true),
		)
		return ErrConcurrencyConflict
	}

	for i, event := range events {
		event.ID = j.nextID
		event.AggregateID = aggregateID
		event.AggregateType = aggregateType
		event.Version = expectedVersion + i + 1
		event.CreatedAt = time.Now().UTC()
		j.events = append(j.events, event)
		j.nextID++

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", event.ID),
			attribute.Int("event.version", event.Version),
			attribute.String("event.type", event.EventType),
		))
	}
	j.versions[aggregateID] = expectedVersion + len(events)

	span.SetAttributes(attribute.Bool("append.success", true))
	return nil
}

// LoadEvents retrieves all events for an aggregate with an optional version
// range; toVersion <= 0 means no upper bound. The result is a copy.
func (j *Journal) LoadEvents(ctx context.Context, aggregateID uuid.UUID, fromVersion, toVersion int) ([]Event, error) {
	_, span := j.tracer.Start(ctx, "journal.load",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.Int("from.version", fromVersion),
			attribute.Int("to.version", toVersion),
		),
	)
	defer span.End()

	j.mu.RLock()
	defer j.mu.RUnlock()

	var events []Event
	for _, event := range j.events {
		if event.AggregateID != aggregateID {
			continue
		}
		if event.Version < fromVersion {
			continue
		}
		if toVersion > 0 && event.Version > toVersion {
			continue
		}
		events = append(events, event)
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// CurrentVersion returns the latest version for an aggregate, 0 if unseen.
func (j *Journal) CurrentVersion(ctx context.Context, aggregateID uuid.UUID) (int, error) {
	_, span := j.tracer.Start(ctx, "journal.get_version",
		trace.WithAttributes(attribute.String("aggregate.id", aggregateID.String())),
	)
	defer span.End()

	j.mu.RLock()
	version := j.versions[aggregateID]
	j.mu.RUnlock()

	span.SetAttributes(attribute.Int("current.version", version))
	return version, nil
}

// StreamEvents returns up to batchSize events with ID greater than fromID, in
// append order. Projections page through the journal with this.
func (j *Journal) StreamEvents(ctx context.Context, fromID int64, batchSize int) ([]Event, error) {
	_, span := j.tracer.Start(ctx, "journal.stream",
		trace.WithAttributes(
			attribute.Int64("from.id", fromID),
			attribute.Int("batch.size", batchSize),
		),
	)
	defer span.End()

	j.mu.RLock()
	defer j.mu.RUnlock()

	var events []Event
	for _, event := range j.events {
		if event.ID <= fromID {
			continue
		}
		events = append(events, event)
		if len(events) == batchSize {
			break
		}
	}

	span.SetAttributes(attribute.Int("events.streamed", len(events)))
	return events, nil
}
