// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rental_portal_backend/platform/events"
	"rental_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Credit Score Domain Events
// =============================================================================

// ScoreUpdated is published after a user's credit score record has been
// recomputed and persisted. Downstream read-models and notification handlers
// subscribe to this instead of polling the score table.
type ScoreUpdated struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Score       int       `json:"score"`
	DataQuality string    `json:"dataQuality"`
}

func (e ScoreUpdated) EventName() string { return "creditscore.updated" }
