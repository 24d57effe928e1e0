package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event with metadata and payload.
type Event struct {
	ID        string    `json:"id"`         // Unique identifier for the event
	Name      string    `json:"name"`       // Event type name (e.g., "UserCreated")
	Payload   any       `json:"payload"`    // Event data (can be struct or []byte)
	CreatedAt time.Time `json:"created_at"` // When the event was created
}

// NewEvent creates a new Event with auto-generated ID and timestamp.
// The event name is automatically derived from the payload type using reflection.
//
// Example:
//
//	type UserCreated struct {
//	    UserID string
//	    Email  string
//	}
//
//	evt := event.NewEvent(UserCreated{UserID: "123", Email: "user@example.com"})
//	// evt.Name will be "UserCreated"
//	// evt.ID will be a UUID
//	// evt.CreatedAt will be time.Now()
func NewEvent(payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      getEventName(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
