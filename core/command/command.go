package command

import (
	"time"

	"github.com/google/uuid"
)

// Command represents a domain command with metadata and payload.
type Command struct {
	ID        string    `json:"id"`         // Unique identifier for the command
	Name      string    `json:"name"`       // Command type name (e.g., "CreateUser")
	Payload   any       `json:"payload"`    // Command data
	CreatedAt time.Time `json:"created_at"` // When the command was created
}

// NewCommand creates a new Command with auto-generated ID and timestamp.
// The command name is automatically derived from the payload type using reflection.
//
// Example:
//
//	type CreateUser struct {
//	    UserID string
//	    Email  string
//	}
//
//	cmd := command.NewCommand(CreateUser{UserID: "123", Email: "user@example.com"})
//	// cmd.Name will be "CreateUser"
//	// cmd.ID will be a UUID
//	// cmd.CreatedAt will be time.Now()
func NewCommand(payload any) Command {
	return Command{
		ID:        uuid.New().String(),
		Name:      getCommandNameFromInstance(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
