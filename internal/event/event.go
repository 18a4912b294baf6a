package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeConversationCreated Type = "conversation.created"
	TypeConversationUpdated Type = "conversation.updated"
	TypeMessageCreated      Type = "message.created"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`

	// Audience lists the user ids allowed to receive the event. Empty means nobody.
	Audience []string `json:"-"`
}

func New(typ Type, actorID string, audience []string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
		Audience:  audience,
	}
}

// Addressed reports whether userID is part of the event's audience.
func (e Event) Addressed(userID string) bool {
	for _, id := range e.Audience {
		if id == userID {
			return true
		}
	}
	return false
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func())
}
