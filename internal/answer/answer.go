package answer

import (
	"context"
	"errors"
	"fmt"
)

// Role values for conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces a grounded answer from the query and the assembled
// context. History carries earlier turns so follow-up questions resolve.
type Generator interface {
	Generate(ctx context.Context, query, contextText string, history []Message) (string, error)
}

// Error wraps a chat model failure with the model that produced it.
type Error struct {
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chat model %s: %v", e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var errEmptyCompletion = errors.New("completion returned no choices")

func validRole(role string) error {
	switch role {
	case RoleUser, RoleAssistant:
		return nil
	}
	return errors.New("unknown history role " + role)
}
