// Package email delivers editorial mail through an external provider.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned for a message with an empty To list.
var ErrNoRecipients = errors.New("email: no recipients")

// Message is one outgoing mail.
type Message struct {
	To      []string
	From    string // empty means the sender's default address
	Subject string
	HTML    string
	ReplyTo string
}

// Validate checks that the message can be handed to a provider.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Delivery is the provider's acknowledgement of one message.
type Delivery struct {
	MessageID string
	SentAt    time.Time
}

// Sender hands messages to a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Delivery, error)
	SendBatch(ctx context.Context, msgs []Message) ([]Delivery, error)
}
