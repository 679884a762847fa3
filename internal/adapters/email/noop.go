package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs messages instead of delivering them, keeping a copy of
// each for inspection.
type NoopSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, msg Message) (Delivery, error) {
	ds, err := s.SendBatch(ctx, []Message{msg})
	if err != nil {
		return Delivery{}, err
	}
	return ds[0], nil
}

func (s *NoopSender) SendBatch(_ context.Context, msgs []Message) ([]Delivery, error) {
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Delivery, 0, len(msgs))
	for _, m := range msgs {
		s.sent = append(s.sent, m)
		slog.Info("email_logged", "to", m.To, "subject", m.Subject)
		out = append(out, Delivery{
			MessageID: fmt.Sprintf("noop-%d", len(s.sent)),
			SentAt:    time.Now(),
		})
	}
	return out, nil
}

// Sent returns a copy of every message logged so far.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
