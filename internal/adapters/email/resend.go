package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// maxBatch is the largest batch the Resend API accepts.
const maxBatch = 100

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns a sender using apiKey, with from as the default
// sender address.
// PRE: apiKey is non-empty
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) request(m Message) *resend.SendEmailRequest {
	from := m.From
	if from == "" {
		from = s.from
	}
	return &resend.SendEmailRequest{
		From:    from,
		To:      m.To,
		Subject: m.Subject,
		Html:    m.HTML,
		ReplyTo: m.ReplyTo,
	}
}

// Send delivers one message.
func (s *ResendSender) Send(ctx context.Context, msg Message) (Delivery, error) {
	if err := msg.Validate(); err != nil {
		return Delivery{}, err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, s.request(msg))
	if err != nil {
		slog.Error("email_send_failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return Delivery{}, fmt.Errorf("resend send: %w", err)
	}
	slog.Info("email_sent", "message_id", sent.Id, "to", msg.To, "subject", msg.Subject)
	return Delivery{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// SendBatch delivers msgs in chunks of at most maxBatch. Deliveries are
// returned in request order; on error the deliveries of earlier chunks
// are returned with it.
func (s *ResendSender) SendBatch(ctx context.Context, msgs []Message) ([]Delivery, error) {
	var out []Delivery
	for start := 0; start < len(msgs); start += maxBatch {
		chunk := msgs[start:min(start+maxBatch, len(msgs))]

		reqs := make([]*resend.SendEmailRequest, 0, len(chunk))
		for _, m := range chunk {
			if err := m.Validate(); err != nil {
				return out, err
			}
			reqs = append(reqs, s.request(m))
		}

		resp, err := s.client.Batch.SendWithContext(ctx, reqs)
		if err != nil {
			slog.Error("email_batch_failed", "size", len(chunk), "error", err)
			return out, fmt.Errorf("resend batch: %w", err)
		}
		for _, item := range resp.Data {
			out = append(out, Delivery{MessageID: item.Id, SentAt: time.Now()})
		}
		slog.Info("email_batch_sent", "size", len(chunk), "total", len(out))
	}
	return out, nil
}
