// Package intake hands accepted manuscripts to the editorial office.
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"journal/internal/adapters/email"
	"journal/internal/domain/manuscript"
)

// Receipt is the intake's answer to one manuscript.
type Receipt struct {
	Success      bool
	SubmissionID string
	Message      string
}

// Receiver accepts a submitted manuscript record.
// A Receipt with Success=false and a nil error is a refusal; a non-nil
// error is a delivery failure. Callers treat both as "not received".
type Receiver interface {
	Receive(ctx context.Context, r manuscript.Record) (Receipt, error)
}

// ErrNoEditorsAddress is returned by MailReceiver without an office address.
var ErrNoEditorsAddress = errors.New("intake: editorial office address not configured")

const msgReceived = "Submission created successfully"

// Raw HTML in manuscript text is escaped; WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderHTML converts a Markdown summary to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

// LogReceiver accepts everything and logs the summary. Used when no mail
// provider is configured.
type LogReceiver struct{}

func (LogReceiver) Receive(_ context.Context, r manuscript.Record) (Receipt, error) {
	title, body := manuscript.Summary(r)
	slog.Info("manuscript_received", "submission_id", r.ID(), "title", title, "summary", body)
	return Receipt{Success: true, SubmissionID: r.ID(), Message: msgReceived}, nil
}

// MailReceiver mails the summary to the editorial office and a confirmation
// to the corresponding author, in one batch.
type MailReceiver struct {
	Sender         email.Sender
	EditorsAddress string
}

func (m MailReceiver) Receive(ctx context.Context, r manuscript.Record) (Receipt, error) {
	if m.EditorsAddress == "" {
		return Receipt{}, ErrNoEditorsAddress
	}
	title, body := manuscript.Summary(r)
	html, err := RenderHTML(body)
	if err != nil {
		return Receipt{}, err
	}

	author := r[manuscript.FieldAuthorEmail]
	msgs := []email.Message{{
		To:      []string{m.EditorsAddress},
		Subject: title,
		HTML:    html,
		ReplyTo: author,
	}}
	if author != "" {
		confirmation, err := RenderHTML(confirmationBody(r))
		if err != nil {
			return Receipt{}, err
		}
		msgs = append(msgs, email.Message{
			To:      []string{author},
			Subject: "Submission received: " + r.ID(),
			HTML:    confirmation,
			ReplyTo: m.EditorsAddress,
		})
	}

	if _, err := m.Sender.SendBatch(ctx, msgs); err != nil {
		return Receipt{SubmissionID: r.ID()}, fmt.Errorf("mail submission %s: %w", r.ID(), err)
	}
	slog.Info("manuscript_received", "submission_id", r.ID(), "title", title, "mails", len(msgs))
	return Receipt{Success: true, SubmissionID: r.ID(), Message: msgReceived}, nil
}

func confirmationBody(r manuscript.Record) string {
	return fmt.Sprintf("Dear %s,\n\nThank you for submitting **%s** to the journal.\n\nYour submission ID is **%s**. "+
		"The editorial office will screen the manuscript and assign it to the editorial board.\n",
		r[manuscript.FieldLeadAuthor], r.Title(), r.ID())
}
