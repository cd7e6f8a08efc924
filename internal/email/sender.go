// Package email delivers transactional mail for the studio.
package email

import "context"

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender discards every message. It is used when no mail provider is
// configured, such as local development.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(context.Context, Message) error { return nil }
