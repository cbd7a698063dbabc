// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import "context"

// Message is one outgoing email. HTML is required; Text is the plain-text
// alternative and may be empty.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender is the interface the worker uses to deliver a rendered digest.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send makes exactly one delivery attempt. Any error means the message
	// was not accepted by the provider.
	Send(ctx context.Context, m Message) error
}
