package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	client   *resend.Client
	fromAddr string // e.g. "digest@bumpdigest.com"
	fromName string // e.g. "Bump Digest"
}

// NewResendClient returns a Sender that delivers email via Resend.
func NewResendClient(apiKey, fromAddr, fromName string) Sender {
	return &resendClient{
		client:   resend.NewClient(apiKey),
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

// Send delivers m with a single API call. There is no retry here; the next
// scheduled run is the retry.
func (c *resendClient) Send(ctx context.Context, m Message) error {
	if m.To == "" {
		return errors.New("email: missing recipient")
	}

	params := &resend.SendEmailRequest{
		From:    c.from(),
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("email: resend send: %w", err)
	}
	return nil
}

func (c *resendClient) from() string {
	if c.fromName == "" {
		return c.fromAddr
	}
	return fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr)
}
