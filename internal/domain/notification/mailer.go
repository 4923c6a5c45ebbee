package notification

import "context"

// Mailer delivers a single HTML email. Implemented by the SMTP layer;
// tests substitute a recording fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
