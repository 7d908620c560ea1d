package notify

import "context"

// SMSSender delivers one-time codes over an out-of-band messaging channel
// (WhatsApp/SMS provider).
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// EmailSender delivers transactional mail through the mail provider's HTTP API.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
