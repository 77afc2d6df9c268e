// Package notify abstracts outbound invite delivery. The server ships
// with a logging implementation; real SMTP or SMS gateways plug in
// behind the same interface.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers invite messages to voters.
type Notifier interface {
	SendEmail(ctx context.Context, to, from, subject, body string) error
	SendSMS(ctx context.Context, to, body string) error
}

// LogNotifier writes every message to the structured log instead of
// delivering it. Used in test mode and as the default until a gateway
// is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) SendEmail(ctx context.Context, to, from, subject, body string) error {
	n.Logger.InfoContext(ctx, "email send suppressed",
		"to", to, "from", from, "subject", subject, "bytes", len(body))
	return nil
}

func (n *LogNotifier) SendSMS(ctx context.Context, to, body string) error {
	n.Logger.InfoContext(ctx, "sms send suppressed", "to", to, "bytes", len(body))
	return nil
}
