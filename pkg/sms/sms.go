// Package sms sends text messages through the IntechSMS gateway.
//
// Sending is best effort: callers log failures and move on, an order is
// never rolled back because a notification could not be delivered. In
// development SMS_MOCK_MODE=true (the default) swaps the gateway for a
// logger-backed mock.
package sms

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/fastfood-api/config"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/validate"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, message string) error
}

var (
	ErrEmptyNumber  = errors.New("sms: recipient number is empty")
	ErrEmptyMessage = errors.New("sms: message is empty")
)

// NormalizeMSISDN strips spaces and dashes and prefixes +221 onto bare
// Senegalese mobile numbers (77/76/78...). Numbers already in international
// format pass through unchanged.
func NormalizeMSISDN(number string) string {
	number = validate.NormalizeNumber(number)
	if strings.HasPrefix(number, "+") {
		return number
	}
	if strings.HasPrefix(number, "77") || strings.HasPrefix(number, "76") || strings.HasPrefix(number, "78") {
		return "+221" + number
	}
	return number
}

// MockSender logs the message instead of sending it.
type MockSender struct{}

func (MockSender) Send(ctx context.Context, to, message string) error {
	if to == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	logger.WithCtx(ctx).Info("sms sent (mock mode)",
		"to", NormalizeMSISDN(to),
		"message", message,
	)
	return nil
}

// FromConfig builds the configured Sender: the mock in mock mode or when no
// API key is set, the real Intech client otherwise.
func FromConfig() Sender {
	if config.SMSMockMode() || config.IntechAPIKey() == "" {
		return MockSender{}
	}
	return NewIntechClient(config.IntechURL(), config.IntechAPIKey(), config.IntechSenderID())
}
