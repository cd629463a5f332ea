package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	client "github.com/mamadbah2/milkbook/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Messenger delivers plain text notifications to customers over WhatsApp.
type Messenger struct {
	client      client.Client
	countryCode string
	logger      *zap.Logger
}

// NewMessenger wires a messenger. countryCode is prefixed to national
// numbers stored without one.
func NewMessenger(c client.Client, countryCode string, logger *zap.Logger) *Messenger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messenger{client: c, countryCode: countryCode, logger: logger}
}

// SendText sends body to the phone number to.
func (m *Messenger) SendText(ctx context.Context, to, body string) error {
	recipient := client.NormalizePhone(to, m.countryCode)
	if recipient == "" {
		return errors.New("recipient phone number has no digits")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := m.client.SendTextMessage(ctx, client.SendTextMessageRequest{To: recipient, Body: body})
	if err != nil {
		m.logger.Error("failed to send whatsapp message", zap.String("to", recipient), zap.Error(err))
		return fmt.Errorf("send to %s: %w", recipient, err)
	}

	m.logger.Info("whatsapp message sent", zap.String("to", recipient), zap.String("message_id", resp.MessageID()))
	return nil
}
