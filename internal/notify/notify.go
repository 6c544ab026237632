// Package notify delivers payment alerts. The only transport in the
// repository writes alerts to the structured log; other channels plug in
// through the Sender interface.
package notify

import (
	"context"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// Sender delivers a single alert over one transport.
type Sender interface {
	Send(ctx context.Context, alert models.Alert) error
}

// LogSender writes alerts to the structured log. High-priority alerts go
// out at warn level so they stand out in aggregated logs.
type LogSender struct {
	logger logging.Logger
}

// NewLogSender creates a sender over the given logger.
func NewLogSender(logger logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &LogSender{logger: logger}
}

// Send logs the alert.
func (s *LogSender) Send(ctx context.Context, alert models.Alert) error {
	entry := s.logger.WithFields(
		logging.Field{Key: logging.FieldPayment, Value: alert.PaymentID},
		logging.Field{Key: logging.FieldUser, Value: alert.UserID},
		logging.Field{Key: logging.FieldMerchant, Value: alert.MerchantPattern},
		logging.Field{Key: logging.FieldAlertType, Value: string(alert.Type)},
		logging.Field{Key: logging.FieldPriority, Value: string(alert.Priority)},
		logging.Field{Key: "amount", Value: alert.Amount.StringFixed(2)},
		logging.Field{Key: "due_date", Value: alert.DueDate.Format("2006-01-02")},
	)

	if alert.Priority == models.PriorityHigh {
		entry.Warn(alert.Message)
	} else {
		entry.Info(alert.Message)
	}
	return nil
}
