// Package monitor scans active recurring payments, keeps their status in
// step with the calendar, and emits due and overdue alerts.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/notify"
	"fjacquet/recurpay/internal/recurerror"
	"fjacquet/recurpay/internal/store"
)

// Payments whose due date is at most this many days away are inside the
// reminder window: they alert, and paid ones flip back to pending.
const reminderWindowDays = 7

// Notifier fans a batch of alerts out to their transport.
type Notifier interface {
	Dispatch(ctx context.Context, alerts []models.Alert) []notify.SendFailure
}

// Monitor drives the due-date scanning pass.
type Monitor struct {
	payments store.RecurringPaymentStore
	notifier Notifier
	logger   logging.Logger
}

// NewMonitor wires a monitor. notifier may be nil, which limits the
// monitor to read-only alert queries.
func NewMonitor(payments store.RecurringPaymentStore, notifier Notifier, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Monitor{
		payments: payments,
		notifier: notifier,
		logger:   logger,
	}
}

// BuildAlert derives the alert for one payment at the given instant.
// Inactive and already-paid payments never alert, nor do payments due
// more than seven days out.
func BuildAlert(p models.RecurringPayment, now time.Time) (models.Alert, bool) {
	if !p.IsActive || p.Status == models.PaymentStatusPaid {
		return models.Alert{}, false
	}

	daysUntilDue := dateutils.CeilDaysUntil(now, p.NextDueDate)
	if daysUntilDue > reminderWindowDays {
		return models.Alert{}, false
	}

	alert := models.Alert{
		PaymentID:       p.ID,
		UserID:          p.UserID,
		AccountID:       p.AccountID,
		MerchantPattern: p.MerchantPattern,
		DisplayName:     p.DisplayName,
		Amount:          p.Amount,
		DueDate:         p.NextDueDate,
	}

	amount := p.Amount.Abs().StringFixed(2)
	if daysUntilDue <= 0 {
		alert.Type = models.AlertOverdue
		alert.Priority = models.PriorityHigh
		alert.DaysOverdue = -daysUntilDue
		alert.Message = fmt.Sprintf("%s payment of %s is %d day(s) overdue", p.DisplayName, amount, alert.DaysOverdue)
		return alert, true
	}

	alert.Type = models.AlertDueSoon
	alert.DaysUntilDue = daysUntilDue
	alert.Message = fmt.Sprintf("%s payment of %s is due in %d day(s)", p.DisplayName, amount, daysUntilDue)
	switch {
	case daysUntilDue <= 1:
		alert.Priority = models.PriorityHigh
	case daysUntilDue <= 3:
		alert.Priority = models.PriorityMedium
	default:
		alert.Priority = models.PriorityLow
	}
	return alert, true
}

// GetPendingAlerts returns the alerts the user's active payments warrant
// right now, without touching stored statuses. The result is sorted by
// due date, then payment ID.
func (m *Monitor) GetPendingAlerts(ctx context.Context, userID string, now time.Time) ([]models.Alert, error) {
	payments, err := m.payments.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildAlerts(payments, now), nil
}

func buildAlerts(payments []models.RecurringPayment, now time.Time) []models.Alert {
	alerts := make([]models.Alert, 0, len(payments))
	for _, p := range payments {
		if alert, ok := BuildAlert(p, now); ok {
			alerts = append(alerts, alert)
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].DueDate.Equal(alerts[j].DueDate) {
			return alerts[i].DueDate.Before(alerts[j].DueDate)
		}
		return alerts[i].PaymentID < alerts[j].PaymentID
	})
	return alerts
}

// Summary reports one notification pass.
type Summary struct {
	AlertsTotal int `json:"alerts_total"`
	Overdue     int `json:"overdue"`
	DueSoon     int `json:"due_soon"`
	Sent        int `json:"sent"`
	Failed      int `json:"failed"`
}

// ProcessUserNotifications runs one monitoring pass for a user: statuses
// move with the calendar, alerts are rebuilt from the updated records and
// dispatched. Send failures are logged and counted but never abort the
// pass.
func (m *Monitor) ProcessUserNotifications(ctx context.Context, userID string, now time.Time) (Summary, error) {
	payments, err := m.payments.ActiveByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	payments = m.applyStatusTransitions(ctx, payments, now)
	alerts := buildAlerts(payments, now)

	var failures []notify.SendFailure
	if m.notifier != nil {
		failures = m.notifier.Dispatch(ctx, alerts)
	}
	for _, f := range failures {
		notifyErr := &recurerror.NotifyError{
			PaymentID: f.Alert.PaymentID,
			AlertType: string(f.Alert.Type),
			Err:       f.Err,
		}
		m.logger.WithError(notifyErr).WithFields(
			logging.Field{Key: logging.FieldUser, Value: userID},
			logging.Field{Key: logging.FieldPayment, Value: f.Alert.PaymentID},
		).Warn("Alert delivery failed")
	}

	summary := Summary{
		AlertsTotal: len(alerts),
		Sent:        len(alerts) - len(failures),
		Failed:      len(failures),
	}
	for _, alert := range alerts {
		switch alert.Type {
		case models.AlertOverdue:
			summary.Overdue++
		case models.AlertDueSoon:
			summary.DueSoon++
		}
	}

	m.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: summary.AlertsTotal},
		logging.Field{Key: "overdue", Value: summary.Overdue},
		logging.Field{Key: "due_soon", Value: summary.DueSoon},
		logging.Field{Key: "failed", Value: summary.Failed},
	).Info("Notification pass completed")
	return summary, nil
}

// ProcessAllUsers runs a notification pass for every user with active
// payments and aggregates the per-user summaries. One user's failing
// pass is logged and skipped rather than blocking the rest.
func (m *Monitor) ProcessAllUsers(ctx context.Context, now time.Time) (Summary, error) {
	users, err := m.payments.Users(ctx)
	if err != nil {
		return Summary{}, err
	}

	var total Summary
	for _, userID := range users {
		summary, err := m.ProcessUserNotifications(ctx, userID, now)
		if err != nil {
			m.logger.WithError(err).WithField(logging.FieldUser, userID).
				Error("Notification pass failed")
			continue
		}
		total.AlertsTotal += summary.AlertsTotal
		total.Overdue += summary.Overdue
		total.DueSoon += summary.DueSoon
		total.Sent += summary.Sent
		total.Failed += summary.Failed
	}
	return total, nil
}

// applyStatusTransitions moves payment statuses with the calendar:
// pending flips to overdue once the due date passes, and paid flips back
// to pending when the next cycle enters the reminder window. A failed
// update is logged and the in-memory transition kept, so alerts still
// reflect the calendar.
func (m *Monitor) applyStatusTransitions(ctx context.Context, payments []models.RecurringPayment, now time.Time) []models.RecurringPayment {
	for i := range payments {
		p := &payments[i]
		daysUntilDue := dateutils.CeilDaysUntil(now, p.NextDueDate)

		var next models.PaymentStatus
		switch {
		case p.Status == models.PaymentStatusPending && daysUntilDue <= 0:
			next = models.PaymentStatusOverdue
		case p.Status == models.PaymentStatusPaid && daysUntilDue <= reminderWindowDays:
			next = models.PaymentStatusPending
		default:
			continue
		}

		previous := p.Status
		p.Status = next
		p.UpdatedAt = now
		if err := m.payments.Update(ctx, p); err != nil {
			m.logger.WithError(err).WithFields(
				logging.Field{Key: logging.FieldPayment, Value: p.ID},
				logging.Field{Key: logging.FieldStatus, Value: string(next)},
			).Warn("Failed to persist status transition")
			continue
		}
		m.logger.WithFields(
			logging.Field{Key: logging.FieldPayment, Value: p.ID},
			logging.Field{Key: "from", Value: string(previous)},
			logging.Field{Key: logging.FieldStatus, Value: string(next)},
		).Debug("Payment status transitioned")
	}
	return payments
}
