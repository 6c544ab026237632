package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert is a transient notification about a recurring payment that is due
// soon or overdue. Alerts are rebuilt on every monitoring run and never
// persisted.
type Alert struct {
	PaymentID       string          `json:"payment_id"`
	UserID          string          `json:"user_id"`
	AccountID       string          `json:"account_id"`
	MerchantPattern string          `json:"merchant_pattern"`
	DisplayName     string          `json:"display_name"`
	Amount          decimal.Decimal `json:"amount"`
	Type            AlertType       `json:"type"`
	Priority        AlertPriority   `json:"priority"`
	DaysUntilDue    int             `json:"days_until_due"`
	DaysOverdue     int             `json:"days_overdue"`
	DueDate         time.Time       `json:"due_date"`
	Message         string          `json:"message"`
}
