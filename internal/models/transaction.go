// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single account transaction as imported from a
// bank export or loaded from the transaction store. Amounts are signed:
// negative means money leaving the account.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"category_id,omitempty"`
}

// IsOutflow returns true if the transaction moves money out of the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// ParseAmount parses a string amount to decimal.Decimal, tolerating common
// bank-export formatting. Malformed input yields zero rather than an error
// so a single bad row never aborts an import.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.ReplaceAll(amountStr, ",", ".")
	amount = strings.TrimSpace(amount)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "CHF", "")
	amount = strings.ReplaceAll(amount, "EUR", "")
	amount = strings.ReplaceAll(amount, "USD", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, "€", "")
	amount = strings.ReplaceAll(amount, "'", "")

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
