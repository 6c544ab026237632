package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionPattern is a detected recurring-payment candidate. It is
// transient: detection produces it, confirmation turns it into a
// RecurringPayment, and it is never persisted itself. Amounts and Dates
// are parallel slices, index i describing one occurrence.
type TransactionPattern struct {
	AccountID         string            `json:"account_id"`
	MerchantPattern   string            `json:"merchant_pattern"`
	Amounts           []decimal.Decimal `json:"amounts"`
	Dates             []time.Time       `json:"dates"`
	Frequency         Frequency         `json:"frequency"`
	Regularity        float64           `json:"regularity"`
	AmountConsistency float64           `json:"amount_consistency"`
	Confidence        float64           `json:"confidence"`
	Risk              float64           `json:"risk"`
	AverageAmount     decimal.Decimal   `json:"average_amount"`
	FirstOccurrence   time.Time         `json:"first_occurrence"`
	LastOccurrence    time.Time         `json:"last_occurrence"`
	NextExpectedDate  time.Time         `json:"next_expected_date"`
	CategoryID        string            `json:"category_id,omitempty"`
}

// Occurrences returns how many transactions back this candidate.
func (p TransactionPattern) Occurrences() int {
	return len(p.Dates)
}

// ObservationDays returns the span in days between the first and last
// occurrence, zero for fewer than two occurrences.
func (p TransactionPattern) ObservationDays() int {
	if len(p.Dates) < 2 {
		return 0
	}
	return int(p.LastOccurrence.Sub(p.FirstOccurrence).Hours() / 24)
}

// RecurringPayment is a confirmed recurring payment tracked for a user.
// Cancellation is a soft delete via IsActive so history is preserved.
type RecurringPayment struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	AccountID       string          `json:"account_id"`
	MerchantPattern string          `json:"merchant_pattern"`
	DisplayName     string          `json:"display_name"`
	Amount          decimal.Decimal `json:"amount"`
	Frequency       Frequency       `json:"frequency"`
	Status          PaymentStatus   `json:"status"`
	NextDueDate     time.Time       `json:"next_due_date"`
	LastPaidDate    time.Time       `json:"last_paid_date,omitzero"`
	Confidence      float64         `json:"confidence"`
	Risk            float64         `json:"risk"`
	Occurrences     int             `json:"occurrences"`
	FirstSeen       time.Time       `json:"first_seen"`
	LastSeen        time.Time       `json:"last_seen"`
	CategoryID      string          `json:"category_id,omitempty"`
	ReminderDays    []int           `json:"reminder_days"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewRecurringPayment materializes a confirmed payment from a detected
// candidate. The caller supplies now so creation timestamps stay
// deterministic in tests.
func NewRecurringPayment(userID string, pattern TransactionPattern, now time.Time) RecurringPayment {
	return RecurringPayment{
		ID:              uuid.New().String(),
		UserID:          userID,
		AccountID:       pattern.AccountID,
		MerchantPattern: pattern.MerchantPattern,
		DisplayName:     pattern.MerchantPattern,
		Amount:          pattern.AverageAmount,
		Frequency:       pattern.Frequency,
		Status:          PaymentStatusPending,
		NextDueDate:     pattern.NextExpectedDate,
		Confidence:      pattern.Confidence,
		Risk:            pattern.Risk,
		Occurrences:     pattern.Occurrences(),
		FirstSeen:       pattern.FirstOccurrence,
		LastSeen:        pattern.LastOccurrence,
		CategoryID:      pattern.CategoryID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NormalizeReminderDays sorts the given offsets ascending, dropping
// duplicates and non-positive values. Nil input stays nil.
func NormalizeReminderDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if d <= 0 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
