// Package report builds and renders summaries of a user's confirmed
// recurring payments: what is due soon, what is overdue, and what the
// subscriptions cost per month once frequencies are normalized.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/models"
)

const defaultHorizonDays = 30

// Entry is one recurring payment as it appears in a summary.
type Entry struct {
	PaymentID       string               `json:"payment_id"`
	DisplayName     string               `json:"display_name"`
	MerchantPattern string               `json:"merchant_pattern"`
	CategoryID      string               `json:"category_id,omitempty"`
	Amount          decimal.Decimal      `json:"amount"`
	Frequency       models.Frequency     `json:"frequency"`
	Status          models.PaymentStatus `json:"status"`
	NextDueDate     time.Time            `json:"next_due_date"`
	DaysUntilDue    int                  `json:"days_until_due"`
	Overdue         bool                 `json:"overdue"`
	Active          bool                 `json:"active"`
}

// Summary is the upcoming-payments view for one user. Totals are
// magnitudes: DueWithinHorizon sums the charges falling inside the
// horizon and MonthlyOutflow normalizes every active payment to a
// 30-day cycle.
type Summary struct {
	UserID           string          `json:"user_id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	HorizonDays      int             `json:"horizon_days"`
	ActiveCount      int             `json:"active_count"`
	OverdueCount     int             `json:"overdue_count"`
	DueWithinHorizon decimal.Decimal `json:"due_within_horizon"`
	MonthlyOutflow   decimal.Decimal `json:"monthly_outflow"`
	Entries          []Entry         `json:"entries"`
}

// BuildSummary assembles the summary for one user's payments at the
// given time. Entries come back sorted by due date. Cancelled payments
// keep their entry but never count as overdue and contribute to no
// total. A non-positive horizon falls back to 30 days.
func BuildSummary(payments []models.RecurringPayment, userID string, horizonDays int, now time.Time) Summary {
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}

	summary := Summary{
		UserID:           userID,
		GeneratedAt:      now,
		HorizonDays:      horizonDays,
		DueWithinHorizon: decimal.Zero,
		MonthlyOutflow:   decimal.Zero,
		Entries:          []Entry{},
	}

	thirty := decimal.NewFromInt(30)
	for _, p := range payments {
		days := dateutils.CeilDaysUntil(now, p.NextDueDate)
		entry := Entry{
			PaymentID:       p.ID,
			DisplayName:     p.DisplayName,
			MerchantPattern: p.MerchantPattern,
			CategoryID:      p.CategoryID,
			Amount:          p.Amount,
			Frequency:       p.Frequency,
			Status:          p.Status,
			NextDueDate:     p.NextDueDate,
			DaysUntilDue:    days,
			Overdue:         p.IsActive && days <= 0 && p.Status != models.PaymentStatusPaid,
			Active:          p.IsActive,
		}
		summary.Entries = append(summary.Entries, entry)
		if !p.IsActive {
			continue
		}

		summary.ActiveCount++
		if entry.Overdue {
			summary.OverdueCount++
		}
		charge := p.Amount.Abs()
		if days <= horizonDays {
			summary.DueWithinHorizon = summary.DueWithinHorizon.Add(charge)
		}
		cycle := p.Frequency.Days()
		if cycle <= 0 {
			cycle = 30
		}
		summary.MonthlyOutflow = summary.MonthlyOutflow.Add(
			charge.Mul(thirty).Div(decimal.NewFromInt(int64(cycle))))
	}

	sort.Slice(summary.Entries, func(i, j int) bool {
		if !summary.Entries[i].NextDueDate.Equal(summary.Entries[j].NextDueDate) {
			return summary.Entries[i].NextDueDate.Before(summary.Entries[j].NextDueDate)
		}
		return summary.Entries[i].PaymentID < summary.Entries[j].PaymentID
	})

	summary.DueWithinHorizon = summary.DueWithinHorizon.Round(2)
	summary.MonthlyOutflow = summary.MonthlyOutflow.Round(2)
	return summary
}
