package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func payment(id, name, amount string, freq models.Frequency, status models.PaymentStatus, due time.Time) models.RecurringPayment {
	return models.RecurringPayment{
		ID:              id,
		UserID:          "user-1",
		AccountID:       "acc-1",
		MerchantPattern: strings.ToLower(name),
		DisplayName:     name,
		Amount:          dec(amount),
		Frequency:       freq,
		Status:          status,
		NextDueDate:     due,
		IsActive:        true,
	}
}

func testPayments() []models.RecurringPayment {
	cancelled := payment("pay-old", "Old Box", "-9.99", models.FrequencyMonthly, models.PaymentStatusPending, day(2026, 2, 11))
	cancelled.IsActive = false

	return []models.RecurringPayment{
		payment("pay-netflix", "Netflix", "-15.99", models.FrequencyMonthly, models.PaymentStatusPending, day(2026, 2, 12)),
		payment("pay-gym", "Gym CityFit", "-45.00", models.FrequencyMonthly, models.PaymentStatusPending, day(2026, 2, 5)),
		payment("pay-spotify", "Spotify", "-10.99", models.FrequencyMonthly, models.PaymentStatusPaid, day(2026, 2, 20)),
		payment("pay-insurance", "Acme Insurance", "-89.50", models.FrequencyQuarterly, models.PaymentStatusPending, day(2026, 3, 1)),
		payment("pay-domain", "Domain Registry", "-24.00", models.FrequencyYearly, models.PaymentStatusPending, day(2026, 11, 20)),
		cancelled,
	}
}

func TestBuildSummary(t *testing.T) {
	now := day(2026, 2, 10)
	summary := BuildSummary(testPayments(), "user-1", 30, now)

	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, 30, summary.HorizonDays)
	assert.Equal(t, 5, summary.ActiveCount)
	assert.Equal(t, 1, summary.OverdueCount)
	require.Len(t, summary.Entries, 6)

	// Sorted by due date, the overdue gym membership first.
	gym := summary.Entries[0]
	assert.Equal(t, "pay-gym", gym.PaymentID)
	assert.True(t, gym.Overdue)
	assert.Equal(t, -5, gym.DaysUntilDue)

	// The cancelled subscription keeps its entry but is never overdue.
	oldBox := summary.Entries[1]
	assert.Equal(t, "pay-old", oldBox.PaymentID)
	assert.False(t, oldBox.Active)
	assert.False(t, oldBox.Overdue)

	netflix := summary.Entries[2]
	assert.Equal(t, "pay-netflix", netflix.PaymentID)
	assert.False(t, netflix.Overdue)
	assert.Equal(t, 2, netflix.DaysUntilDue)

	assert.Equal(t, "pay-spotify", summary.Entries[3].PaymentID)
	assert.Equal(t, "pay-insurance", summary.Entries[4].PaymentID)
	assert.Equal(t, "pay-domain", summary.Entries[5].PaymentID)

	// Gym, Netflix, Spotify and the quarterly insurance fall inside the
	// 30-day horizon; the yearly domain renewal does not, and the
	// cancelled box never counts.
	assert.True(t, summary.DueWithinHorizon.Equal(dec("161.48")),
		"due within horizon = %s", summary.DueWithinHorizon)
	// 71.98 monthly + 89.50*30/91 + 24.00*30/365, rounded.
	assert.True(t, summary.MonthlyOutflow.Equal(dec("103.46")),
		"monthly outflow = %s", summary.MonthlyOutflow)
}

func TestBuildSummaryCancelledOnly(t *testing.T) {
	cancelled := payment("pay-1", "Old Box", "-9.99", models.FrequencyMonthly, models.PaymentStatusPending, day(2026, 2, 1))
	cancelled.IsActive = false
	summary := BuildSummary([]models.RecurringPayment{cancelled}, "user-1", 30, day(2026, 2, 10))

	require.Len(t, summary.Entries, 1)
	assert.Equal(t, 0, summary.ActiveCount)
	assert.Equal(t, 0, summary.OverdueCount)
	assert.True(t, summary.DueWithinHorizon.IsZero())
	assert.True(t, summary.MonthlyOutflow.IsZero())
}

func TestBuildSummaryPaidPaymentIsNotOverdue(t *testing.T) {
	paid := payment("pay-1", "Netflix", "-15.99", models.FrequencyMonthly, models.PaymentStatusPaid, day(2026, 2, 1))
	summary := BuildSummary([]models.RecurringPayment{paid}, "user-1", 30, day(2026, 2, 10))

	require.Len(t, summary.Entries, 1)
	assert.False(t, summary.Entries[0].Overdue)
	assert.Equal(t, 0, summary.OverdueCount)
}

func TestBuildSummaryDefaultHorizon(t *testing.T) {
	summary := BuildSummary(nil, "user-1", 0, day(2026, 2, 10))

	assert.Equal(t, 30, summary.HorizonDays)
	assert.Equal(t, 0, summary.ActiveCount)
	assert.Empty(t, summary.Entries)
	assert.True(t, summary.DueWithinHorizon.IsZero())
	assert.True(t, summary.MonthlyOutflow.IsZero())
}

func TestRenderJSON(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	summary := BuildSummary(testPayments(), "user-1", 30, day(2026, 2, 10))

	out, err := g.Render(summary, "json")
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "user-1", decoded.UserID)
	assert.Equal(t, 5, decoded.ActiveCount)
	require.Len(t, decoded.Entries, 6)
	assert.True(t, decoded.Entries[0].Amount.Equal(dec("-45.00")))
	assert.False(t, decoded.Entries[1].Active)
}

func TestRenderCSV(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	summary := BuildSummary(testPayments(), "user-1", 30, day(2026, 2, 10))

	out, err := g.Render(summary, "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Due,Payment,Merchant,Category,Amount,Frequency,Status,DaysUntilDue", lines[0])
	assert.Contains(t, lines[1], "2026-02-05")
	assert.Contains(t, lines[1], "Gym CityFit")
	assert.Contains(t, lines[2], "cancelled")
	assert.Contains(t, lines[3], "-15.99")
}

func TestRenderText(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	summary := BuildSummary(testPayments(), "user-1", 30, day(2026, 2, 10))

	out, err := g.Render(summary, "text")
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Recurring payments for user user-1")
	assert.Contains(t, text, "5 active, 1 overdue")
	assert.Contains(t, text, "Due within 30 days: 161.48")
	assert.Contains(t, text, "Estimated monthly outflow: 103.46")
	assert.Contains(t, text, "Gym CityFit")
	assert.Contains(t, text, "2026-02-12")
	assert.Contains(t, text, "cancelled")
}

func TestRenderTextEmpty(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	summary := BuildSummary(nil, "user-1", 30, day(2026, 2, 10))

	out, err := g.Render(summary, "text")
	require.NoError(t, err)
	assert.Contains(t, string(out), "No recurring payments.")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	summary := BuildSummary(nil, "user-1", 30, day(2026, 2, 10))

	_, err := g.Render(summary, "yaml")
	require.Error(t, err)
	var validationErr *recurerror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "yaml")
}
