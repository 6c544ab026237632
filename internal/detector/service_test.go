package detector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
	"fjacquet/recurpay/internal/store"
)

type stubCategorizer struct {
	category models.Category
	err      error
	calls    []string
}

func (s *stubCategorizer) CategorizeMerchant(ctx context.Context, merchantPattern string) (models.Category, error) {
	s.calls = append(s.calls, merchantPattern)
	if s.err != nil {
		return models.Category{}, s.err
	}
	return s.category, nil
}

func testCandidate(accountID, pattern string, confidence, risk float64) models.TransactionPattern {
	return models.TransactionPattern{
		AccountID:        accountID,
		MerchantPattern:  pattern,
		Amounts:          []decimal.Decimal{models.ParseAmount("-15.99")},
		Dates:            []time.Time{day(2025, 6, 15)},
		Frequency:        models.FrequencyMonthly,
		Confidence:       confidence,
		Risk:             risk,
		AverageAmount:    models.ParseAmount("-15.99"),
		FirstOccurrence:  day(2025, 1, 15),
		LastOccurrence:   day(2025, 6, 15),
		NextExpectedDate: day(2025, 7, 15),
	}
}

func activePayment(id, userID, accountID, pattern string) models.RecurringPayment {
	return models.RecurringPayment{
		ID:              id,
		UserID:          userID,
		AccountID:       accountID,
		MerchantPattern: pattern,
		DisplayName:     pattern,
		Amount:          models.ParseAmount("-15.99"),
		Frequency:       models.FrequencyMonthly,
		Status:          models.PaymentStatusPending,
		NextDueDate:     day(2025, 7, 15),
		Occurrences:     6,
		IsActive:        true,
	}
}

func TestDetectForUser(t *testing.T) {
	txStore := &store.MockTransactionStore{
		Transactions: map[string][]models.Transaction{
			"user-1": monthlySeries("acc-1", "NETFLIX.COM PAYMENT", "-15.99", day(2024, 1, 15), 12),
		},
	}
	cat := &stubCategorizer{category: models.Category{ID: "streaming", Name: "Streaming"}}
	svc := NewService(txStore, &store.MockPaymentStore{}, cat, DefaultConfig(), &logging.MockLogger{})

	patterns, err := svc.DetectForUser(context.Background(), "user-1", day(2025, 1, 5))
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "netflix.com", patterns[0].MerchantPattern)
	assert.Equal(t, "streaming", patterns[0].CategoryID)
	assert.Equal(t, []string{"netflix.com"}, cat.calls)
}

func TestDetectForUserStoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	txStore := &store.MockTransactionStore{TransactionsError: cause}
	svc := NewService(txStore, &store.MockPaymentStore{}, nil, DefaultConfig(), &logging.MockLogger{})

	_, err := svc.DetectForUser(context.Background(), "user-1", day(2025, 1, 5))

	var detErr *recurerror.DetectionError
	require.ErrorAs(t, err, &detErr)
	assert.Equal(t, "user-1", detErr.UserID)
	assert.ErrorIs(t, err, cause)
}

func TestDetectForUserCategorizerFailure(t *testing.T) {
	txStore := &store.MockTransactionStore{
		Transactions: map[string][]models.Transaction{
			"user-1": monthlySeries("acc-1", "NETFLIX.COM PAYMENT", "-15.99", day(2024, 1, 15), 12),
		},
	}
	cat := &stubCategorizer{err: errors.New("refdata unreadable")}
	svc := NewService(txStore, &store.MockPaymentStore{}, cat, DefaultConfig(), &logging.MockLogger{})

	patterns, err := svc.DetectForUser(context.Background(), "user-1", day(2025, 1, 5))
	require.NoError(t, err, "a broken categorizer must not fail detection")
	require.Len(t, patterns, 1)
	assert.Equal(t, "uncategorized", patterns[0].CategoryID)
}

func TestDetectForUserWithoutCategorizer(t *testing.T) {
	txStore := &store.MockTransactionStore{
		Transactions: map[string][]models.Transaction{
			"user-1": monthlySeries("acc-1", "NETFLIX.COM PAYMENT", "-15.99", day(2024, 1, 15), 12),
		},
	}
	svc := NewService(txStore, &store.MockPaymentStore{}, nil, DefaultConfig(), &logging.MockLogger{})

	patterns, err := svc.DetectForUser(context.Background(), "user-1", day(2025, 1, 5))
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "uncategorized", patterns[0].CategoryID)
}

func TestConfirmCandidate(t *testing.T) {
	payStore := &store.MockPaymentStore{}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})
	now := day(2025, 6, 20)

	candidate := testCandidate("acc-1", "netflix.com", 0.91, 0.12)
	opts := ConfirmOptions{
		DisplayName:  "Netflix",
		CategoryID:   "streaming",
		ReminderDays: []int{3, 1, 3, 0},
	}

	payment, err := svc.ConfirmCandidate(context.Background(), "user-1", candidate, opts, now)
	require.NoError(t, err)

	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, "user-1", payment.UserID)
	assert.Equal(t, "acc-1", payment.AccountID)
	assert.Equal(t, "netflix.com", payment.MerchantPattern)
	assert.Equal(t, "Netflix", payment.DisplayName)
	assert.Equal(t, "streaming", payment.CategoryID)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.True(t, payment.IsActive)
	assert.True(t, candidate.AverageAmount.Equal(payment.Amount))
	assert.Equal(t, models.FrequencyMonthly, payment.Frequency)
	assert.True(t, day(2025, 7, 15).Equal(payment.NextDueDate))
	assert.Equal(t, []int{1, 3}, payment.ReminderDays)
	assert.True(t, now.Equal(payment.CreatedAt))

	stored, ok := payStore.Payments[payment.ID]
	require.True(t, ok, "confirmed payment must be persisted")
	assert.Equal(t, payment.MerchantPattern, stored.MerchantPattern)
}

func TestConfirmCandidateDefaults(t *testing.T) {
	payStore := &store.MockPaymentStore{}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	candidate := testCandidate("acc-1", "netflix.com", 0.91, 0.12)
	candidate.CategoryID = "streaming"

	payment, err := svc.ConfirmCandidate(context.Background(), "user-1", candidate, ConfirmOptions{}, day(2025, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, "netflix.com", payment.DisplayName)
	assert.Equal(t, "streaming", payment.CategoryID)
	assert.Nil(t, payment.ReminderDays)
}

func TestConfirmCandidateDuplicateGuard(t *testing.T) {
	tests := []struct {
		name          string
		accountID     string
		pattern       string
		wantDuplicate bool
	}{
		{name: "exact match", accountID: "acc-1", pattern: "netflix.com", wantDuplicate: true},
		{name: "near match", accountID: "acc-1", pattern: "netflix.co", wantDuplicate: true},
		{name: "same merchant other account", accountID: "acc-2", pattern: "netflix.com", wantDuplicate: false},
		{name: "different merchant", accountID: "acc-1", pattern: "spotify premium", wantDuplicate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payStore := &store.MockPaymentStore{
				Payments: map[string]models.RecurringPayment{
					"pay-1": activePayment("pay-1", "user-1", "acc-1", "netflix.com"),
				},
			}
			svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

			candidate := testCandidate(tt.accountID, tt.pattern, 0.91, 0.12)
			_, err := svc.ConfirmCandidate(context.Background(), "user-1", candidate, ConfirmOptions{}, day(2025, 6, 20))

			if tt.wantDuplicate {
				assert.ErrorIs(t, err, recurerror.ErrDuplicatePayment)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfirmCandidateIgnoresCancelledPayments(t *testing.T) {
	cancelled := activePayment("pay-1", "user-1", "acc-1", "netflix.com")
	cancelled.IsActive = false
	payStore := &store.MockPaymentStore{
		Payments: map[string]models.RecurringPayment{"pay-1": cancelled},
	}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	candidate := testCandidate("acc-1", "netflix.com", 0.91, 0.12)
	_, err := svc.ConfirmCandidate(context.Background(), "user-1", candidate, ConfirmOptions{}, day(2025, 6, 20))
	assert.NoError(t, err, "a cancelled payment must not block re-confirmation")
}

func TestConfirmCandidatePersistFailure(t *testing.T) {
	cause := errors.New("disk full")
	payStore := &store.MockPaymentStore{SaveError: cause}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	candidate := testCandidate("acc-1", "netflix.com", 0.91, 0.12)
	_, err := svc.ConfirmCandidate(context.Background(), "user-1", candidate, ConfirmOptions{}, day(2025, 6, 20))

	var confirmErr *recurerror.ConfirmError
	require.ErrorAs(t, err, &confirmErr)
	assert.Equal(t, "netflix.com", confirmErr.MerchantPattern)
	assert.ErrorIs(t, err, cause)
}

func TestAutoConfirm(t *testing.T) {
	payStore := &store.MockPaymentStore{
		Payments: map[string]models.RecurringPayment{
			"pay-1": activePayment("pay-1", "user-1", "acc-1", "audible.com"),
		},
	}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	candidates := []models.TransactionPattern{
		testCandidate("acc-1", "netflix.com", 0.91, 0.12),
		testCandidate("acc-1", "corner bakery", 0.55, 0.12),
		testCandidate("acc-1", "luxury spa", 0.85, 0.75),
		testCandidate("acc-1", "audible.com", 0.95, 0.10),
	}

	result := svc.AutoConfirm(context.Background(), "user-1", candidates, day(2025, 6, 20))

	require.Len(t, result.Confirmed, 1)
	assert.Equal(t, "netflix.com", result.Confirmed[0].MerchantPattern)
	assert.Empty(t, result.Failed)

	require.Len(t, result.Skipped, 3)
	reasons := map[string]string{}
	for _, s := range result.Skipped {
		reasons[s.MerchantPattern] = s.Reason
	}
	assert.Contains(t, reasons["corner bakery"], "confidence")
	assert.Contains(t, reasons["luxury spa"], "risk")
	assert.Contains(t, reasons["audible.com"], "duplicate")
}

func TestAutoConfirmCollectsFailures(t *testing.T) {
	cause := errors.New("disk full")
	payStore := &store.MockPaymentStore{SaveError: cause}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	candidates := []models.TransactionPattern{
		testCandidate("acc-1", "netflix.com", 0.91, 0.12),
		testCandidate("acc-1", "spotify premium", 0.88, 0.15),
	}

	result := svc.AutoConfirm(context.Background(), "user-1", candidates, day(2025, 6, 20))

	assert.Empty(t, result.Confirmed)
	require.Len(t, result.Failed, 2)
	var confirmErr *recurerror.ConfirmError
	assert.ErrorAs(t, result.Failed[0].Err, &confirmErr)
}

func TestMarkPaid(t *testing.T) {
	tests := []struct {
		name        string
		frequency   models.Frequency
		nextDueDate time.Time
		paidAt      time.Time
		wantNextDue time.Time
	}{
		{
			name:        "paid on due date",
			frequency:   models.FrequencyMonthly,
			nextDueDate: day(2026, 2, 15),
			paidAt:      day(2026, 2, 15),
			wantNextDue: day(2026, 3, 15),
		},
		{
			name:        "paid early still advances a cycle",
			frequency:   models.FrequencyMonthly,
			nextDueDate: day(2026, 2, 15),
			paidAt:      day(2026, 2, 14),
			wantNextDue: day(2026, 3, 15),
		},
		{
			name:        "late payment skips missed cycles",
			frequency:   models.FrequencyMonthly,
			nextDueDate: day(2026, 1, 15),
			paidAt:      day(2026, 3, 20),
			wantNextDue: day(2026, 4, 15),
		},
		{
			name:        "weekly cycle",
			frequency:   models.FrequencyWeekly,
			nextDueDate: day(2026, 2, 1),
			paidAt:      day(2026, 2, 1),
			wantNextDue: day(2026, 2, 8),
		},
		{
			name:        "month end clamps",
			frequency:   models.FrequencyMonthly,
			nextDueDate: day(2026, 1, 31),
			paidAt:      day(2026, 1, 31),
			wantNextDue: day(2026, 2, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := activePayment("pay-1", "user-1", "acc-1", "netflix.com")
			payment.Frequency = tt.frequency
			payment.NextDueDate = tt.nextDueDate
			payStore := &store.MockPaymentStore{
				Payments: map[string]models.RecurringPayment{"pay-1": payment},
			}
			svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

			updated, err := svc.MarkPaid(context.Background(), "user-1", "pay-1", tt.paidAt)
			require.NoError(t, err)

			assert.Equal(t, models.PaymentStatusPaid, updated.Status)
			assert.True(t, tt.paidAt.Equal(updated.LastPaidDate))
			assert.True(t, tt.wantNextDue.Equal(updated.NextDueDate),
				"want next due %s, got %s", tt.wantNextDue, updated.NextDueDate)
			assert.Equal(t, 7, updated.Occurrences)
			assert.True(t, tt.paidAt.Equal(updated.UpdatedAt))

			stored := payStore.Payments["pay-1"]
			assert.Equal(t, models.PaymentStatusPaid, stored.Status)
			assert.True(t, tt.wantNextDue.Equal(stored.NextDueDate))
		})
	}
}

func TestMarkPaidNotFound(t *testing.T) {
	payStore := &store.MockPaymentStore{
		Payments: map[string]models.RecurringPayment{
			"pay-1": activePayment("pay-1", "user-1", "acc-1", "netflix.com"),
		},
	}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	t.Run("missing payment", func(t *testing.T) {
		_, err := svc.MarkPaid(context.Background(), "user-1", "missing", day(2026, 2, 15))
		assert.ErrorIs(t, err, recurerror.ErrNotFound)
	})

	t.Run("other user's payment", func(t *testing.T) {
		_, err := svc.MarkPaid(context.Background(), "user-2", "pay-1", day(2026, 2, 15))
		assert.ErrorIs(t, err, recurerror.ErrNotFound)
	})
}

func TestCancel(t *testing.T) {
	payStore := &store.MockPaymentStore{
		Payments: map[string]models.RecurringPayment{
			"pay-1": activePayment("pay-1", "user-1", "acc-1", "netflix.com"),
		},
	}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	require.NoError(t, svc.Cancel(context.Background(), "user-1", "pay-1"))
	assert.False(t, payStore.Payments["pay-1"].IsActive)
}

func TestCancelOtherUsersPayment(t *testing.T) {
	payStore := &store.MockPaymentStore{
		Payments: map[string]models.RecurringPayment{
			"pay-1": activePayment("pay-1", "user-1", "acc-1", "netflix.com"),
		},
	}
	svc := NewService(&store.MockTransactionStore{}, payStore, nil, DefaultConfig(), &logging.MockLogger{})

	err := svc.Cancel(context.Background(), "user-2", "pay-1")
	assert.ErrorIs(t, err, recurerror.ErrNotFound)
	assert.True(t, payStore.Payments["pay-1"].IsActive, "foreign cancel must not deactivate")
}
