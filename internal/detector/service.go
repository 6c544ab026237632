package detector

import (
	"context"
	"errors"
	"time"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/merchant"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
	"fjacquet/recurpay/internal/schedule"
	"fjacquet/recurpay/internal/store"
)

// Candidates at least this similar to an active payment on the same
// account count as duplicates.
const duplicateSimilarity = 0.85

// Categorizer assigns a category to a merchant pattern.
type Categorizer interface {
	CategorizeMerchant(ctx context.Context, merchantPattern string) (models.Category, error)
}

// Service runs detection and manages the recurring-payment lifecycle.
type Service struct {
	transactions store.TransactionStore
	payments     store.RecurringPaymentStore
	categorizer  Categorizer
	logger       logging.Logger
	cfg          Config
}

// NewService wires a detection service. categorizer may be nil, which
// leaves candidates uncategorized.
func NewService(transactions store.TransactionStore, payments store.RecurringPaymentStore, categorizer Categorizer, cfg Config, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Service{
		transactions: transactions,
		payments:     payments,
		categorizer:  categorizer,
		logger:       logger,
		cfg:          cfg,
	}
}

// DetectForUser clusters the user's transaction history into
// recurring-payment candidates and assigns each a category. A failing
// categorizer degrades the candidate to uncategorized instead of failing
// the run.
func (s *Service) DetectForUser(ctx context.Context, userID string, now time.Time) ([]models.TransactionPattern, error) {
	txs, err := s.transactions.TransactionsByUser(ctx, userID)
	if err != nil {
		return nil, &recurerror.DetectionError{UserID: userID, Stage: "loading transactions", Err: err}
	}

	patterns := GroupTransactionsByPattern(txs, s.cfg, now)
	for i := range patterns {
		patterns[i].CategoryID = s.categorize(ctx, patterns[i].MerchantPattern)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: len(patterns)},
	).Info("Detection completed")
	return patterns, nil
}

func (s *Service) categorize(ctx context.Context, merchantPattern string) string {
	if s.categorizer == nil {
		return models.UncategorizedCategory().ID
	}
	category, err := s.categorizer.CategorizeMerchant(ctx, merchantPattern)
	if err != nil {
		s.logger.WithError(err).WithField(logging.FieldMerchant, merchantPattern).
			Warn("Categorization failed, leaving candidate uncategorized")
		return models.UncategorizedCategory().ID
	}
	return category.ID
}

// ConfirmOptions carries user adjustments applied while confirming a
// candidate. Zero values leave the candidate's own values in place.
type ConfirmOptions struct {
	DisplayName  string
	CategoryID   string
	ReminderDays []int
}

// ConfirmCandidate turns a detected candidate into a tracked recurring
// payment. Candidates that duplicate an active payment are rejected with
// ErrDuplicatePayment; persistence failures come back as *ConfirmError.
func (s *Service) ConfirmCandidate(ctx context.Context, userID string, pattern models.TransactionPattern, opts ConfirmOptions, now time.Time) (models.RecurringPayment, error) {
	active, err := s.payments.ActiveByUser(ctx, userID)
	if err != nil {
		return models.RecurringPayment{}, &recurerror.ConfirmError{
			UserID:          userID,
			MerchantPattern: pattern.MerchantPattern,
			Err:             err,
		}
	}
	if isDuplicate(pattern, active) {
		return models.RecurringPayment{}, recurerror.ErrDuplicatePayment
	}

	payment := models.NewRecurringPayment(userID, pattern, now)
	if opts.DisplayName != "" {
		payment.DisplayName = opts.DisplayName
	}
	if opts.CategoryID != "" {
		payment.CategoryID = opts.CategoryID
	}
	payment.ReminderDays = models.NormalizeReminderDays(opts.ReminderDays)

	if err := s.payments.Save(ctx, &payment); err != nil {
		return models.RecurringPayment{}, &recurerror.ConfirmError{
			UserID:          userID,
			MerchantPattern: pattern.MerchantPattern,
			Err:             err,
		}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldPayment, Value: payment.ID},
		logging.Field{Key: logging.FieldMerchant, Value: payment.MerchantPattern},
		logging.Field{Key: logging.FieldFrequency, Value: string(payment.Frequency)},
	).Info("Recurring payment confirmed")
	return payment, nil
}

// isDuplicate reports whether the candidate collides with an active
// payment on the same account, either exactly or by pattern similarity.
func isDuplicate(pattern models.TransactionPattern, active []models.RecurringPayment) bool {
	for _, p := range active {
		if p.AccountID != pattern.AccountID {
			continue
		}
		if p.MerchantPattern == pattern.MerchantPattern {
			return true
		}
		if merchant.Similarity(p.MerchantPattern, pattern.MerchantPattern) >= duplicateSimilarity {
			return true
		}
	}
	return false
}

// SkippedCandidate explains why AutoConfirm passed a candidate over.
type SkippedCandidate struct {
	MerchantPattern string
	Reason          string
}

// ConfirmFailure pairs a candidate with the error its confirmation hit.
type ConfirmFailure struct {
	MerchantPattern string
	Err             error
}

// AutoConfirmResult is the outcome of one AutoConfirm batch.
type AutoConfirmResult struct {
	Confirmed []models.RecurringPayment
	Skipped   []SkippedCandidate
	Failed    []ConfirmFailure
}

// AutoConfirm confirms every candidate that clears the confidence floor
// and the risk ceiling. Candidates outside the gate are skipped with a
// reason; a failing confirmation never aborts the batch.
func (s *Service) AutoConfirm(ctx context.Context, userID string, candidates []models.TransactionPattern, now time.Time) AutoConfirmResult {
	var result AutoConfirmResult
	for _, candidate := range candidates {
		if candidate.Confidence < s.cfg.AutoConfirmThreshold {
			result.Skipped = append(result.Skipped, SkippedCandidate{
				MerchantPattern: candidate.MerchantPattern,
				Reason:          "confidence below auto-confirm threshold",
			})
			continue
		}
		if candidate.Risk > s.cfg.AutoConfirmMaxRisk {
			result.Skipped = append(result.Skipped, SkippedCandidate{
				MerchantPattern: candidate.MerchantPattern,
				Reason:          "risk above auto-confirm ceiling",
			})
			continue
		}

		payment, err := s.ConfirmCandidate(ctx, userID, candidate, ConfirmOptions{}, now)
		if errors.Is(err, recurerror.ErrDuplicatePayment) {
			result.Skipped = append(result.Skipped, SkippedCandidate{
				MerchantPattern: candidate.MerchantPattern,
				Reason:          "duplicate of an active payment",
			})
			continue
		}
		if err != nil {
			s.logger.WithError(err).WithFields(
				logging.Field{Key: logging.FieldUser, Value: userID},
				logging.Field{Key: logging.FieldMerchant, Value: candidate.MerchantPattern},
			).Error("Auto-confirmation failed")
			result.Failed = append(result.Failed, ConfirmFailure{
				MerchantPattern: candidate.MerchantPattern,
				Err:             err,
			})
			continue
		}
		result.Confirmed = append(result.Confirmed, payment)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: "confirmed", Value: len(result.Confirmed)},
		logging.Field{Key: "skipped", Value: len(result.Skipped)},
		logging.Field{Key: "failed", Value: len(result.Failed)},
	).Info("Auto-confirmation completed")
	return result
}

// MarkPaid records a payment against a tracked recurring payment. The due
// date advances at least one full cycle and keeps advancing until it lands
// strictly after paidAt, so late payments skip the cycles they missed.
func (s *Service) MarkPaid(ctx context.Context, userID, paymentID string, paidAt time.Time) (models.RecurringPayment, error) {
	payment, err := s.paymentForUser(ctx, userID, paymentID)
	if err != nil {
		return models.RecurringPayment{}, err
	}

	payment.Status = models.PaymentStatusPaid
	payment.LastPaidDate = paidAt
	payment.Occurrences++
	if payment.NextDueDate.IsZero() {
		payment.NextDueDate = paidAt
	}
	payment.NextDueDate = schedule.NextPaymentDate(payment.NextDueDate, payment.Frequency)
	for !payment.NextDueDate.After(paidAt) {
		payment.NextDueDate = schedule.NextPaymentDate(payment.NextDueDate, payment.Frequency)
	}
	payment.UpdatedAt = paidAt

	if err := s.payments.Update(ctx, payment); err != nil {
		return models.RecurringPayment{}, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldPayment, Value: payment.ID},
		logging.Field{Key: "next_due_date", Value: payment.NextDueDate.Format("2006-01-02")},
	).Info("Payment marked paid")
	return *payment, nil
}

// Cancel stops tracking a recurring payment. The record stays readable
// for history.
func (s *Service) Cancel(ctx context.Context, userID, paymentID string) error {
	if _, err := s.paymentForUser(ctx, userID, paymentID); err != nil {
		return err
	}
	if err := s.payments.Deactivate(ctx, paymentID); err != nil {
		return err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldPayment, Value: paymentID},
	).Info("Recurring payment cancelled")
	return nil
}

// paymentForUser loads a payment and hides records belonging to other
// users behind ErrNotFound.
func (s *Service) paymentForUser(ctx context.Context, userID, paymentID string) (*models.RecurringPayment, error) {
	payment, err := s.payments.ByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, recurerror.ErrNotFound
	}
	return payment, nil
}
