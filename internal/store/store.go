// Package store provides persistence for transactions and recurring
// payments behind small interfaces, with in-memory, CSV/YAML file and
// PostgreSQL implementations selected by configuration.
package store

import (
	"context"

	"fjacquet/recurpay/internal/models"
)

// TransactionStore loads and persists account transactions per user.
type TransactionStore interface {
	// TransactionsByUser returns every stored transaction for the user,
	// ordered by date then ID.
	TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)

	// SaveTransactions persists the given transactions for the user,
	// replacing nothing: existing transactions with the same ID are kept.
	SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error
}

// RecurringPaymentStore persists confirmed recurring payments.
// Implementations return recurerror.ErrNotFound when an ID does not exist.
type RecurringPaymentStore interface {
	// ActiveByUser returns the user's active payments ordered by account
	// then merchant pattern.
	ActiveByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error)

	// ByUser returns every payment for the user, cancelled ones included,
	// in the same order as ActiveByUser.
	ByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error)

	// Users returns the sorted IDs of users with at least one active
	// payment.
	Users(ctx context.Context) ([]string, error)

	// ByID returns a single payment, active or not.
	ByID(ctx context.Context, id string) (*models.RecurringPayment, error)

	// Save inserts a new payment.
	Save(ctx context.Context, payment *models.RecurringPayment) error

	// Update replaces an existing payment.
	Update(ctx context.Context, payment *models.RecurringPayment) error

	// Deactivate clears the active flag, keeping the record for history.
	Deactivate(ctx context.Context, id string) error
}
