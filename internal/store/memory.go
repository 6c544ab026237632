package store

import (
	"context"
	"sort"
	"sync"

	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
)

// MemoryTransactionStore holds transactions in memory. It is the default
// driver and the backing store for tests.
type MemoryTransactionStore struct {
	mu  sync.RWMutex
	txs map[string][]models.Transaction
}

// NewMemoryTransactionStore creates an empty in-memory transaction store.
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{txs: make(map[string][]models.Transaction)}
}

// TransactionsByUser returns the user's transactions ordered by date then ID.
func (s *MemoryTransactionStore) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, len(s.txs[userID]))
	copy(out, s.txs[userID])
	sortTransactions(out)
	return out, nil
}

// SaveTransactions appends the given transactions, skipping IDs already
// stored so a repeated import stays idempotent.
func (s *MemoryTransactionStore) SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.txs[userID]))
	for _, tx := range s.txs[userID] {
		seen[tx.ID] = true
	}
	for _, tx := range txs {
		if tx.ID != "" && seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true
		s.txs[userID] = append(s.txs[userID], tx)
	}
	return nil
}

// MemoryPaymentStore holds recurring payments in memory.
type MemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]models.RecurringPayment
}

// NewMemoryPaymentStore creates an empty in-memory payment store.
func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{payments: make(map[string]models.RecurringPayment)}
}

// ActiveByUser returns the user's active payments ordered by account then
// merchant pattern.
func (s *MemoryPaymentStore) ActiveByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RecurringPayment
	for _, p := range s.payments {
		if p.UserID == userID && p.IsActive {
			out = append(out, clonePayment(p))
		}
	}
	sortPayments(out)
	return out, nil
}

// ByUser returns every payment for the user, active or not, ordered by
// account then merchant pattern.
func (s *MemoryPaymentStore) ByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RecurringPayment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, clonePayment(p))
		}
	}
	sortPayments(out)
	return out, nil
}

// Users returns the IDs of users holding at least one active payment,
// sorted.
func (s *MemoryPaymentStore) Users(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, p := range s.payments {
		if p.IsActive && !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ByID returns the payment with the given ID, active or not.
func (s *MemoryPaymentStore) ByID(ctx context.Context, id string) (*models.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, recurerror.ErrNotFound
	}
	cp := clonePayment(p)
	return &cp, nil
}

// Save stores a new payment.
func (s *MemoryPaymentStore) Save(ctx context.Context, payment *models.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments[payment.ID] = clonePayment(*payment)
	return nil
}

// Update replaces an existing payment.
func (s *MemoryPaymentStore) Update(ctx context.Context, payment *models.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[payment.ID]; !ok {
		return recurerror.ErrNotFound
	}
	s.payments[payment.ID] = clonePayment(*payment)
	return nil
}

// Deactivate clears the active flag, keeping the record.
func (s *MemoryPaymentStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return recurerror.ErrNotFound
	}
	p.IsActive = false
	s.payments[id] = p
	return nil
}

func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}

func sortPayments(payments []models.RecurringPayment) {
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].AccountID != payments[j].AccountID {
			return payments[i].AccountID < payments[j].AccountID
		}
		if payments[i].MerchantPattern != payments[j].MerchantPattern {
			return payments[i].MerchantPattern < payments[j].MerchantPattern
		}
		return payments[i].ID < payments[j].ID
	})
}

// clonePayment copies a payment including its reminder slice so callers
// never share backing arrays with the store.
func clonePayment(p models.RecurringPayment) models.RecurringPayment {
	if p.ReminderDays != nil {
		days := make([]int, len(p.ReminderDays))
		copy(days, p.ReminderDays)
		p.ReminderDays = days
	}
	return p
}
