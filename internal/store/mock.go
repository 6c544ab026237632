package store

import (
	"context"
	"sort"

	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
)

// MockTransactionStore is a mock implementation of TransactionStore for
// testing.
type MockTransactionStore struct {
	Transactions map[string][]models.Transaction
	Saved        map[string][]models.Transaction

	// Error flags for testing error conditions
	TransactionsError error
	SaveError         error
}

// TransactionsByUser returns the mock transactions for the user.
func (m *MockTransactionStore) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	if m.TransactionsError != nil {
		return nil, m.TransactionsError
	}
	out := make([]models.Transaction, len(m.Transactions[userID]))
	copy(out, m.Transactions[userID])
	return out, nil
}

// SaveTransactions records the transactions passed in.
func (m *MockTransactionStore) SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if m.Saved == nil {
		m.Saved = make(map[string][]models.Transaction)
	}
	m.Saved[userID] = append(m.Saved[userID], txs...)
	return nil
}

// MockPaymentStore is a mock implementation of RecurringPaymentStore for
// testing.
type MockPaymentStore struct {
	Payments map[string]models.RecurringPayment

	// Error flags for testing error conditions
	ActiveError     error
	ByUserError     error
	UsersError      error
	ByIDError       error
	SaveError       error
	UpdateError     error
	DeactivateError error
}

func (m *MockPaymentStore) ensure() {
	if m.Payments == nil {
		m.Payments = make(map[string]models.RecurringPayment)
	}
}

// ActiveByUser returns the mock active payments for the user.
func (m *MockPaymentStore) ActiveByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	if m.ActiveError != nil {
		return nil, m.ActiveError
	}
	var out []models.RecurringPayment
	for _, p := range m.Payments {
		if p.UserID == userID && p.IsActive {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

// ByUser returns every mock payment for the user.
func (m *MockPaymentStore) ByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	if m.ByUserError != nil {
		return nil, m.ByUserError
	}
	var out []models.RecurringPayment
	for _, p := range m.Payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

// Users returns the sorted user IDs with active mock payments.
func (m *MockPaymentStore) Users(ctx context.Context) ([]string, error) {
	if m.UsersError != nil {
		return nil, m.UsersError
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.Payments {
		if p.IsActive && !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ByID returns the mock payment with the given ID.
func (m *MockPaymentStore) ByID(ctx context.Context, id string) (*models.RecurringPayment, error) {
	if m.ByIDError != nil {
		return nil, m.ByIDError
	}
	p, ok := m.Payments[id]
	if !ok {
		return nil, recurerror.ErrNotFound
	}
	return &p, nil
}

// Save stores the payment in the mock.
func (m *MockPaymentStore) Save(ctx context.Context, payment *models.RecurringPayment) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.ensure()
	m.Payments[payment.ID] = *payment
	return nil
}

// Update replaces the payment in the mock.
func (m *MockPaymentStore) Update(ctx context.Context, payment *models.RecurringPayment) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.ensure()
	if _, ok := m.Payments[payment.ID]; !ok {
		return recurerror.ErrNotFound
	}
	m.Payments[payment.ID] = *payment
	return nil
}

// Deactivate clears the active flag in the mock.
func (m *MockPaymentStore) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateError != nil {
		return m.DeactivateError
	}
	p, ok := m.Payments[id]
	if !ok {
		return recurerror.ErrNotFound
	}
	p.IsActive = false
	m.Payments[id] = p
	return nil
}

// MockRefDataStore is a mock implementation of the reference-data store
// for testing.
type MockRefDataStore struct {
	Categories       []models.Category
	MerchantMappings map[string]string

	// Error flags for testing error conditions
	LoadCategoriesError       error
	LoadMerchantMappingsError error
	SaveMerchantMappingsError error
}

// LoadCategories returns the mock categories.
func (m *MockRefDataStore) LoadCategories() ([]models.Category, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return m.Categories, nil
}

// LoadMerchantMappings returns a copy of the mock merchant mappings.
func (m *MockRefDataStore) LoadMerchantMappings() (map[string]string, error) {
	if m.LoadMerchantMappingsError != nil {
		return nil, m.LoadMerchantMappingsError
	}
	result := make(map[string]string, len(m.MerchantMappings))
	for k, v := range m.MerchantMappings {
		result[k] = v
	}
	return result, nil
}

// SaveMerchantMappings updates the mock merchant mappings.
func (m *MockRefDataStore) SaveMerchantMappings(mappings map[string]string) error {
	if m.SaveMerchantMappingsError != nil {
		return m.SaveMerchantMappingsError
	}
	if m.MerchantMappings == nil {
		m.MerchantMappings = make(map[string]string)
	}
	for k, v := range mappings {
		m.MerchantMappings[k] = v
	}
	return nil
}
