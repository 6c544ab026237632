package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"fjacquet/recurpay/internal/fileutils"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"

	"gopkg.in/yaml.v3"
)

// paymentRecord is the YAML layout for persisted payments. The amount is
// kept as a string because YAML has no native decimal encoding.
type paymentRecord struct {
	ID              string    `yaml:"id"`
	UserID          string    `yaml:"user_id"`
	AccountID       string    `yaml:"account_id"`
	MerchantPattern string    `yaml:"merchant_pattern"`
	DisplayName     string    `yaml:"display_name"`
	Amount          string    `yaml:"amount"`
	Frequency       string    `yaml:"frequency"`
	Status          string    `yaml:"status"`
	NextDueDate     time.Time `yaml:"next_due_date"`
	LastPaidDate    time.Time `yaml:"last_paid_date,omitempty"`
	Confidence      float64   `yaml:"confidence"`
	Risk            float64   `yaml:"risk"`
	Occurrences     int       `yaml:"occurrences"`
	FirstSeen       time.Time `yaml:"first_seen"`
	LastSeen        time.Time `yaml:"last_seen"`
	CategoryID      string    `yaml:"category_id,omitempty"`
	ReminderDays    []int     `yaml:"reminder_days,omitempty"`
	IsActive        bool      `yaml:"is_active"`
	CreatedAt       time.Time `yaml:"created_at"`
	UpdatedAt       time.Time `yaml:"updated_at"`
}

// FilePaymentStore persists recurring payments in a single YAML file.
// Every mutation rewrites the file, which is acceptable at the scale of
// one household's subscriptions.
type FilePaymentStore struct {
	path string
	mu   sync.Mutex
}

// NewFilePaymentStore creates a store backed by the YAML file at path.
func NewFilePaymentStore(path string) *FilePaymentStore {
	return &FilePaymentStore{path: path}
}

// ActiveByUser returns the user's active payments ordered by account then
// merchant pattern.
func (s *FilePaymentStore) ActiveByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	var out []models.RecurringPayment
	for _, p := range byID {
		if p.UserID == userID && p.IsActive {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

// ByUser returns every payment for the user, active or not, ordered by
// account then merchant pattern.
func (s *FilePaymentStore) ByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	var out []models.RecurringPayment
	for _, p := range byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

// Users returns the IDs of users holding at least one active payment,
// sorted.
func (s *FilePaymentStore) Users(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, p := range byID {
		if p.IsActive && !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ByID returns the payment with the given ID, active or not.
func (s *FilePaymentStore) ByID(ctx context.Context, id string) (*models.RecurringPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	p, ok := byID[id]
	if !ok {
		return nil, recurerror.ErrNotFound
	}
	return &p, nil
}

// Save stores a new payment.
func (s *FilePaymentStore) Save(ctx context.Context, payment *models.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return err
	}
	byID[payment.ID] = clonePayment(*payment)
	return s.saveAll(byID)
}

// Update replaces an existing payment.
func (s *FilePaymentStore) Update(ctx context.Context, payment *models.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return err
	}
	if _, ok := byID[payment.ID]; !ok {
		return recurerror.ErrNotFound
	}
	byID[payment.ID] = clonePayment(*payment)
	return s.saveAll(byID)
}

// Deactivate clears the active flag, keeping the record.
func (s *FilePaymentStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.loadAll()
	if err != nil {
		return err
	}
	p, ok := byID[id]
	if !ok {
		return recurerror.ErrNotFound
	}
	p.IsActive = false
	byID[id] = p
	return s.saveAll(byID)
}

func (s *FilePaymentStore) loadAll() (map[string]models.RecurringPayment, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// A store that has never been written to is empty, not broken
		if os.IsNotExist(err) {
			return map[string]models.RecurringPayment{}, nil
		}
		return nil, fmt.Errorf("error reading payments file: %w", err)
	}

	var records []paymentRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing payments file: %w", err)
	}

	byID := make(map[string]models.RecurringPayment, len(records))
	for _, r := range records {
		p := fromRecord(r)
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *FilePaymentStore) saveAll(byID map[string]models.RecurringPayment) error {
	payments := make([]models.RecurringPayment, 0, len(byID))
	for _, p := range byID {
		payments = append(payments, p)
	}
	sortPayments(payments)

	records := make([]paymentRecord, 0, len(payments))
	for _, p := range payments {
		records = append(records, toRecord(p))
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("error marshaling payments: %w", err)
	}

	if err := fileutils.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("error writing payments file: %w", err)
	}
	return nil
}

func toRecord(p models.RecurringPayment) paymentRecord {
	return paymentRecord{
		ID:              p.ID,
		UserID:          p.UserID,
		AccountID:       p.AccountID,
		MerchantPattern: p.MerchantPattern,
		DisplayName:     p.DisplayName,
		Amount:          p.Amount.StringFixed(2),
		Frequency:       string(p.Frequency),
		Status:          string(p.Status),
		NextDueDate:     p.NextDueDate,
		LastPaidDate:    p.LastPaidDate,
		Confidence:      p.Confidence,
		Risk:            p.Risk,
		Occurrences:     p.Occurrences,
		FirstSeen:       p.FirstSeen,
		LastSeen:        p.LastSeen,
		CategoryID:      p.CategoryID,
		ReminderDays:    p.ReminderDays,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func fromRecord(r paymentRecord) models.RecurringPayment {
	return models.RecurringPayment{
		ID:              r.ID,
		UserID:          r.UserID,
		AccountID:       r.AccountID,
		MerchantPattern: r.MerchantPattern,
		DisplayName:     r.DisplayName,
		Amount:          models.ParseAmount(r.Amount),
		Frequency:       models.Frequency(r.Frequency),
		Status:          models.PaymentStatus(r.Status),
		NextDueDate:     r.NextDueDate,
		LastPaidDate:    r.LastPaidDate,
		Confidence:      r.Confidence,
		Risk:            r.Risk,
		Occurrences:     r.Occurrences,
		FirstSeen:       r.FirstSeen,
		LastSeen:        r.LastSeen,
		CategoryID:      r.CategoryID,
		ReminderDays:    r.ReminderDays,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
