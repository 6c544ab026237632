package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"fjacquet/recurpay/internal/common"
	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/fileutils"
	"fjacquet/recurpay/internal/models"
)

// transactionRow is the CSV column layout for stored transactions. Dates
// and amounts stay strings in the file; conversion happens on load.
type transactionRow struct {
	ID          string `csv:"Id"`
	AccountID   string `csv:"Account"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	CategoryID  string `csv:"Category"`
}

// CSVTransactionStore keeps one transaction CSV file per user in a
// directory. A missing file reads as an empty history.
type CSVTransactionStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVTransactionStore creates a store rooted at dir.
func NewCSVTransactionStore(dir string) *CSVTransactionStore {
	return &CSVTransactionStore{dir: dir}
}

func (s *CSVTransactionStore) userFile(userID string) string {
	return filepath.Join(s.dir, userID+".csv")
}

// TransactionsByUser reads the user's CSV file, ordered by date then ID.
func (s *CSVTransactionStore) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(userID)
}

// SaveTransactions merges the given transactions into the user's file,
// skipping IDs already stored.
func (s *CSVTransactionStore) SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(userID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(existing))
	for _, tx := range existing {
		seen[tx.ID] = true
	}
	merged := existing
	for _, tx := range txs {
		if tx.ID != "" && seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true
		merged = append(merged, tx)
	}
	sortTransactions(merged)

	return WriteTransactionsCSV(s.userFile(userID), merged)
}

// WriteTransactionsCSV writes transactions to a standalone CSV file in
// the store's column layout, so exported fixtures load back through any
// CSV-backed store.
func WriteTransactionsCSV(path string, txs []models.Transaction) error {
	rows := make([]transactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, transactionRow{
			ID:          tx.ID,
			AccountID:   tx.AccountID,
			Date:        dateutils.ToISODate(tx.Date),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			CategoryID:  tx.CategoryID,
		})
	}
	return common.WriteCSVFile(path, rows)
}

func (s *CSVTransactionStore) load(userID string) ([]models.Transaction, error) {
	path := s.userFile(userID)
	if !fileutils.FileExists(path) {
		return []models.Transaction{}, nil
	}

	rows, err := common.ReadCSVFile[transactionRow](path)
	if err != nil {
		return nil, fmt.Errorf("error reading transactions for user %s: %w", userID, err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		date, err := dateutils.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("error parsing date %q in %s: %w", row.Date, path, err)
		}
		txs = append(txs, models.Transaction{
			ID:          row.ID,
			AccountID:   row.AccountID,
			Description: row.Description,
			Amount:      models.ParseAmount(row.Amount),
			Date:        date,
			CategoryID:  row.CategoryID,
		})
	}
	sortTransactions(txs)
	return txs, nil
}
