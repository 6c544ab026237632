package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount NUMERIC(20,2) NOT NULL,
	occurred_on DATE NOT NULL,
	category_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions (user_id, occurred_on);

CREATE TABLE IF NOT EXISTS recurring_payments (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	merchant_pattern TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	amount NUMERIC(20,2) NOT NULL,
	frequency TEXT NOT NULL,
	status TEXT NOT NULL,
	next_due_date TIMESTAMPTZ NOT NULL,
	last_paid_date TIMESTAMPTZ,
	confidence DOUBLE PRECISION NOT NULL,
	risk DOUBLE PRECISION NOT NULL,
	occurrences INTEGER NOT NULL,
	first_seen TIMESTAMPTZ NOT NULL,
	last_seen TIMESTAMPTZ NOT NULL,
	category_id TEXT NOT NULL DEFAULT '',
	reminder_days INTEGER[] NOT NULL DEFAULT '{}',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recurring_payments_user ON recurring_payments (user_id, is_active);
`

const paymentColumns = `id, user_id, account_id, merchant_pattern, display_name, amount,
	frequency, status, next_due_date, last_paid_date, confidence, risk, occurrences,
	first_seen, last_seen, category_id, reminder_days, is_active, created_at, updated_at`

// PostgresStore implements both store interfaces on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database at dsn and verifies the
// connection before returning.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// TransactionsByUser returns the user's transactions ordered by date then ID.
func (s *PostgresStore) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, description, amount, occurred_on, category_id
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_on, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Description, &tx.Amount, &tx.Date, &tx.CategoryID); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}
	return txs, nil
}

// SaveTransactions inserts the given transactions, ignoring IDs already
// stored so a repeated import stays idempotent.
func (s *PostgresStore) SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	for _, tx := range txs {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO transactions (id, user_id, account_id, description, amount, occurred_on, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			tx.ID, userID, tx.AccountID, tx.Description, tx.Amount, tx.Date, tx.CategoryID)
		if err != nil {
			return fmt.Errorf("error inserting transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

// ActiveByUser returns the user's active payments ordered by account then
// merchant pattern.
func (s *PostgresStore) ActiveByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM recurring_payments
		WHERE user_id = $1 AND is_active
		ORDER BY account_id, merchant_pattern, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	var out []models.RecurringPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading payments: %w", err)
	}
	return out, nil
}

// ByUser returns every payment for the user, active or not, ordered by
// account then merchant pattern.
func (s *PostgresStore) ByUser(ctx context.Context, userID string) ([]models.RecurringPayment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM recurring_payments
		WHERE user_id = $1
		ORDER BY account_id, merchant_pattern, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	var out []models.RecurringPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading payments: %w", err)
	}
	return out, nil
}

// Users returns the IDs of users holding at least one active payment,
// sorted.
func (s *PostgresStore) Users(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT user_id
		FROM recurring_payments
		WHERE is_active
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		out = append(out, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading users: %w", err)
	}
	return out, nil
}

// ByID returns the payment with the given ID, active or not.
func (s *PostgresStore) ByID(ctx context.Context, id string) (*models.RecurringPayment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM recurring_payments
		WHERE id = $1`, id)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recurerror.ErrNotFound
		}
		return nil, fmt.Errorf("error querying payment %s: %w", id, err)
	}
	return p, nil
}

// Save stores a new payment.
func (s *PostgresStore) Save(ctx context.Context, payment *models.RecurringPayment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO recurring_payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		payment.ID, payment.UserID, payment.AccountID, payment.MerchantPattern, payment.DisplayName,
		payment.Amount, string(payment.Frequency), string(payment.Status), payment.NextDueDate,
		nullableTime(payment.LastPaidDate), payment.Confidence, payment.Risk, payment.Occurrences,
		payment.FirstSeen, payment.LastSeen, payment.CategoryID, reminderDaysValue(payment.ReminderDays),
		payment.IsActive, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment %s: %w", payment.ID, err)
	}
	return nil
}

// Update replaces an existing payment.
func (s *PostgresStore) Update(ctx context.Context, payment *models.RecurringPayment) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE recurring_payments
		SET merchant_pattern = $2, display_name = $3, amount = $4, frequency = $5,
			status = $6, next_due_date = $7, last_paid_date = $8, confidence = $9,
			risk = $10, occurrences = $11, first_seen = $12, last_seen = $13,
			category_id = $14, reminder_days = $15, is_active = $16, updated_at = $17
		WHERE id = $1`,
		payment.ID, payment.MerchantPattern, payment.DisplayName, payment.Amount,
		string(payment.Frequency), string(payment.Status), payment.NextDueDate,
		nullableTime(payment.LastPaidDate), payment.Confidence, payment.Risk,
		payment.Occurrences, payment.FirstSeen, payment.LastSeen, payment.CategoryID,
		reminderDaysValue(payment.ReminderDays), payment.IsActive, payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating payment %s: %w", payment.ID, err)
	}
	if result.RowsAffected() == 0 {
		return recurerror.ErrNotFound
	}
	return nil
}

// Deactivate clears the active flag, keeping the record.
func (s *PostgresStore) Deactivate(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE recurring_payments
		SET is_active = FALSE
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating payment %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return recurerror.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*models.RecurringPayment, error) {
	var (
		p         models.RecurringPayment
		frequency string
		status    string
		lastPaid  *time.Time
	)
	err := row.Scan(&p.ID, &p.UserID, &p.AccountID, &p.MerchantPattern, &p.DisplayName,
		&p.Amount, &frequency, &status, &p.NextDueDate, &lastPaid,
		&p.Confidence, &p.Risk, &p.Occurrences, &p.FirstSeen, &p.LastSeen,
		&p.CategoryID, &p.ReminderDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Frequency = models.Frequency(frequency)
	p.Status = models.PaymentStatus(status)
	if lastPaid != nil {
		p.LastPaidDate = *lastPaid
	}
	return &p, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// reminderDaysValue keeps the column non-null when no reminders are set.
func reminderDaysValue(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}
