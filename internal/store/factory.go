package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Driver selects the persistence backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverCSV      Driver = "csv"
	DriverPostgres Driver = "postgres"
)

// ParseDriver validates a driver name from configuration.
func ParseDriver(s string) (Driver, error) {
	switch Driver(s) {
	case DriverMemory, DriverCSV, DriverPostgres:
		return Driver(s), nil
	default:
		return "", fmt.Errorf("unknown store driver: %s", s)
	}
}

// Options carries the driver-specific settings needed to open stores.
type Options struct {
	Driver  Driver
	DSN     string // postgres connection string
	DataDir string // root directory for csv/yaml files
}

// Stores bundles the opened stores with their shared cleanup.
type Stores struct {
	Transactions TransactionStore
	Payments     RecurringPaymentStore
	closeFn      func()
}

// Close releases underlying resources such as connection pools.
func (s *Stores) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open creates the transaction and payment stores for the configured
// driver. It acts as a factory over the available implementations.
func Open(ctx context.Context, opts Options) (*Stores, error) {
	switch opts.Driver {
	case DriverMemory:
		return &Stores{
			Transactions: NewMemoryTransactionStore(),
			Payments:     NewMemoryPaymentStore(),
		}, nil
	case DriverCSV:
		dir := opts.DataDir
		if dir == "" {
			dir = "data"
		}
		return &Stores{
			Transactions: NewCSVTransactionStore(filepath.Join(dir, "transactions")),
			Payments:     NewFilePaymentStore(filepath.Join(dir, "payments.yaml")),
		}, nil
	case DriverPostgres:
		pg, err := NewPostgresStore(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return &Stores{
			Transactions: pg,
			Payments:     pg,
			closeFn:      pg.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", opts.Driver)
	}
}
