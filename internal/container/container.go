// Package container provides dependency injection for the recurpay
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/recurpay/internal/categorizer"
	"fjacquet/recurpay/internal/config"
	"fjacquet/recurpay/internal/detector"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/monitor"
	"fjacquet/recurpay/internal/notify"
	"fjacquet/recurpay/internal/report"
	"fjacquet/recurpay/internal/store"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation: fields are private and
// only reachable through getters, so nothing can be rewired after
// initialization.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	stores      *store.Stores
	refData     *store.RefDataStore
	aiClient    categorizer.AIClient
	geminiClose func() error
	categorizer *categorizer.Categorizer
	detector    *detector.Service
	dispatcher  *notify.Dispatcher
	monitor     *monitor.Monitor
	reports     *report.Generator
}

// NewContainer creates and wires all application dependencies. This is
// the main entry point for dependency injection in the application. The
// context is used for backends that connect on open, such as Postgres
// and the Gemini client.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Logger first, every other component needs it.
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	driver, err := store.ParseDriver(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	stores, err := store.Open(ctx, store.Options{
		Driver:  driver,
		DSN:     cfg.Database.DSN,
		DataDir: cfg.Database.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}

	refData := store.NewRefDataStore(cfg.Categories.CategoriesFile, cfg.Categories.MerchantsFile)

	var aiClient categorizer.AIClient
	var geminiClose func() error
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		aiClient = gemini
		geminiClose = gemini.Close
		logger.Info("AI categorization enabled")
	} else {
		logger.Info("AI categorization disabled")
	}

	cat := categorizer.NewCategorizer(refData, aiClient, logger)

	det := detector.NewService(stores.Transactions, stores.Payments, cat, detectorConfig(cfg.Detection), logger)

	dispatcher := notify.NewDispatcher(notify.NewLogSender(logger), logger)
	if cfg.Monitor.BatchWorkers > 0 {
		dispatcher.SetWorkerCount(cfg.Monitor.BatchWorkers)
	}
	mon := monitor.NewMonitor(stores.Payments, dispatcher, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "store_driver", Value: string(driver)},
		logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled})

	return &Container{
		logger:      logger,
		config:      cfg,
		stores:      stores,
		refData:     refData,
		aiClient:    aiClient,
		geminiClose: geminiClose,
		categorizer: cat,
		detector:    det,
		dispatcher:  dispatcher,
		monitor:     mon,
		reports:     report.NewGenerator(logger),
	}, nil
}

// detectorConfig maps the configured detection thresholds onto the
// detector's config type.
func detectorConfig(d config.DetectionConfig) detector.Config {
	return detector.Config{
		MinOccurrences:       d.MinOccurrences,
		LookbackMonths:       d.LookbackMonths,
		TolerancePercent:     decimal.NewFromFloat(d.TolerancePercent),
		ConfidenceThreshold:  d.ConfidenceThreshold,
		DateVarianceDays:     d.DateVarianceDays,
		AutoConfirmThreshold: d.AutoConfirmThreshold,
		AutoConfirmMaxRisk:   d.AutoConfirmMaxRisk,
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTransactionStore returns the transaction store.
func (c *Container) GetTransactionStore() store.TransactionStore {
	return c.stores.Transactions
}

// GetPaymentStore returns the recurring-payment store.
func (c *Container) GetPaymentStore() store.RecurringPaymentStore {
	return c.stores.Payments
}

// GetRefDataStore returns the category reference-data store.
func (c *Container) GetRefDataStore() *store.RefDataStore {
	return c.refData
}

// GetAIClient returns the AI client, nil when AI is not enabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDetector returns the recurring-payment detection service.
func (c *Container) GetDetector() *detector.Service {
	return c.detector
}

// GetDispatcher returns the alert dispatcher.
func (c *Container) GetDispatcher() *notify.Dispatcher {
	return c.dispatcher
}

// GetMonitor returns the payment monitor.
func (c *Container) GetMonitor() *monitor.Monitor {
	return c.monitor
}

// GetReportGenerator returns the summary report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close releases container resources: the Gemini client connection and
// any store connection pools.
func (c *Container) Close() error {
	var err error
	if c.geminiClose != nil {
		err = c.geminiClose()
	}
	if c.stores != nil {
		c.stores.Close()
	}
	c.logger.Info("Container closed")
	return err
}
