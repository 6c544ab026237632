// Package categorizer assigns categories to merchant patterns using a
// chain of strategies:
// 1. Direct merchant-to-category mapping from the user's YAML database
// 2. Keyword rules from the categories file
// 3. AI suggestion through the Gemini API as a fallback
package categorizer

import (
	"context"
	"strings"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// RefData is the reference-data access the categorizer needs.
type RefData interface {
	LoadCategories() ([]models.Category, error)
	LoadMerchantMappings() (map[string]string, error)
	SaveMerchantMappings(mappings map[string]string) error
}

// Categorizer runs the strategy chain and learns AI results back into the
// user's merchant mappings so repeated merchants stay off the network.
type Categorizer struct {
	refData    RefData
	categories []models.Category
	mapping    *MappingStrategy
	strategies []Strategy
	logger     logging.Logger
}

// NewCategorizer loads reference data and builds the strategy chain.
// aiClient may be nil, which disables the AI fallback.
func NewCategorizer(refData RefData, aiClient AIClient, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	c := &Categorizer{
		refData: refData,
		logger:  logger,
	}

	categories, err := refData.LoadCategories()
	if err != nil {
		logger.WithError(err).Warn("Failed to load categories")
	}
	c.categories = categories

	mappings, err := refData.LoadMerchantMappings()
	if err != nil {
		logger.WithError(err).Warn("Failed to load merchant mappings")
		mappings = map[string]string{}
	}

	c.mapping = NewMappingStrategy(mappings, c.resolveCategory, logger)
	c.strategies = []Strategy{
		c.mapping,
		NewKeywordStrategy(c.categories, logger),
	}
	if aiClient != nil {
		c.strategies = append(c.strategies, NewAIStrategy(aiClient, c.categoryNames(), c.resolveCategory, logger))
	}
	return c
}

// CategorizeMerchant runs the chain for one merchant pattern. Strategy
// failures are logged and skipped, so the result always carries a
// category, falling back to Uncategorized.
func (c *Categorizer) CategorizeMerchant(ctx context.Context, merchantPattern string) (models.Category, error) {
	if strings.TrimSpace(merchantPattern) == "" {
		return models.UncategorizedCategory(), nil
	}

	for _, strategy := range c.strategies {
		category, found, err := strategy.Categorize(ctx, merchantPattern)
		if err != nil {
			c.logger.WithError(err).WithFields(
				logging.Field{Key: "strategy", Value: strategy.Name()},
				logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
			).Warn("Categorization strategy failed")
			continue
		}
		if !found {
			continue
		}
		if strategy.Name() == "ai" {
			c.learn(merchantPattern, category.Name)
		}
		return category, nil
	}

	return models.UncategorizedCategory(), nil
}

// learn records an AI result as a user mapping and persists it so the
// next run answers from the mapping table.
func (c *Categorizer) learn(merchantPattern, categoryName string) {
	c.mapping.Update(merchantPattern, categoryName)
	if err := c.SaveMappings(); err != nil {
		c.logger.WithError(err).WithField(logging.FieldMerchant, merchantPattern).Warn("Failed to save merchant mapping")
	}
}

// SetMerchantCategory records a manual mapping. Call SaveMappings to
// write the table out.
func (c *Categorizer) SetMerchantCategory(merchantPattern, categoryName string) {
	c.mapping.Update(merchantPattern, categoryName)
}

// SaveMappings writes the mapping table if it changed since the last save.
func (c *Categorizer) SaveMappings() error {
	mappings, changed := c.mapping.Snapshot()
	if !changed {
		return nil
	}
	if err := c.refData.SaveMerchantMappings(mappings); err != nil {
		return err
	}
	c.mapping.ClearDirty()
	return nil
}

// Categories returns the loaded category records.
func (c *Categorizer) Categories() []models.Category {
	return c.categories
}

func (c *Categorizer) categoryNames() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// resolveCategory maps a stored or suggested value onto a known category,
// matching by ID first and name second. Unknown values become ad-hoc
// categories so user-defined names survive.
func (c *Categorizer) resolveCategory(value string) models.Category {
	for _, cat := range c.categories {
		if cat.ID == value || strings.EqualFold(cat.Name, value) {
			return cat
		}
	}
	return models.Category{ID: strings.ToLower(strings.TrimSpace(value)), Name: value}
}
