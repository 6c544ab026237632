package categorizer

import (
	"context"
	"strings"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// KeywordStrategy matches merchant patterns against category keywords.
// Categories are checked in file order so the user controls precedence.
type KeywordStrategy struct {
	categories []models.Category
	logger     logging.Logger
}

// NewKeywordStrategy creates a keyword strategy over the given categories.
// Keywords are expected in lowercase, as the reference store loads them.
func NewKeywordStrategy(categories []models.Category, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		categories: categories,
		logger:     logger,
	}
}

// Name identifies the strategy in logs.
func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Categorize returns the first category that has a keyword contained in
// the merchant pattern.
func (s *KeywordStrategy) Categorize(ctx context.Context, merchantPattern string) (models.Category, bool, error) {
	pattern := strings.ToLower(merchantPattern)
	if pattern == "" {
		return models.Category{}, false, nil
	}

	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(pattern, keyword) {
				s.logger.WithFields(
					logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
					logging.Field{Key: logging.FieldCategory, Value: category.Name},
					logging.Field{Key: "keyword", Value: keyword},
				).Debug("Merchant categorized by keyword")
				return category, true, nil
			}
		}
	}
	return models.Category{}, false, nil
}
