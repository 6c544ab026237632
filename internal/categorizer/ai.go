package categorizer

import (
	"context"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// AIStrategy asks an AI client for a category suggestion. It runs last in
// the chain because it is the only strategy with network cost.
type AIStrategy struct {
	client        AIClient
	categoryNames []string
	resolve       func(string) models.Category
	logger        logging.Logger
}

// NewAIStrategy creates an AI strategy over the given client.
func NewAIStrategy(client AIClient, categoryNames []string, resolve func(string) models.Category, logger logging.Logger) *AIStrategy {
	return &AIStrategy{
		client:        client,
		categoryNames: categoryNames,
		resolve:       resolve,
		logger:        logger,
	}
}

// Name identifies the strategy in logs.
func (s *AIStrategy) Name() string {
	return "ai"
}

// Categorize asks the AI client for a suggestion. An empty suggestion
// means the model gave no usable answer and counts as a miss.
func (s *AIStrategy) Categorize(ctx context.Context, merchantPattern string) (models.Category, bool, error) {
	if s.client == nil || merchantPattern == "" {
		return models.Category{}, false, nil
	}

	name, err := s.client.SuggestCategory(ctx, merchantPattern, s.categoryNames)
	if err != nil {
		return models.Category{}, false, err
	}
	if name == "" || name == models.CategoryUncategorized {
		return models.Category{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
		logging.Field{Key: logging.FieldCategory, Value: name},
	).Debug("Merchant categorized by AI suggestion")
	return s.resolve(name), true, nil
}
