package categorizer

import (
	"context"

	"fjacquet/recurpay/internal/models"
)

// Strategy defines one method of assigning a category to a merchant
// pattern. Strategies are tried in order until one succeeds.
type Strategy interface {
	// Categorize attempts to categorize the merchant pattern. The boolean
	// reports whether this strategy produced a result.
	Categorize(ctx context.Context, merchantPattern string) (models.Category, bool, error)

	// Name identifies the strategy in logs.
	Name() string
}
