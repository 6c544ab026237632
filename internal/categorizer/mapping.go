package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// MappingStrategy categorizes merchants through the user's explicit
// merchant-to-category mappings. Keys are matched case-insensitively.
type MappingStrategy struct {
	mappings map[string]string
	resolve  func(string) models.Category
	logger   logging.Logger
	mu       sync.RWMutex
	dirty    bool
}

// NewMappingStrategy creates a mapping strategy over the given mappings.
// resolve turns a mapped value into a full category record.
func NewMappingStrategy(mappings map[string]string, resolve func(string) models.Category, logger logging.Logger) *MappingStrategy {
	normalized := make(map[string]string, len(mappings))
	for key, value := range mappings {
		normalized[strings.ToLower(key)] = value
	}
	return &MappingStrategy{
		mappings: normalized,
		resolve:  resolve,
		logger:   logger,
	}
}

// Name identifies the strategy in logs.
func (s *MappingStrategy) Name() string {
	return "mapping"
}

// Categorize looks the merchant pattern up in the mapping table.
func (s *MappingStrategy) Categorize(ctx context.Context, merchantPattern string) (models.Category, bool, error) {
	key := strings.ToLower(strings.TrimSpace(merchantPattern))
	if key == "" {
		return models.Category{}, false, nil
	}

	s.mu.RLock()
	value, found := s.mappings[key]
	s.mu.RUnlock()

	if !found {
		return models.Category{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
		logging.Field{Key: logging.FieldCategory, Value: value},
	).Debug("Merchant categorized by user mapping")
	return s.resolve(value), true, nil
}

// Update adds or replaces a mapping and marks the table dirty.
func (s *MappingStrategy) Update(merchantPattern, categoryName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[strings.ToLower(merchantPattern)] = categoryName
	s.dirty = true
}

// Snapshot returns a copy of the mappings and whether they changed since
// the last successful save. The dirty flag stays set until ClearDirty.
func (s *MappingStrategy) Snapshot() (map[string]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.dirty {
		return nil, false
	}
	out := make(map[string]string, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v
	}
	return out, true
}

// ClearDirty marks the table as persisted.
func (s *MappingStrategy) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}
