package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/recurpay/internal/fileutils"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"

	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// RefDataStore manages loading and saving of category reference data and
// the user's merchant-to-category mappings.
type RefDataStore struct {
	CategoriesFile string
	MerchantsFile  string
}

// NewRefDataStore creates a store for category reference data.
func NewRefDataStore(categoriesFile, merchantsFile string) *RefDataStore {
	return &RefDataStore{
		CategoriesFile: categoriesFile,
		MerchantsFile:  merchantsFile,
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RefDataStore) FindConfigFile(filename string) (string, error) {
	// Check if it's an absolute path
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	// Common locations to check for config files
	locations := []string{
		filename,                          // Current directory
		filepath.Join("config", filename), // ./config/ directory
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .config/recurpay/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "recurpay", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads categories from the YAML file. Keywords are
// lowercased so matching stays case-insensitive. A missing file yields an
// empty slice, not an error.
func (s *RefDataStore) LoadCategories() ([]models.Category, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField(logging.FieldFile, filename).Warn("Categories file not found")
			return []models.Category{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	// Preferred structure is "categories: [...]"
	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		log.WithField(logging.FieldCount, len(cfg.Categories)).Debug("Loaded categories")
		return lowercaseKeywords(cfg.Categories), nil
	}

	// Fallback: a bare array without the top-level key
	var categories []models.Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	log.WithField(logging.FieldCount, len(categories)).Debug("Loaded categories from bare array")
	return lowercaseKeywords(categories), nil
}

// LoadMerchantMappings loads merchant-to-category mappings from YAML.
// A missing file yields an empty map, not an error.
func (s *RefDataStore) LoadMerchantMappings() (map[string]string, error) {
	filename := s.MerchantsFile
	if filename == "" {
		filename = "merchants.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField(logging.FieldFile, filename).Warn("Merchant mappings file not found")
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error resolving merchant mappings file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading merchant mappings file: %w", err)
	}

	var mappings map[string]string
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing merchant mappings: %w", err)
	}

	log.WithField(logging.FieldCount, len(mappings)).Debug("Loaded merchant mappings")
	return mappings, nil
}

// SaveMerchantMappings saves merchant-to-category mappings to YAML,
// creating the config directory if needed.
func (s *RefDataStore) SaveMerchantMappings(mappings map[string]string) error {
	filename := s.MerchantsFile
	if filename == "" {
		filename = "merchants.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil && err != os.ErrNotExist {
		return fmt.Errorf("error resolving merchant mappings file: %w", err)
	}

	// If file not found, write to the config directory by default
	if err == os.ErrNotExist {
		if filepath.IsAbs(filename) {
			filePath = filename
		} else {
			filePath = filepath.Join("config", filename)
		}
	}

	data, err := yaml.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("error marshaling merchant mappings: %w", err)
	}

	if err := fileutils.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing merchant mappings: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(mappings)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Saved merchant mappings")
	return nil
}

func lowercaseKeywords(categories []models.Category) []models.Category {
	for i := range categories {
		for j, kw := range categories[i].Keywords {
			categories[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return categories
}
