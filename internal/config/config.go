// Package config loads the application configuration from defaults, an
// optional YAML file, and environment variables, in that order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"fjacquet/recurpay/internal/logging"
)

var once sync.Once

// LoadEnv loads variables from a .env file next to the working directory
// or one level up. It runs at most once per process; a missing file is
// not an error.
func LoadEnv() {
	once.Do(func() {
		log := logging.GetLogger()

		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				log.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			log.WithError(err).Warn("Failed to load .env file")
			return
		}
		log.WithField(logging.FieldFile, envFile).Debug("Loaded environment variables")
	})
}

// GetEnv retrieves an environment variable with a fallback value.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
