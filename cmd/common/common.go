// Package common contains shared functionality for command handlers
package common

import (
	"os"
	"time"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/fileutils"
	"fjacquet/recurpay/internal/logging"
)

// WriteOutput writes rendered report data to path, or to stdout when
// path is empty. File writes are logged, stdout writes are not.
func WriteOutput(data []byte, path string, log logging.Logger) error {
	if path == "" {
		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := fileutils.WriteFile(path, data, 0644); err != nil {
		return err
	}
	log.WithField(logging.FieldFile, path).Info("Output written")
	return nil
}

// RequireUser returns userID, failing the command when the shared --user
// flag was not provided.
func RequireUser(userID string, log logging.Logger) string {
	if userID == "" {
		log.Fatal("--user is required")
	}
	return userID
}

// ParseAt resolves the reference time for commands taking an --at date.
// An empty value means now; anything else must be an ISO date.
func ParseAt(value string, now time.Time, log logging.Logger) time.Time {
	if value == "" {
		return now
	}
	at, err := dateutils.ParseDate(value)
	if err != nil {
		log.WithError(err).Fatal("Invalid --at, expected YYYY-MM-DD")
	}
	return at
}
