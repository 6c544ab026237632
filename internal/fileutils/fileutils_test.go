package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recurpay/internal/fileutils"
)

func TestFileExists(t *testing.T) {
	dataDir := t.TempDir()

	payments := filepath.Join(dataDir, "payments.yaml")
	require.NoError(t, os.WriteFile(payments, []byte("payments: []\n"), 0600))

	assert.True(t, fileutils.FileExists(payments))
	assert.False(t, fileutils.FileExists(filepath.Join(dataDir, "missing.yaml")))

	// A directory is not a file.
	assert.False(t, fileutils.FileExists(dataDir))
}

func TestDirectoryExists(t *testing.T) {
	dataDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(dataDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(dataDir, "transactions")))

	payments := filepath.Join(dataDir, "payments.yaml")
	require.NoError(t, os.WriteFile(payments, []byte("payments: []\n"), 0600))
	assert.False(t, fileutils.DirectoryExists(payments))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dataDir := t.TempDir()

	userDir := filepath.Join(dataDir, "transactions", "user-1")
	require.NoError(t, fileutils.EnsureDirectoryExists(userDir))
	assert.True(t, fileutils.DirectoryExists(userDir))

	// Already existing is not an error.
	assert.NoError(t, fileutils.EnsureDirectoryExists(userDir))
}

func TestReadFileRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	path := filepath.Join(dataDir, "merchants.yaml")
	content := []byte("netflix.com: Streaming\n")
	require.NoError(t, fileutils.WriteFile(path, content, 0600))

	data, err := fileutils.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestReadFileMissing(t *testing.T) {
	_, err := fileutils.ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestWriteFileCreatesParents(t *testing.T) {
	dataDir := t.TempDir()

	nested := filepath.Join(dataDir, "transactions", "user-1", "history.csv")
	require.NoError(t, fileutils.WriteFile(nested, []byte("Id,Amount\n"), 0600))
	assert.True(t, fileutils.FileExists(nested))

	require.NoError(t, fileutils.WriteFile(nested, []byte("Id,Amount\ntx-1,-15.99\n"), 0600))
	data, err := os.ReadFile(nested)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tx-1")
}
