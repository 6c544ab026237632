package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	Name   string `csv:"Name"`
	Amount string `csv:"Amount"`
}

func TestWriteAndReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "rows.csv")

	in := []sampleRow{
		{Name: "netflix.com", Amount: "-15.99"},
		{Name: "spotify", Amount: "-9.90"},
	}

	err := WriteCSVFile(path, in)
	require.NoError(t, err)

	out, err := ReadCSVFile[sampleRow](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteCSVFileNilRows(t *testing.T) {
	err := WriteCSVFile[sampleRow](filepath.Join(t.TempDir(), "rows.csv"), nil)
	assert.Error(t, err)
}

func TestWriteCSVFileEmptyRowsWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")

	err := WriteCSVFile(path, []sampleRow{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name")
}

func TestReadCSVFileMissing(t *testing.T) {
	_, err := ReadCSVFile[sampleRow](filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
