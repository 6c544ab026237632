package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_RecordsEntries(t *testing.T) {
	mock := &MockLogger{}

	mock.Info("detected candidates", Field{Key: FieldCount, Value: 2})
	mock.Warn("skipping group", Field{Key: FieldReason, Value: "too few occurrences"})

	require.Len(t, mock.Entries, 2)
	assert.Equal(t, "INFO", mock.Entries[0].Level)
	assert.Equal(t, "detected candidates", mock.Entries[0].Message)
	assert.True(t, mock.HasEntry("WARN", "skipping group"))
}

func TestMockLogger_DerivedLoggersRecordToRoot(t *testing.T) {
	mock := &MockLogger{}
	testErr := errors.New("send failed")

	derived := mock.WithField(FieldUser, "user-1").WithError(testErr)
	derived.Error("notification failed")

	require.Len(t, mock.GetEntries(), 1)
	entry := mock.GetEntries()[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, testErr, entry.Error)
	require.Len(t, entry.Fields, 1)
	assert.Equal(t, FieldUser, entry.Fields[0].Key)
}

func TestMockLogger_GetEntriesByLevel(t *testing.T) {
	mock := &MockLogger{}
	mock.Info("one")
	mock.Error("two")
	mock.Error("three")

	assert.Len(t, mock.GetEntriesByLevel("ERROR"), 2)
	assert.Len(t, mock.GetEntriesByLevel("INFO"), 1)
	assert.Empty(t, mock.GetEntriesByLevel("FATAL"))
}

func TestMockLogger_Clear(t *testing.T) {
	mock := &MockLogger{}
	mock.Info("one")
	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}
