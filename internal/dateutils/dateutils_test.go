package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "ISO format",
			input:    "2025-01-15",
			expected: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "European format",
			input:    "15.01.2025",
			expected: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "full timestamp",
			input:    "2025-01-15 10:30:00",
			expected: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "whitespace is cleaned",
			input:    "  2025-01-15  ",
			expected: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestToISODate(t *testing.T) {
	date := time.Date(2025, 3, 7, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-07", ToISODate(date))
}

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected int
	}{
		{"january", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 31},
		{"february non-leap", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 28},
		{"february leap", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), 29},
		{"april", time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EndOfMonth(tt.input).Day())
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month addition",
			input:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 28",
			input:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 29 in leap year",
			input:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "quarterly jump keeps day when possible",
			input:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "may 31 plus one month clamps to jun 30",
			input:    time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "feb 29 plus twelve months clamps to feb 28",
			input:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			months:   12,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "negative months clamp too",
			input:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			months:   -1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year boundary",
			input:    time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.input, tt.months)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestMonthsBack(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	got := MonthsBack(now, 1)
	assert.True(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		a        time.Time
		b        time.Time
		expected int
	}{
		{
			name:     "one month apart",
			a:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
			expected: 31,
		},
		{
			name:     "same day ignores clock time",
			a:        time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "negative when reversed",
			a:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
			expected: -7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestCeilDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      time.Time
		expected int
	}{
		{"exactly one day ahead", now.AddDate(0, 0, 1), 1},
		{"half a day rounds up", now.Add(12 * time.Hour), 1},
		{"due right now", now, 0},
		{"five days past", now.AddDate(0, 0, -5), -5},
		{"partial day past rounds toward zero", now.Add(-108 * time.Hour), -4},
		{"a week ahead", now.AddDate(0, 0, 7), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CeilDaysUntil(now, tt.due))
		})
	}
}
