package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

func TestKeywordStrategyCategorize(t *testing.T) {
	strategy := NewKeywordStrategy(testCategories(), &logging.MockLogger{})

	tests := []struct {
		name            string
		merchantPattern string
		wantCategory    string
		wantFound       bool
	}{
		{
			name:            "keyword inside domain",
			merchantPattern: "netflix.com",
			wantCategory:    "Streaming",
			wantFound:       true,
		},
		{
			name:            "case insensitive match",
			merchantPattern: "SPOTIFY AB",
			wantCategory:    "Streaming",
			wantFound:       true,
		},
		{
			name:            "second category",
			merchantPattern: "axa versicherung",
			wantCategory:    "Insurance",
			wantFound:       true,
		},
		{
			name:            "no keyword matches",
			merchantPattern: "corner bakery",
			wantFound:       false,
		},
		{
			name:            "empty pattern",
			merchantPattern: "",
			wantFound:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, found, err := strategy.Categorize(context.Background(), tt.merchantPattern)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantCategory, category.Name)
			}
		})
	}
}

func TestKeywordStrategyFirstCategoryWins(t *testing.T) {
	categories := []models.Category{
		{ID: "subscriptions", Name: "Subscriptions", Keywords: []string{"netflix"}},
		{ID: "streaming", Name: "Streaming", Keywords: []string{"netflix"}},
	}
	strategy := NewKeywordStrategy(categories, &logging.MockLogger{})

	category, found, err := strategy.Categorize(context.Background(), "netflix.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Subscriptions", category.Name)
}

func TestMappingStrategyUpdateMarksDirty(t *testing.T) {
	resolve := func(value string) models.Category {
		return models.Category{ID: value, Name: value}
	}
	strategy := NewMappingStrategy(map[string]string{"Old Gym": "fitness"}, resolve, &logging.MockLogger{})

	// Initial load is clean.
	_, dirty := strategy.Snapshot()
	assert.False(t, dirty)

	strategy.Update("New Gym", "fitness")
	mappings, dirty := strategy.Snapshot()
	require.True(t, dirty)
	assert.Equal(t, "fitness", mappings["new gym"])
	assert.Equal(t, "fitness", mappings["old gym"])

	// Snapshot does not clear the flag, ClearDirty does.
	_, dirty = strategy.Snapshot()
	assert.True(t, dirty)
	strategy.ClearDirty()
	_, dirty = strategy.Snapshot()
	assert.False(t, dirty)
}

func TestExtractCategoryFromResponse(t *testing.T) {
	categories := []string{"Streaming", "Insurance"}

	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "structured reply",
			response: "Category: Streaming",
			want:     "Streaming",
		},
		{
			name:     "structured reply with noise",
			response: "Sure, here is my pick.\nCategory: Insurance\nReason: it is an insurer.",
			want:     "Insurance",
		},
		{
			name:     "unstructured reply scanned for names",
			response: "This looks like a Streaming service to me.",
			want:     "Streaming",
		},
		{
			name:     "no recognizable category",
			response: "I cannot tell.",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCategoryFromResponse(tt.response, categories))
		})
	}
}

func TestAIStrategySkipsWithoutClient(t *testing.T) {
	resolve := func(value string) models.Category {
		return models.Category{ID: value, Name: value}
	}
	strategy := NewAIStrategy(nil, []string{"Streaming"}, resolve, &logging.MockLogger{})

	_, found, err := strategy.Categorize(context.Background(), "netflix.com")
	require.NoError(t, err)
	assert.False(t, found)
}
