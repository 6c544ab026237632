package categorizer

import "context"

// MockAIClient is a mock implementation of AIClient for testing.
type MockAIClient struct {
	Suggestion string
	Err        error

	// Calls records every merchant pattern passed in.
	Calls []string
}

// SuggestCategory returns the configured suggestion or error.
func (m *MockAIClient) SuggestCategory(ctx context.Context, merchantPattern string, categories []string) (string, error) {
	m.Calls = append(m.Calls, merchantPattern)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Suggestion, nil
}
