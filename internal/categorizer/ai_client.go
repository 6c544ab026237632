package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/recurpay/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AIClient is the seam for AI-backed category suggestions, so the chain
// can be tested without external API calls.
type AIClient interface {
	// SuggestCategory asks for the best category name for the merchant,
	// chosen from the given category names.
	SuggestCategory(ctx context.Context, merchantPattern string, categories []string) (string, error)
}

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient connects to the Gemini API. The API key must be set.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// SuggestCategory asks Gemini to place a merchant into one of the given
// categories and parses the structured reply.
func (g *GeminiClient) SuggestCategory(ctx context.Context, merchantPattern string, categories []string) (string, error) {
	prompt := fmt.Sprintf(`Categorize the following recurring payment merchant:
Merchant: %s

Please assign this merchant to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`,
		merchantPattern,
		strings.Join(categories, ", "))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	name := extractCategoryFromResponse(responseText, categories)

	g.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
		logging.Field{Key: logging.FieldCategory, Value: name},
	).Debug("Gemini suggested category")
	return name, nil
}

// extractCategoryFromResponse parses the "Category:" line of the reply.
// An unstructured reply is scanned for any known category name.
func extractCategoryFromResponse(response string, categories []string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		}
	}
	for _, c := range categories {
		if strings.Contains(response, c) {
			return c
		}
	}
	return ""
}
