package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
)

// extraction is the response schema. Absent values are "" or 0 rather than
// null so the schema stays valid under strict mode.
type extraction struct {
	Brand      string  `json:"brand" description:"Brand from the known list, or empty"`
	Category   string  `json:"category" description:"Category from the known list, or empty"`
	Color      string  `json:"color" description:"Dominant color, or empty"`
	MinPrice   float64 `json:"min_price" description:"Lower price bound, 0 when absent"`
	MaxPrice   float64 `json:"max_price" description:"Upper price bound, 0 when absent"`
	StyleQuery string  `json:"style_query" description:"Descriptive words only"`
	CleanQuery string  `json:"clean_query" description:"Query without price phrases"`
	Confidence float64 `json:"confidence" description:"0 to 1"`
}

// Extractor reads query intent via an OpenAI-compatible chat completion
// constrained to a JSON schema.
type Extractor struct {
	client   *openai.Client
	model    string
	provider string
	schema   *jsonschema.Definition
	logger   *zap.Logger
}

var _ intent.Extractor = (*Extractor)(nil)

// ExtractorConfig holds the chat provider settings.
type ExtractorConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewExtractor creates a chat-completion intent extractor.
func NewExtractor(cfg *ExtractorConfig) (*Extractor, error) {
	schema, err := jsonschema.GenerateSchemaForType(extraction{})
	if err != nil {
		return nil, fmt.Errorf("generate extraction schema: %w", err)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Extractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		schema:   schema,
		logger:   cfg.Logger,
	}, nil
}

// Extract implements intent.Extractor. Errors wrap domain.ErrFilterExtraction.
func (e *Extractor) Extract(ctx context.Context, text string, vocab catalog.Vocabulary) (intent.Intent, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(vocab)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "query_filters",
				Schema: e.schema,
				Strict: true,
			},
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return intent.Intent{}, fmt.Errorf("chat completion: %w: %w", err, domain.ErrFilterExtraction)
	}
	if len(resp.Choices) == 0 {
		return intent.Intent{}, fmt.Errorf("empty chat response: %w", domain.ErrFilterExtraction)
	}

	content := resp.Choices[0].Message.Content
	var out extraction
	if err := e.schema.Unmarshal(content, &out); err != nil {
		return intent.Intent{}, fmt.Errorf("parse extraction: %w: %w", err, domain.ErrFilterExtraction)
	}

	e.logger.Debug("Filter extraction completed",
		zap.String("provider", e.provider),
		zap.String("model", e.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return out.toIntent(), nil
}

func (x extraction) toIntent() intent.Intent {
	in := intent.Intent{
		Brand:      strings.TrimSpace(x.Brand),
		Category:   strings.TrimSpace(x.Category),
		Color:      strings.TrimSpace(x.Color),
		StyleQuery: strings.TrimSpace(x.StyleQuery),
		CleanQuery: strings.TrimSpace(x.CleanQuery),
		Confidence: x.Confidence,
	}
	if x.MinPrice > 0 {
		v := x.MinPrice
		in.MinPrice = &v
	}
	if x.MaxPrice > 0 {
		v := x.MaxPrice
		in.MaxPrice = &v
	}
	return in
}
