package llm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

// generateAction is the supported action of models that can produce text
const generateAction = "generateContent"

// safetyCategories are blocked at medium probability and above
var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// GeminiClient generates text with a Gemini API model
type GeminiClient struct {
	client  *genai.Client
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewGeminiClient creates a client for cfg.Model. It fails with a config
// error when no API key is set.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*GeminiClient, error) {
	if !cfg.HasAPIKey() {
		return nil, apperrors.NewConfigError("GOOGLE_API_KEY is not set", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, apperrors.NewExternalAPIError("failed to create Gemini client", err)
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		config:  generateConfig(cfg),
		timeout: cfg.RequestTimeout,
		logger:  infrastructure.WithComponent(logger, "gemini"),
	}, nil
}

func generateConfig(cfg config.LLMConfig) *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, c := range safetyCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(cfg.TopK),
		MaxOutputTokens: cfg.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

// Model returns the model name used for generation
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn. A response without
// candidate parts yields an empty string.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		c.config,
	)
	if err != nil {
		if IsRateLimited(err) {
			return "", apperrors.NewRateLimitError("Gemini API rate limit", err).WithContext("model", c.model)
		}
		return "", apperrors.NewExternalAPIError("Gemini API call failed", err).WithContext("model", c.model)
	}

	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.logger.WarnContext(ctx, "empty model response", slog.String("task", TaskFrom(ctx)))
		return "", nil
	}
	return resp.Text(), nil
}

// ModelInfo describes one available model
type ModelInfo struct {
	Name             string
	DisplayName      string
	Description      string
	SupportedActions []string
}

// SupportsGenerate reports whether the model can generate content
func (m ModelInfo) SupportsGenerate() bool {
	return slices.Contains(m.SupportedActions, generateAction)
}

// ListModels returns every model available to the API key. Use
// FilterGenerative to keep the ones that can generate text.
func (c *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, apperrors.NewExternalAPIError("failed to list models", err)
		}
		models = append(models, ModelInfo{
			Name:             m.Name,
			DisplayName:      m.DisplayName,
			Description:      m.Description,
			SupportedActions: m.SupportedActions,
		})
	}
	return models, nil
}

// FilterGenerative keeps the models that support content generation
func FilterGenerative(models []ModelInfo) []ModelInfo {
	var out []ModelInfo
	for _, m := range models {
		if m.SupportsGenerate() {
			out = append(out, m)
		}
	}
	return out
}

// String renders a model for listing
func (m ModelInfo) String() string {
	if m.DisplayName == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, strings.TrimSpace(m.DisplayName))
}
