package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	cfg := config.Default().LLM
	cfg.APIKey = " "
	_, err := NewGeminiClient(context.Background(), cfg, infrastructure.NewLogger(&strings.Builder{}, "error"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestGenerateConfig(t *testing.T) {
	gc := generateConfig(config.Default().LLM)

	require.NotNil(t, gc.Temperature)
	assert.InDelta(t, 0.4, *gc.Temperature, 1e-6)
	assert.Equal(t, float32(1), *gc.TopP)
	assert.Equal(t, float32(1), *gc.TopK)
	assert.Equal(t, int32(2048), gc.MaxOutputTokens)

	require.Len(t, gc.SafetySettings, 4)
	for _, s := range gc.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}
}

func TestFilterGenerative(t *testing.T) {
	models := []ModelInfo{
		{Name: "models/gemma-3-4b-it", SupportedActions: []string{"generateContent", "countTokens"}},
		{Name: "models/text-embedding-004", SupportedActions: []string{"embedContent"}},
		{Name: "models/gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", SupportedActions: []string{"generateContent"}},
	}

	got := FilterGenerative(models)
	require.Len(t, got, 2)
	assert.Equal(t, "models/gemma-3-4b-it", got[0].String())
	assert.Equal(t, "models/gemini-2.0-flash (Gemini 2.0 Flash)", got[1].String())

	assert.Empty(t, FilterGenerative(nil))
}

const modelList = `{"models":[
	{"name":"models/gemini-2.0-flash","displayName":"Gemini 2.0 Flash","supportedGenerationMethods":["generateContent","countTokens"]},
	{"name":"models/text-embedding-004","displayName":"Text Embedding 004","supportedGenerationMethods":["embedContent"]}
]}`

func TestListModels(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, modelList)
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/"
	client, err := NewGeminiClient(context.Background(), cfg, infrastructure.NewLogger(&strings.Builder{}, "error"))
	require.NoError(t, err)

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/gemini-2.0-flash", models[0].Name)
	assert.Equal(t, "models/text-embedding-004", models[1].Name)
	assert.Equal(t, []string{"embedContent"}, models[1].SupportedActions)
	assert.False(t, models[1].SupportsGenerate())

	generative := FilterGenerative(models)
	require.Len(t, generative, 1)
	assert.Equal(t, "models/gemini-2.0-flash (Gemini 2.0 Flash)", generative[0].String())

	require.NotEmpty(t, paths)
	assert.True(t, strings.HasSuffix(paths[0], "/models"), paths[0])
}

func TestListModels_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.APIKey = "bad-key"
	cfg.BaseURL = srv.URL + "/"
	client, err := NewGeminiClient(context.Background(), cfg, infrastructure.NewLogger(&strings.Builder{}, "error"))
	require.NoError(t, err)

	_, err = client.ListModels(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalAPI)
}
