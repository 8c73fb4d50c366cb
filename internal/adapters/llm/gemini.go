package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// ErrGenerationFailed is the opaque error surfaced for any generation failure.
var ErrGenerationFailed = errors.New("failed to generate AI response")

const DefaultModel = "gemini-2.0-flash"

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// GeminiOptions configures NewGeminiClient. BaseURL overrides the API
// endpoint, e.g. for a local stand-in.
type GeminiOptions struct {
	APIKey    string
	ModelName string
	BaseURL   string
}

// NewGeminiClient creates an LLMClient backed by the Gemini API.
// A missing API key is fatal for this collaborator.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", domain.ErrNotConfigured)
	}
	if opts.ModelName == "" {
		opts.ModelName = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: opts.ModelName,
	}, nil
}

// GenerateReply implements domain.LLMClient.
func (g *GeminiClient) GenerateReply(ctx context.Context, req domain.GenerationRequest) (string, error) {
	prompt := BuildPrompt(req)

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(8192),
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %v", ErrGenerationFailed, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", ErrGenerationFailed)
	}

	return text, nil
}
