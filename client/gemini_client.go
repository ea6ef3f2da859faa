package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when no model credential was configured.
var ErrMissingAPIKey = errors.New("gemini API key is not configured")

// GeminiClient wraps the hosted model used for statement analysis. The
// credential is injected at construction; nothing is written to the process
// environment.
type GeminiClient struct {
	apiKey string
	model  string
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

// AnalyzeChunk sends one analysis prompt to the model and returns the raw
// reply text.
func (gc *GeminiClient) AnalyzeChunk(ctx context.Context, prompt string) (string, error) {
	if gc.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  gc.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		// Deterministic extraction, not creative writing.
		Temperature: genai.Ptr(float32(0)),
	}

	resp, err := cl.Models.GenerateContent(ctx, gc.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
