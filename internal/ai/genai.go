package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

const (
	generateInstruction = "You write PowerShell scripts for installing, launching and removing Windows applications. " +
		"Reply with the script only, without explanations or Markdown."
	suggestInstruction = "You review PowerShell scripts for installing, launching and removing Windows applications. " +
		"Reply with the complete improved script only, without explanations or Markdown."
)

// GenAIGenerator calls Gemini through the genai SDK
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini-backed generator
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "GEMINI_API_KEY is required for the genai generator")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// Generate implements Generator
func (g *GenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	text, err := g.complete(ctx, "generate", generateInstruction, req.Description)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{Script: text}, nil
}

// Suggest implements Generator
func (g *GenAIGenerator) Suggest(ctx context.Context, req SuggestRequest) (SuggestResponse, error) {
	prompt := fmt.Sprintf("Objective: %s\n\nCurrent script:\n%s", req.Objective, req.Context)
	text, err := g.complete(ctx, "suggest", suggestInstruction, prompt)
	if err != nil {
		return SuggestResponse{}, err
	}
	return SuggestResponse{Suggestion: text}, nil
}

func (g *GenAIGenerator) complete(ctx context.Context, op, instruction, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	})
	if err != nil {
		return "", transportError(ctx, op, err)
	}
	return stripFences(resp.Text()), nil
}
