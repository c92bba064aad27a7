// Package ai mediates between the script buffers and an external text
// generation service. The service is opaque: it receives a description or
// the current script and returns replacement text.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// GenerateRequest asks for a script written from scratch
type GenerateRequest struct {
	Description string `json:"description"`
}

// GenerateResponse carries a generated script
type GenerateResponse struct {
	Script string `json:"script"`
}

// SuggestRequest asks for a refined version of an existing script
type SuggestRequest struct {
	Context   string `json:"context"`
	Objective string `json:"objective"`
}

// SuggestResponse carries the refined script
type SuggestResponse struct {
	Suggestion string `json:"suggestion"`
}

// Generator is a text generation backend
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Suggest(ctx context.Context, req SuggestRequest) (SuggestResponse, error)
}

var gerunds = map[models.ScriptType]string{
	models.ScriptAdd:    "adding",
	models.ScriptLaunch: "launching",
	models.ScriptRemove: "removing",
}

// Objective returns the instruction sent with a suggestion request for t
func Objective(t models.ScriptType) string {
	verb, ok := gerunds[t]
	if !ok {
		verb = string(t) + "ing"
	}
	return fmt.Sprintf("Refine or complete a script for %s an application", verb)
}

// Disabled is the generator used when no backend is configured
type Disabled struct{}

func (Disabled) Generate(context.Context, GenerateRequest) (GenerateResponse, error) {
	return GenerateResponse{}, errors.NewAppError(errors.ErrCodeExternalService, "No generation backend is configured")
}

func (Disabled) Suggest(context.Context, SuggestRequest) (SuggestResponse, error) {
	return SuggestResponse{}, errors.NewAppError(errors.ErrCodeExternalService, "No generation backend is configured")
}

// stripFences removes a surrounding Markdown code fence, which models add
// even when asked for bare script text
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
