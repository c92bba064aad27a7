package ai

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

// HTTPGenerator calls a generation service exposing POST <base>/generate and
// POST <base>/suggest with JSON bodies
type HTTPGenerator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGenerator creates a generator for the service at baseURL
func NewHTTPGenerator(baseURL string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate implements Generator
func (g *HTTPGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var resp GenerateResponse
	if err := g.post(ctx, "generate", req, &resp); err != nil {
		return GenerateResponse{}, err
	}
	return resp, nil
}

// Suggest implements Generator
func (g *HTTPGenerator) Suggest(ctx context.Context, req SuggestRequest) (SuggestResponse, error) {
	var resp SuggestResponse
	if err := g.post(ctx, "suggest", req, &resp); err != nil {
		return SuggestResponse{}, err
	}
	return resp, nil
}

func (g *HTTPGenerator) post(ctx context.Context, op string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.InternalError("Failed to encode generation request").WithDetails(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		return errors.ExternalServiceError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ExternalServiceError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func transportError(ctx context.Context, op string, err error) error {
	switch {
	case stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(err, errors.ErrCodeCanceled, "Generation request was canceled")
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return errors.Wrap(err, errors.ErrCodeServiceTimeout, fmt.Sprintf("Generation service timed out: %s", op))
	default:
		return errors.ExternalServiceError(op, err)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

func statusError(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.NewAppError(errors.ErrCodeUnauthorized, "Generation service rejected the credentials")
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.NewAppError(errors.ErrCodeRateLimited, "Generation service is rate limiting requests")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.ExternalServiceError(op, fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(errorBody))))
	}
	return nil
}
