package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

func TestHTTPGeneratorGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "install notepad++", req.Description)

		_ = json.NewEncoder(w).Encode(GenerateResponse{Script: "winget install notepad++"})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL+"/api/ai/", time.Second)
	resp, err := g.Generate(context.Background(), GenerateRequest{Description: "install notepad++"})
	require.NoError(t, err)
	assert.Equal(t, "winget install notepad++", resp.Script)
}

func TestHTTPGeneratorSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggest", r.URL.Path)

		var req SuggestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "exit", req.Context)

		_ = json.NewEncoder(w).Encode(SuggestResponse{Suggestion: "exit 0"})
	}))
	defer srv.Close()

	resp, err := NewHTTPGenerator(srv.URL, time.Second).Suggest(context.Background(), SuggestRequest{Context: "exit", Objective: "o"})
	require.NoError(t, err)
	assert.Equal(t, "exit 0", resp.Suggestion)
}

func TestHTTPGeneratorStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   errors.ErrorCode
	}{
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{http.StatusForbidden, errors.ErrCodeUnauthorized},
		{http.StatusTooManyRequests, errors.ErrCodeRateLimited},
		{http.StatusInternalServerError, errors.ErrCodeExternalService},
		{http.StatusBadRequest, errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewHTTPGenerator(srv.URL, time.Second).Generate(context.Background(), GenerateRequest{Description: "x"})
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestHTTPGeneratorBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPGenerator(srv.URL, time.Second).Generate(context.Background(), GenerateRequest{Description: "x"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeExternalService))
}

func TestHTTPGeneratorTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPGenerator(srv.URL, 20*time.Millisecond).Generate(context.Background(), GenerateRequest{Description: "x"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeServiceTimeout), "got %v", err)
}
