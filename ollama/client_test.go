package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"message":{"content":"x"},"done":true}`+"\n")
	}))
	t.Cleanup(srv.Close)

	temp := 0.0
	client := ollama.New(ollama.WithBaseURL(srv.URL), ollama.WithAPIKey("tok"), ollama.WithJSONMode())
	body, err := client.Open(context.Background(), distill.Request{
		SystemPrompt: "Return JSON.",
		Prompt:       "Review.",
		MaxTokens:    256,
		Temperature:  &temp,
	})
	require.NoError(t, err)
	body.Close()

	var req map[string]any
	require.NoError(t, json.Unmarshal(captured, &req))
	assert.Equal(t, "llama3.1", req["model"])
	assert.Equal(t, true, req["stream"])
	assert.Equal(t, "json", req["format"])
	assert.Len(t, req["messages"], 2)
	assert.Equal(t, map[string]any{"temperature": 0.0, "num_predict": float64(256)}, req["options"])
}

func TestClient_NoAuthByDefault(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotContains(t, req, "options")
		assert.NotContains(t, req, "format")
	}))
	t.Cleanup(srv.Close)

	body, err := ollama.New(ollama.WithBaseURL(srv.URL)).Open(context.Background(), distill.Request{Prompt: "hi"})
	require.NoError(t, err)
	body.Close()
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"model \"nope\" not found, try pulling it first"}`)
	}))
	t.Cleanup(srv.Close)

	_, err := ollama.New(ollama.WithBaseURL(srv.URL)).Open(context.Background(), distill.Request{Model: "nope", Prompt: "hi"})

	var te *distill.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, `model "nope" not found, try pulling it first`, te.Message)
}
