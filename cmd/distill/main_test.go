package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/config"
	distilljson "github.com/fwojciec/distill/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with an isolated HOME so no real config
// file is read.
func execute(t *testing.T, env map[string]string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	vars := map[string]string{"HOME": t.TempDir()}
	maps.Copy(vars, env)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(lookup(vars), strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func ollamaServer(t *testing.T, pieces ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		for _, p := range pieces {
			line, _ := json.Marshal(map[string]any{
				"message": map[string]string{"role": "assistant", "content": p},
				"done":    false,
			})
			fmt.Fprintf(w, "%s\n", line)
		}
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":""},"done":true}`+"\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAIServer(t *testing.T, pieces ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		for _, p := range pieces {
			content, _ := json.Marshal(p)
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%s}}]}\n\n", content)
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersion(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, nil, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "distill dev\n", out)
}

func TestRepair_Stdin(t *testing.T) {
	t.Parallel()
	out, errOut, err := execute(t, nil, `Sure! {"summary": "ok", "actions": [],} Hope this helps.`,
		"repair", "--shape", "actions")
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "ok", "actions": []}`, out)
	assert.Contains(t, errOut, "repaired by basic strategy")
}

func TestRepair_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "response.txt")
	require.NoError(t, os.WriteFile(path, []byte(`[{"file": "a.go"}]`), 0o600))

	out, errOut, err := execute(t, nil, "", "repair", path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file": "a.go"}]`, out)
	assert.NotContains(t, errOut, "repaired")
}

func TestRepair_Verbose(t *testing.T) {
	t.Parallel()
	_, errOut, err := execute(t, nil, `{"current": "x" y "suggested": "z"}`, "repair", "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "basic:")
	assert.Contains(t, errOut, "advanced: ok")
	assert.Contains(t, errOut, "repaired by advanced strategy")
}

func TestRepair_Failure(t *testing.T) {
	t.Parallel()
	out, errOut, err := execute(t, nil, `Here you go: {"file": "a.go" "line": @}`, "repair")

	var rf *distill.RepairFailure
	require.ErrorAs(t, err, &rf)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "could not parse the response")
	assert.Contains(t, errOut, rf.OriginalError)
	assert.Contains(t, errOut, rf.AdvancedError)
}

func TestRepair_UnknownShape(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, nil, "{}", "repair", "--shape", "table")
	assert.ErrorIs(t, err, distill.ErrValidation)
}

func TestStream_OllamaCaptureAndReplay(t *testing.T) {
	t.Parallel()
	srv := ollamaServer(t, `{"summary": "looks good", `, `"actions": [{"type": "approve"}]}`)
	capture := filepath.Join(t.TempDir(), "captures", "run.json")
	env := map[string]string{"OLLAMA_HOST": srv.URL}

	out, _, err := execute(t, env, "", "stream", "-q", "--shape", "actions", "--capture", capture, "Summarize the MR")
	require.NoError(t, err)
	want := `{"summary": "looks good", "actions": [{"type": "approve"}]}`
	assert.JSONEq(t, want, out)

	c, err := distilljson.Load(capture)
	require.NoError(t, err)
	assert.Equal(t, distill.ProviderOllama, c.Provider)
	assert.Equal(t, distill.ShapeNameActions, c.Shape)
	assert.Len(t, c.Lines, 3)
	assert.True(t, c.Result.OK())

	out, errOut, err := execute(t, nil, "", "replay", "--check", capture)
	require.NoError(t, err)
	assert.JSONEq(t, want, out)
	assert.NotContains(t, errOut, "differs")
}

func TestStream_PromptFromStdin(t *testing.T) {
	t.Parallel()
	prompts := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			prompts <- req.Messages[len(req.Messages)-1].Content
		}
		_, _ = io.WriteString(w, `{"message":{"content":"hello there"},"done":true}`+"\n")
	}))
	t.Cleanup(srv.Close)

	out, _, err := execute(t, map[string]string{"OLLAMA_HOST": srv.URL}, "  What is up?\n",
		"stream", "-q", "--shape", "text")
	require.NoError(t, err)
	assert.Equal(t, "hello there\n", out)
	assert.Equal(t, "What is up?", <-prompts)
}

func TestStream_OpenAIFromConfigWithRepair(t *testing.T) {
	t.Parallel()
	srv := openAIServer(t, `[{"file": "a.go", `, `"severity": "High", `, `"issue": "x",}]`)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgBody := fmt.Sprintf("providers:\n  openai:\n    api_key: ${TEST_KEY}\n    base_url: %s\n", srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o600))

	out, errOut, err := execute(t, map[string]string{"TEST_KEY": "sk-test"}, "",
		"--config", cfgPath, "stream", "-q", "-p", "openai", "--shape", "review", "Review this")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file": "a.go", "severity": "High", "issue": "x"}]`, out)
	assert.Contains(t, errOut, "repaired by basic strategy")
}

func TestStream_Progress(t *testing.T) {
	t.Parallel()
	srv := ollamaServer(t, `{"summary": "ok", "actions": []}`)

	_, errOut, err := execute(t, map[string]string{"OLLAMA_HOST": srv.URL}, "",
		"stream", "--shape", "actions", "go")
	require.NoError(t, err)
	assert.Contains(t, errOut, "parsed")
	assert.Contains(t, errOut, `{"summary": "ok", "actions": []}`)
}

func TestStream_TransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte(fmt.Sprintf("providers:\n  openai:\n    api_key: bad\n    base_url: %s\n", srv.URL)), 0o600))

	out, errOut, err := execute(t, nil, "", "--config", cfgPath, "stream", "-q", "hi")

	var te *distill.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Incorrect API key provided")
}

func TestStream_NoProvider(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, nil, "", "stream", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provider configured")
}

func TestStream_MissingKey(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, nil, "", "stream", "-p", "gemini", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestReplay_ShapeOverride(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, distilljson.Save(path, distill.Capture{
		ID:       "c1",
		Provider: distill.ProviderOpenAI,
		Shape:    distill.ShapeNameAny,
		Lines: []string{
			`data: {"choices":[{"delta":{"content":"{\"a\": 1}"}}]}`,
			"",
			"data: [DONE]",
		},
		Result: distill.Result{Value: map[string]any{"a": float64(1)}, Raw: `{"a": 1}`},
	}))

	out, errOut, err := execute(t, nil, "", "replay", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, out)
	assert.NotContains(t, errOut, "differs")

	out, errOut, err = execute(t, nil, "", "replay", "--shape", "text", path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", out)
	assert.Contains(t, errOut, "differs")

	_, _, err = execute(t, nil, "", "replay", "--shape", "text", "--check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs from the recording")
}

func TestInvalidLogLevel(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, nil, "", "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "distill.log")
	var stderr bytes.Buffer

	logger, closer := newLogger(config.LogConfig{LevelName: "debug", File: path, MaxSizeMB: 1}, &stderr)
	require.NotNil(t, closer)
	logger.WithField("session", "s1").Debug("repaired")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"repaired"`)
	assert.Contains(t, string(data), `"session":"s1"`)
	assert.Empty(t, stderr.String())
}

func TestNewLogger_Stderr(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	logger, closer := newLogger(config.LogConfig{LevelName: "warn"}, &stderr)
	assert.Nil(t, closer)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "shown")
}

func TestPreview(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a b c", preview("a\n  b\tc", 10))
	assert.Equal(t, "…6789", preview("0123456789", 5))
	assert.Equal(t, "…世界", preview("你好世界", 5))
}
