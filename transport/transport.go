// Package transport opens streaming HTTP requests for the provider openers
// and maps failures to [distill.TransportError].
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/tidwall/gjson"
)

// maxErrorBody caps how much of a failed response body is read for the
// error message.
const maxErrorBody = 64 * 1024

// Post sends body to url and returns the response body of a 2xx response.
// Any other status, and any network failure, is returned as a
// *distill.TransportError. The caller must close the returned body.
func Post(ctx context.Context, client *http.Client, provider distill.Provider, url string, headers http.Header, body []byte) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &distill.TransportError{Provider: provider, Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &distill.TransportError{Provider: provider, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(provider, resp)
	}
	return resp.Body, nil
}

// statusError builds a TransportError from a non-2xx response. Providers
// wrap their message in different envelopes; the common ones are tried
// before falling back to the raw body.
func statusError(provider distill.Provider, resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &distill.TransportError{Provider: provider, StatusCode: resp.StatusCode, Err: err}
	}
	return &distill.TransportError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(data),
	}
}

func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "error", "message"} {
			if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
	}
	return strings.TrimSpace(string(body))
}
