// File: internal/infra/clients/client.go
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v5"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultAttempts = 3
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// permanentError stops the retry loop: bad requests, 4xx responses,
// malformed bodies.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// statusError preserves the upstream HTTP status for callers that map
// specific codes (404 → ErrNotFound).
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("upstream status %d", e.code) }

// getJSON fetches url and decodes the body into out, retrying on network
// errors, 429s, and 5xx responses.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	return retry.New(
		retry.Attempts(defaultAttempts),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var pe *permanentError
			return !errors.As(err, &pe)
		}),
	).Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return &permanentError{err}
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("transient upstream status %d", resp.StatusCode)
		case resp.StatusCode >= 300:
			io.Copy(io.Discard, resp.Body)
			return &permanentError{&statusError{code: resp.StatusCode}}
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &permanentError{fmt.Errorf("decode response: %w", err)}
		}
		return nil
	})
}
