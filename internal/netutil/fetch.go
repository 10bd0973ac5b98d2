// File: internal/netutil/fetch.go (complete file)

package netutil

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrHTTPStatus is returned when a provider answers with a non-2xx status.
var ErrHTTPStatus = errors.New("unexpected http status")

// maxBodySize bounds how much of a provider response we are willing to read.
const maxBodySize = 1 << 20

// Doer is the subset of *http.Client used by the fetch helpers.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetch issues a GET and returns the (bounded) body of a 2xx response.
func Fetch(ctx context.Context, client Doer, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.1")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrHTTPStatus, "status %d", resp.StatusCode)
	}
	return body, nil
}

// Reach issues a HEAD request and reports only whether it completed.
// The response status and body are ignored, like an opaque browser fetch.
func Reach(ctx context.Context, client Doer, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	return resp.Body.Close()
}
