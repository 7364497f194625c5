// Package plex is a minimal client for the parts of the Plex Media
// Server HTTP API that poster syncing needs: enumerating libraries and
// collections, listing a collection's posters, and downloading or
// uploading poster bytes.
package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	apperrors "github.com/plexsync/poster-sync/internal/errors"
)

// TransientError wraps an error that is likely temporary and safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err (or any error in its chain) is a
// TransientError, meaning the caller should retry after a backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

const (
	// maxRedirects is the maximum number of HTTP redirects to follow
	// before giving up, matching the default net/http limit.
	maxRedirects = 10

	// defaultTimeout is the timeout for the default HTTP client used
	// when the caller does not provide one.
	defaultTimeout = 30 * time.Second

	// maxListResponseBytes caps reads of JSON listing responses. Even a
	// very large server's collection listing fits comfortably.
	maxListResponseBytes = 16 * 1024 * 1024

	// maxPosterBytes caps poster downloads. Plex poster assets top out
	// in the single-digit megabytes.
	maxPosterBytes = 64 * 1024 * 1024
)

// Client talks to a Plex Media Server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	identity   Identity
}

// sameHostRedirectPolicy follows redirects only when the target host
// matches the original request host. This prevents the token header
// from leaking to third-party domains.
func sameHostRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}

	if len(via) > 0 {
		origHost := via[0].URL.Host
		if req.URL.Host != origHost {
			return fmt.Errorf("redirect to different host blocked: %s -> %s", origHost, req.URL.Host)
		}
	}

	return nil
}

// NewHTTPClient returns an http.Client configured the way this package
// expects: per-request timeout and same-host redirect policy. Workers
// that need their own transport build one of these each.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: sameHostRedirectPolicy,
	}
}

// NewClient creates a Plex API client. baseURL must not have a trailing
// slash. If httpClient is nil, a default one with a 30-second timeout is
// used.
func NewClient(baseURL, token string, identity Identity, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(defaultTimeout)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		identity:   identity,
	}
}

// WithHTTPClient returns a copy of the client backed by a different
// http.Client. Configuration (base URL, token, identity) is shared;
// the transport and its connection pool are not.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	clone := *c
	clone.httpClient = httpClient

	return &clone
}

// setHeaders applies the token and identity headers to a request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.identity.Identifier)
	req.Header.Set("X-Plex-Product", c.identity.Product)
	req.Header.Set("X-Plex-Version", c.identity.Version)
	req.Header.Set("X-Plex-Device", c.identity.Device)
	req.Header.Set("X-Plex-Device-Name", c.identity.DeviceName)
	req.Header.Set("X-Plex-Platform", c.identity.Platform)
}

// isTransientStatus reports whether an HTTP status is worth retrying.
func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// sanitizeResponseBody truncates and sanitizes a response body for
// inclusion in error messages. Limits to 256 bytes and replaces
// non-printable characters to prevent log injection.
func sanitizeResponseBody(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		body = body[:maxLen]
	}

	var clean []byte

	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size <= 1 {
			clean = append(clean, '?')
			body = body[1:]

			continue
		}

		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			clean = append(clean, '?')
		} else {
			clean = append(clean, body[:size]...)
		}

		body = body[size:]
	}

	return string(clean)
}

// do sends a request to path (server-relative) and returns the response
// body, capped at maxBytes. Network errors and retryable statuses come
// back wrapped in TransientError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, maxBytes int64) ([]byte, error) {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors (timeouts, connection refused, DNS failures)
		// are transient by nature.
		wrapped := fmt.Errorf("%w: sending request to %s: %v", apperrors.ErrAPIRequest, path, err)
		return nil, &TransientError{Err: wrapped}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s returned status %d: %s",
			apperrors.ErrAPIResponse, path, resp.StatusCode, sanitizeResponseBody(respBody))
		if isTransientStatus(resp.StatusCode) {
			return nil, &TransientError{Err: err}
		}

		return nil, err
	}

	return respBody, nil
}

// Ping verifies connectivity and token validity against the server's
// identity endpoint. Meant as a startup check: a failure here is fatal
// for the run.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodGet, "/identity", nil, maxListResponseBytes); err != nil {
		return fmt.Errorf("pinging server: %w", err)
	}

	return nil
}

// Libraries enumerates all library sections on the server.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	body, err := c.do(ctx, http.MethodGet, "/library/sections", nil, maxListResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}

	var libs []Library

	gjson.GetBytes(body, "MediaContainer.Directory").ForEach(func(_, dir gjson.Result) bool {
		libs = append(libs, Library{
			Key:   dir.Get("key").String(),
			Title: dir.Get("title").String(),
		})

		return true
	})

	return libs, nil
}

// Collections enumerates the collections within a library section.
func (c *Client) Collections(ctx context.Context, libraryKey string) ([]Collection, error) {
	path := fmt.Sprintf("/library/sections/%s/collections", libraryKey)

	body, err := c.do(ctx, http.MethodGet, path, nil, maxListResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("listing collections for library %s: %w", libraryKey, err)
	}

	var collections []Collection

	gjson.GetBytes(body, "MediaContainer.Metadata").ForEach(func(_, md gjson.Result) bool {
		collections = append(collections, Collection{
			RatingKey: md.Get("ratingKey").String(),
			Title:     md.Get("title").String(),
		})

		return true
	})

	return collections, nil
}

// Posters lists the candidate posters for a collection.
func (c *Client) Posters(ctx context.Context, ratingKey string) ([]Poster, error) {
	path := fmt.Sprintf("/library/metadata/%s/posters", ratingKey)

	body, err := c.do(ctx, http.MethodGet, path, nil, maxListResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("listing posters for collection %s: %w", ratingKey, err)
	}

	var posters []Poster

	gjson.GetBytes(body, "MediaContainer.Metadata").ForEach(func(_, md gjson.Result) bool {
		posters = append(posters, Poster{
			Key:      md.Get("key").String(),
			Selected: md.Get("selected").Bool(),
		})

		return true
	})

	return posters, nil
}

// SelectedPosterKey returns the key of the collection's currently
// selected poster, or "" when the collection has no poster set.
func (c *Client) SelectedPosterKey(ctx context.Context, ratingKey string) (string, error) {
	posters, err := c.Posters(ctx, ratingKey)
	if err != nil {
		return "", err
	}

	for _, p := range posters {
		if p.Selected {
			return p.Key, nil
		}
	}

	return "", nil
}

// DownloadPoster fetches the bytes of a poster asset by its key. Poster
// keys are server-relative paths as returned by Posters.
func (c *Client) DownloadPoster(ctx context.Context, posterKey string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, posterKey, nil, maxPosterBytes)
	if err != nil {
		return nil, fmt.Errorf("downloading poster %s: %w", posterKey, err)
	}

	return body, nil
}

// UploadPoster submits new poster bytes for a collection. The server
// makes the uploaded image the selected poster.
func (c *Client) UploadPoster(ctx context.Context, ratingKey string, r io.Reader) error {
	path := fmt.Sprintf("/library/metadata/%s/posters", ratingKey)

	if _, err := c.do(ctx, http.MethodPost, path, r, maxListResponseBytes); err != nil {
		return fmt.Errorf("uploading poster for collection %s: %w", ratingKey, err)
	}

	return nil
}
