package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/html/charset"
)

// Page is a fetched document.
type Page struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the Content-Type response header.
	ContentType string

	// Body is the response body decoded to UTF-8.
	Body string
}

// Fetcher retrieves a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPFetcher fetches pages with an *http.Client.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	cookie    string
	headers   map[string]string
	logger    *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithCookie sets a raw Cookie header, e.g. "session=abc; theme=dark".
func WithCookie(cookie string) Option {
	return func(f *HTTPFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra request headers. They override the User-Agent and Cookie options.
func WithHeaders(headers map[string]string) Option {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client means a zero
// http.Client, which uses http.DefaultTransport and no timeout.
func NewHTTPFetcher(client *http.Client, opts ...Option) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}

	f := &HTTPFetcher{
		client: client,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one GET request for url and returns the decoded body.
// There is no retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	f.decorate(req)

	f.logger.Debug("fetching page", "url", url, "cookie", f.cookie)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	// Decode to UTF-8 using the declared charset, a <meta> charset, or sniffing.
	r, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	f.logger.Debug("page fetched",
		"url", url,
		"status", resp.StatusCode,
		"contentType", contentType,
		"bytes", len(body),
	)

	return &Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        string(body),
	}, nil
}

// decorate applies the configured User-Agent, cookie and headers.
func (f *HTTPFetcher) decorate(req *http.Request) {
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
}
