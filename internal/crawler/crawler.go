
package crawler

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docsite-frame-checker/internal/parser"
)

var (
	ErrNotHTML   = errors.New("non-html content")
	ErrBadStatus = errors.New("unexpected http status")
)

const DefaultUserAgent = "docsite-frame-checker/1.0"

type HTTPClient struct {
	client    *http.Client
	base      *url.URL
	sizeCap   int64
	userAgent string
}

// Response is a fully read GET response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
	Elapsed    time.Duration
}

func (r *Response) ContentType() string { return r.Header.Get("Content-Type") }

// NewHTTPClient targets baseURL; Get paths are resolved against it.
func NewHTTPClient(baseURL string, timeout, dialTimeout time.Duration, sizeCap int64) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		base:      u,
		sizeCap:   sizeCap,
		userAgent: DefaultUserAgent,
	}, nil
}

func (h *HTTPClient) SetUserAgent(ua string) {
	if ua != "" {
		h.userAgent = ua
	}
}

// URL resolves a site path against the base URL. Rooted paths stay under the
// base URL's own path, so a base of http://host/docs maps /ja to /docs/ja.
func (h *HTTPClient) URL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if !ref.IsAbs() && ref.Host == "" && strings.HasPrefix(ref.Path, "/") {
		ref.Path = strings.TrimSuffix(h.base.Path, "/") + ref.Path
		ref.RawPath = ""
	}
	return h.base.ResolveReference(ref).String(), nil
}

// Get issues one GET and reads the body. Any status is returned without error;
// redirects are followed. There is no retry.
func (h *HTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	start := time.Now()
	target, err := h.URL(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	// enforce a size cap
	data, err := io.ReadAll(io.LimitReader(body, h.sizeCap))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		URL:        resp.Request.URL.String(),
		Elapsed:    time.Since(start),
	}, nil
}

// GetDOM fetches path and parses it. Non-2xx statuses and non-HTML bodies
// are errors.
func (h *HTTPClient) GetDOM(ctx context.Context, path string) (*parser.Document, error) {
	resp, err := h.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d for %s", ErrBadStatus, resp.StatusCode, path)
	}
	contentType := resp.ContentType()
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") && mediaType != "" {
		// still allow if empty (some servers omit), otherwise reject non-html
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, mediaType)
	}
	return parser.Parse(bytes.NewReader(resp.Body), contentType)
}
