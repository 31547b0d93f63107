package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://stooq.com/q/d/l/"
	defaultInterval  = "d"
	defaultUserAgent = "mbd-bot"
)

// ErrTransportUnavailable is reported when the fetcher has no HTTP client to
// perform the request with.
var ErrTransportUnavailable = errors.New("http transport unavailable")

// FetchError describes a failed download. StatusCode is zero when no
// response was received.
type FetchError struct {
	StatusCode int
	Status     string
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	msg := "fetch failed:"
	if e.Status != "" {
		msg += " " + e.Status
	}
	msg += " " + e.URL
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=ingestion_test -destination=mock_http_client_test.go -source=fetcher.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads daily quote CSVs from the provider.
type Fetcher struct {
	// baseURL is the CSV download endpoint.
	baseURL string
	// interval is the provider's interval flag ("d" = daily).
	interval string
	// userAgent identifies the client to the provider.
	userAgent string
	// httpClient performs the request.
	httpClient HTTPClient
}

// FetcherOption is a configuration option for the Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL sets the CSV download endpoint.
func WithBaseURL(baseURL string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for downloads. A nil client
// makes every fetch fail with ErrTransportUnavailable.
func WithHTTPClient(httpClient HTTPClient) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithInterval sets the provider interval flag.
func WithInterval(interval string) FetcherOption {
	return func(f *Fetcher) {
		f.interval = interval
	}
}

// NewFetcher creates a Fetcher with provider defaults, then applies options.
func NewFetcher(options ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:    defaultBaseURL,
		interval:   defaultInterval,
		userAgent:  defaultUserAgent,
		httpClient: http.DefaultClient,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// NewHTTPClient returns an *http.Client suitable for the fetcher. Redirects
// are followed using net/http's default policy. A zero timeout means the
// request can block indefinitely.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// RequestURL builds the download URL for a provider symbol as
// "<base>?s=<symbol>&i=<interval>". The symbol is percent-encoded with
// spaces as %20.
func (f *Fetcher) RequestURL(symbol string) string {
	return f.baseURL + "?s=" + escapeComponent(symbol) + "&i=" + escapeComponent(f.interval)
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FetchQuoteData performs exactly one GET for symbol and returns the body
// as text. The body is not validated.
//
// Errors are always *FetchError: missing fetcher or transport, request
// failure, or a non-2xx status.
func (f *Fetcher) FetchQuoteData(ctx context.Context, symbol string) (string, error) {
	if f == nil {
		return "", &FetchError{Err: ErrTransportUnavailable}
	}
	target := f.RequestURL(symbol)
	if f.httpClient == nil {
		return "", &FetchError{URL: target, Err: ErrTransportUnavailable}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return "", &FetchError{StatusCode: resp.StatusCode, Status: status, URL: target}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{StatusCode: resp.StatusCode, Status: resp.Status, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
