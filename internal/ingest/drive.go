// Package ingest brings dataset files onto local disk: from a shared drive
// link or from another local path.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// DefaultBaseURL is the public drive host.
const DefaultBaseURL = "https://drive.google.com"

const userAgent = "edakit/1 (+https://github.com/KaramelBytes/edakit)"

// ErrInvalidArgument marks a missing file id or destination.
var ErrInvalidArgument = errors.New("invalid argument")

// Options configures a Downloader. Zero values pick defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *slog.Logger
}

// Downloader fetches shared drive files with retry and backoff.
type Downloader struct {
	httpClient       *http.Client
	baseURL          string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	log              *slog.Logger
}

// NewDownloader returns a downloader with default timeouts and retry strategy
// for any unset option.
func NewDownloader(opt Options) *Downloader {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.MaxAttempts <= 0 {
		opt.MaxAttempts = 3
	}
	if opt.BaseDelay <= 0 {
		opt.BaseDelay = 500 * time.Millisecond
	}
	if opt.MaxDelay <= 0 {
		opt.MaxDelay = 4 * time.Second
	}
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	// cookiejar.New only fails on a bad PublicSuffixList
	jar, _ := cookiejar.New(nil)
	return &Downloader{
		httpClient:       &http.Client{Timeout: opt.Timeout, Jar: jar},
		baseURL:          strings.TrimRight(opt.BaseURL, "/"),
		retryMaxAttempts: opt.MaxAttempts,
		retryBaseDelay:   opt.BaseDelay,
		retryMaxDelay:    opt.MaxDelay,
		log:              opt.Logger,
	}
}

// URL returns the download endpoint for a file id.
func (d *Downloader) URL(fileID, confirm string) string {
	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", fileID)
	if confirm != "" {
		q.Set("confirm", confirm)
	}
	return d.baseURL + "/uc?" + q.Encode()
}

// Download fetches fileID into output, creating parent directories. Large
// files answer the first request with an HTML interstitial; the confirm
// token from its download_warning cookie (or the page itself) is replayed
// once. The file is written to a temp file and renamed into place.
func (d *Downloader) Download(ctx context.Context, fileID, output string) (int64, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return 0, fmt.Errorf("%w: drive file id is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(output) == "" {
		return 0, fmt.Errorf("%w: output path is empty", ErrInvalidArgument)
	}
	d.log.Info("downloading dataset", "file_id", fileID, "output", output)

	confirm := ""
	for step := 0; step < 2; step++ {
		resp, err := d.get(ctx, d.URL(fileID, confirm), fileID)
		if err != nil {
			return 0, err
		}
		if !isConfirmPage(resp) {
			n, err := writeAtomic(output, resp.Body)
			resp.Body.Close()
			if err != nil {
				return 0, err
			}
			d.log.Info("download complete", "file_id", fileID, "bytes", n)
			return n, nil
		}
		token := confirmToken(resp)
		resp.Body.Close()
		if token == "" || confirm != "" {
			break
		}
		d.log.Debug("confirming large file download", "file_id", fileID)
		confirm = token
	}
	return 0, fmt.Errorf("file %q: drive returned an HTML page instead of the file (not shared publicly?)", fileID)
}

// get issues a GET with retries on 429, 5xx and transient network errors.
// The caller owns the returned body.
func (d *Downloader) get(ctx context.Context, endpoint, fileID string) (*http.Response, error) {
	backoff := d.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= d.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := d.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !isRetryableNetErr(err) {
				return nil, fmt.Errorf("http request: %w", err)
			}
			lastErr = &UnreachableError{Host: req.URL.Host, Err: err}
			if attempt == d.retryMaxAttempts {
				break
			}
			wait := d.capDelay(withJitter(backoff))
			d.log.Warn("network error, retrying", "attempt", attempt, "wait", wait, "err", err)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		resp.Body.Close()
		herr := &HTTPError{StatusCode: resp.StatusCode, URL: endpoint, Message: shortMessage(body)}
		lastErr = classifyHTTPError(herr, resp, fileID)
		retryable := resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)
		if !retryable || attempt == d.retryMaxAttempts {
			break
		}
		// Retry-After wins over the computed backoff; both are capped.
		wait := withJitter(backoff)
		if secs, err := parseRetryAfterSeconds(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
		wait = d.capDelay(wait)
		d.log.Warn("retryable status", "status", resp.StatusCode, "attempt", attempt, "wait", wait)
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (d *Downloader) capDelay(w time.Duration) time.Duration {
	if d.retryMaxDelay > 0 && w > d.retryMaxDelay {
		return d.retryMaxDelay
	}
	return w
}

// classifyHTTPError maps a status to a typed error.
func classifyHTTPError(herr *HTTPError, resp *http.Response, fileID string) error {
	switch {
	case herr.StatusCode == http.StatusTooManyRequests:
		var ra time.Duration
		if secs, err := parseRetryAfterSeconds(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			ra = time.Duration(secs) * time.Second
		}
		return &RateLimitError{HTTPError: herr, RetryAfter: ra}
	case herr.StatusCode == http.StatusNotFound:
		return &NotFoundError{HTTPError: herr, FileID: fileID}
	default:
		return herr
	}
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// parseRetryAfterSeconds tries to interpret Retry-After header value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if v == "" {
		return 0, errors.New("empty Retry-After")
	}
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isConfirmPage(resp *http.Response) bool {
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, "text/html") && resp.Header.Get("Content-Disposition") == ""
}

var confirmPatterns = []*regexp.Regexp{
	regexp.MustCompile(`confirm=([0-9A-Za-z_\-]+)`),
	regexp.MustCompile(`name="confirm"\s+value="([^"]+)"`),
}

// confirmToken reads the token from a download_warning cookie, falling back
// to the interstitial page body.
func confirmToken(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if strings.HasPrefix(c.Name, "download_warning") && c.Value != "" {
			return c.Value
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	for _, re := range confirmPatterns {
		if m := re.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}
	return ""
}

func shortMessage(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
