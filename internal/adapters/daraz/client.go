// Package daraz implements the review supplier against the Daraz
// product-review API.
package daraz

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
)

const pageSize = 20

// productIDPattern matches the "-i<digits>" segment Daraz embeds in every
// product URL path.
var productIDPattern = regexp.MustCompile(`-i(\d+)`)

var (
	ErrNotFound     = errors.New("daraz: not found")
	ErrUnauthorized = errors.New("daraz: unauthorized")
	ErrForbidden    = errors.New("daraz: forbidden")

	ErrBadProductURL = errors.New("daraz: not a product URL")
)

// ParseProductURL extracts the numeric product id from a Daraz product URL.
// The URL must parse, carry a daraz host and contain an "-i<digits>" id.
func ParseProductURL(raw string) (int64, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadProductURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, "daraz.") {
		return 0, fmt.Errorf("%w: host %q", ErrBadProductURL, u.Hostname())
	}
	m := productIDPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, fmt.Errorf("%w: no product id in path", ErrBadProductURL)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadProductURL, err)
	}
	return id, nil
}

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// reviewListResponse is the loose shape of the getReviewList payload; items
// are kept as raw maps and run through the alias mappers.
type reviewListResponse struct {
	Model struct {
		Items []map[string]any `json:"items"`
	} `json:"model"`
}

// FetchReviews pages the review endpoint until maxPages is reached or a page
// comes back empty. Page fetches are best-effort: a failed page is logged
// and skipped so one flaky page does not lose the rest.
func (c *Client) FetchReviews(ctx context.Context, productID int64, maxPages int) ([]domain.RawReview, error) {
	if maxPages <= 0 {
		maxPages = 1
	}
	var out []domain.RawReview
	for page := 1; page <= maxPages; page++ {
		u := fmt.Sprintf("%s/pdp/review/getReviewList?itemId=%d&pageSize=%d&filter=0&sort=0&pageNo=%d",
			c.base, productID, pageSize, page)

		var resp reviewListResponse
		if err := c.get(ctx, u, &resp); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if page == 1 {
				// nothing at all: surface it, the caller can't tell an
				// empty product from a dead upstream otherwise
				return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
			}
			log.Warn().Int64("product", productID).Int("page", page).Err(err).Msg("review page fetch failed, continuing")
			continue
		}
		if len(resp.Model.Items) == 0 {
			break
		}
		for _, item := range resp.Model.Items {
			out = append(out, mapReview(item))
		}
	}
	return out, nil
}

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx (honoring Retry-After), and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-radar/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("daraz", "getReviewList", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms, ...) with up to
// +50% jitter from crypto/rand so concurrent fetchers don't sync up.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
