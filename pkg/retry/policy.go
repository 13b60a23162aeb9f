package retry

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Policy describes how a rate-limited request is retried.
type Policy struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool

	// MaxAttempts caps the total number of attempts, the first one included.
	// Zero means retry until the rate limit clears or the context is done.
	MaxAttempts int
}

func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   time.Second,
		MaxDelay:    time.Minute,
		Multiplier:  2,
		Jitter:      true,
		MaxAttempts: 10,
	}
}

// ShouldRetry retries rate-limited responses only. Transport errors and any
// other status are returned to the caller untouched.
func (p Policy) ShouldRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || resp == nil {
		return false, nil
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}

// Delay returns how long to wait before the retry that follows attempt
// (zero based). A numeric Retry-After header sent with a 429 wins.
func (p Policy) Delay(attempt int, resp *http.Response) time.Duration {
	if d, ok := retryAfter(resp); ok {
		if p.MaxDelay > 0 && d > p.MaxDelay {
			return p.MaxDelay
		}
		return d
	}

	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := float64(p.BaseDelay) * math.Pow(multiplier, float64(attempt))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if delay > math.MaxInt64 {
		delay = math.MaxInt64
	}

	d := time.Duration(delay)
	if p.Jitter && d > 1 {
		half := d / 2
		d = half + time.Duration(rand.Int63n(int64(d-half)+1))
	}
	return d
}

// Retries is the number of retries retryablehttp may perform after the first attempt.
func (p Policy) Retries() int {
	if p.MaxAttempts <= 0 {
		return math.MaxInt32
	}
	return p.MaxAttempts - 1
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	seconds, err := strconv.ParseInt(resp.Header.Get("Retry-After"), 10, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
