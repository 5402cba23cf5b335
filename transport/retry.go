package transport

import (
	"context"
	crand "crypto/rand"
	"math"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const randPrecision = 1 << 53

// RetryPolicy decides whether and when a failed attempt is repeated.
type RetryPolicy struct {
	// MaxRetries is the number of attempts allowed after the first one.
	MaxRetries int
	// Interval is the delay before the first retry.
	Interval time.Duration
	// BackoffFactor multiplies the delay after every retry.
	BackoffFactor float64
	// Randomness spreads each delay by up to ±Randomness of its value.
	Randomness float64
	// MaxInterval caps every delay. Zero disables the cap.
	MaxInterval time.Duration
	// NetworkErrors enables retries of timeouts and connection failures.
	NetworkErrors bool
}

// DefaultRetryPolicy returns three retries starting at 500ms, doubling,
// with 50% jitter capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		Interval:      500 * time.Millisecond,
		BackoffFactor: 2,
		Randomness:    0.5,
		MaxInterval:   30 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Interval < 0 {
		p.Interval = 0
	}
	if p.BackoffFactor < 1 {
		p.BackoffFactor = 1
	}
	p.Randomness = math.Min(math.Max(p.Randomness, 0), 1)
	return p
}

// retryStatus reports whether the attempt that returned status may be
// repeated and, if so, after how long. A Retry-After value larger than the
// computed backoff is honored; one beyond MaxInterval stops retrying.
func (p RetryPolicy) retryStatus(attempt, status int, header http.Header, now time.Time, jitter func() float64) (time.Duration, bool) {
	if attempt >= p.MaxRetries || !IsRetryableStatus(status) {
		return 0, false
	}

	delay := p.backoff(attempt, jitter)
	if after, ok := parseRetryAfter(header.Get("Retry-After"), now); ok {
		if p.MaxInterval > 0 && after > p.MaxInterval {
			return 0, false
		}
		if after > delay {
			delay = after
		}
	}
	return delay, true
}

// retryNetwork reports whether a network failure on attempt may be repeated.
// Cancellation is never retried.
func (p RetryPolicy) retryNetwork(attempt int, err *NetworkError, jitter func() float64) (time.Duration, bool) {
	if !p.NetworkErrors || attempt >= p.MaxRetries || err.Reason == ReasonCanceled {
		return 0, false
	}
	return p.backoff(attempt, jitter), true
}

// backoff returns Interval * BackoffFactor^attempt, capped, then jittered.
func (p RetryPolicy) backoff(attempt int, jitter func() float64) time.Duration {
	d := float64(p.Interval) * math.Pow(p.BackoffFactor, float64(attempt))
	if p.MaxInterval > 0 && d > float64(p.MaxInterval) {
		d = float64(p.MaxInterval)
	}
	if p.Randomness > 0 && d > 0 {
		d += d * p.Randomness * (2*jitter() - 1)
	}
	if p.MaxInterval > 0 && d > float64(p.MaxInterval) {
		d = float64(p.MaxInterval)
	}
	if d <= 0 || math.IsNaN(d) {
		return 0
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// maxRetryAfterSeconds is the largest Retry-After that fits in a time.Duration.
const maxRetryAfterSeconds = float64(math.MaxInt64 / int64(time.Second))

// parseRetryAfter accepts delay-seconds or an HTTP date. Values too large for
// a time.Duration saturate at its maximum.
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(secs) || secs < 0 {
			return 0, false
		}
		if secs >= maxRetryAfterSeconds {
			return time.Duration(math.MaxInt64), true
		}
		return time.Duration(secs * float64(time.Second)), true
	}
	if at, err := http.ParseTime(value); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// cryptoJitter returns a uniform value in [0, 1).
func cryptoJitter() float64 {
	n, err := crand.Int(crand.Reader, big.NewInt(randPrecision))
	if err != nil {
		// On RNG failure, fall back to the unjittered delay
		return 0.5
	}
	return float64(n.Int64()) / randPrecision
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
