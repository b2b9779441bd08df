package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gh "github.com/google/go-github/v66/github"
)

const maxBackoff = 60 * time.Second

// backoffUnit is the first retry delay when the server gives no hint.
var backoffUnit = time.Second

func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Only retry rate limit errors
		var rl *rateLimitError
		if !errors.As(lastErr, &rl) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := rl.retryAfter
			if backoff <= 0 {
				backoff = time.Duration(1<<uint(attempt)) * backoffUnit
			}
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

// classify maps a go-github failure onto NotFoundError, AuthError,
// rateLimitError or APIError. Transport and decode failures are wrapped as is.
func classify(err error, resource string, now time.Time) error {
	if err == nil {
		return nil
	}

	var rle *gh.RateLimitError
	if errors.As(err, &rle) {
		wait := hintFrom(rle.Response, now)
		if wait == 0 {
			wait = rle.Rate.Reset.Time.Sub(now)
		}
		return &rateLimitError{retryAfter: max(wait, 0), message: rle.Message}
	}
	var abuse *gh.AbuseRateLimitError
	if errors.As(err, &abuse) {
		wait := abuse.GetRetryAfter()
		if wait == 0 {
			wait = hintFrom(abuse.Response, now)
		}
		return &rateLimitError{retryAfter: wait, message: abuse.Message}
	}

	var er *gh.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		return fmt.Errorf("request failed: %w", err)
	}
	resp := er.Response
	message := er.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: resource}
	case isRateLimited(resp):
		return &rateLimitError{retryAfter: retryAfter(resp.Header, now), message: er.Message}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: message}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
}

func hintFrom(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}
	return retryAfter(resp.Header, now)
}

// isRateLimited classifies 429s and 403s with an exhausted quota.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != ""
}

// retryAfter reads the server's hint for when to try again. Zero means no hint.
func retryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.Unix(epoch, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
