package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/store"
)

// RetryConfig defines backoff for remote source fetches.
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
	Jitter       bool          `json:"jitter"`
}

// DefaultRetryConfig is used when a caller passes a zero RetryConfig.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
	Multiplier:   2.0,
	Jitter:       true,
}

// HTTPStatusError is returned when a source URL answers with a non-2xx code.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retry runs op until it succeeds, returns a non-retryable error, exhausts
// cfg.MaxAttempts or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if attempt >= attempts || !IsRetryable(err) {
			return err
		}

		delay := backoffDelay(cfg, attempt)
		zap.L().Warn("operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		fetchRetries.Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return eris.Wrap(ctx.Err(), "retry: context done")
		case <-timer.C:
		}
	}
}

// backoffDelay returns the wait before attempt+1.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := float64(cfg.InitialDelay) * math.Pow(mult, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		// +/- 5%
		delay += delay * 0.1 * (rand.Float64() - 0.5)
	}
	return time.Duration(delay)
}

// IsRetryable reports whether err is worth another attempt: network
// failures, timeouts and HTTP 429/5xx answers. Context cancellation is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// RetryJob runs a failed or cancelled job again under its original id.
func RetryJob(ctx context.Context, jobID string, spec model.ReportJobSpec) error {
	zap.L().Info("retrying job", zap.String("job_id", jobID))

	if err := store.SavePipelineLog(jobID, "job", "info", "Job retry requested", nil); err != nil {
		zap.L().Warn("failed to save pipeline log", zap.String("job_id", jobID), zap.Error(err))
	}
	if err := store.UpdateJobStatus(jobID, model.StatusPending); err != nil {
		return eris.Wrapf(err, "pipeline: reset job %s", jobID)
	}

	if err := Run(ctx, jobID, spec); err != nil {
		return eris.Wrapf(err, "pipeline: retry job %s", jobID)
	}
	return nil
}
