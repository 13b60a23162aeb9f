package retry

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type attemptsKey struct{}

// WithAttemptCounter returns a context that records how many HTTP attempts
// requests made with it needed. Read the count with Attempts.
func WithAttemptCounter(ctx context.Context) context.Context {
	return context.WithValue(ctx, attemptsKey{}, new(atomic.Int64))
}

// Attempts returns the number of attempts recorded in ctx, or 0 when ctx
// carries no counter.
func Attempts(ctx context.Context) int {
	counter, ok := ctx.Value(attemptsKey{}).(*atomic.Int64)
	if !ok {
		return 0
	}
	return int(counter.Load())
}

// NewHTTPClient returns an *http.Client that retries 429 responses according
// to policy. When the attempts run out the last 429 response is handed back
// so the caller sees the rate limit error from the API itself.
func NewHTTPClient(policy Policy, log *slog.Logger) *http.Client {
	if log == nil {
		log = slog.Default()
	}

	c := retryablehttp.NewClient()
	c.Logger = leveledLogger{log: log}
	c.RetryMax = policy.Retries()
	c.RetryWaitMin = policy.BaseDelay
	c.RetryWaitMax = policy.MaxDelay
	c.CheckRetry = policy.ShouldRetry
	c.Backoff = func(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
		return policy.Delay(attemptNum, resp)
	}
	c.ErrorHandler = passthrough
	c.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, retryNumber int) {
		if counter, ok := req.Context().Value(attemptsKey{}).(*atomic.Int64); ok {
			counter.Add(1)
		}
		if retryNumber > 0 {
			log.DebugContext(req.Context(), "Rate limited, retrying request", "retry", retryNumber)
		}
	}

	return c.StandardClient()
}

// passthrough hands the final response back when the policy stopped retrying
// on its own, and drops it when the attempt ended with an error.
func passthrough(resp *http.Response, err error, _ int) (*http.Response, error) {
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, err
	}
	return resp, nil
}

// leveledLogger keeps retryablehttp chatter at debug level.
type leveledLogger struct {
	log *slog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}
