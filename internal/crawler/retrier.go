package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-crawler-go/internal/proxy"
)

// HTTPWork is one HTTP-issuing unit of work. It receives a client already
// bound to the attempt's proxy endpoint and returns the response or an error.
type HTTPWork func(ctx context.Context, client *resty.Client) (*resty.Response, error)

// RunOptions bounds one Run invocation. BaseDelay scales linearly with the
// attempt index: delay before attempt n+1 is BaseDelay * n. Identity change,
// not longer waiting, is what usually clears a block, so backoff stays linear.
type RunOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Region      string
}

func (o RunOptions) withDefaults() RunOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.Region == "" {
		o.Region = proxy.DefaultRegion
	}
	return o
}

// RequestRetrier executes HTTP units of work with per-attempt proxy
// re-selection and linear backoff. Attempts are strictly sequential; the
// retrier holds no shared mutable state beyond the proxy switcher.
type RequestRetrier struct {
	pool     *proxy.Pool
	switcher *proxy.Switcher
	client   *resty.Client

	// sleep is swapped out in tests to record delays.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewRequestRetrier(pool *proxy.Pool) *RequestRetrier {
	switcher := proxy.NewSwitcher()
	return &RequestRetrier{
		pool:     pool,
		switcher: switcher,
		client:   NewHTTPClient(switcher),
		sleep:    Sleep,
	}
}

// Run invokes fn up to MaxAttempts times. Each attempt re-selects the proxy
// endpoint for the region, runs fn, and classifies the outcome: a blocked or
// transient failure retries after the linear backoff, a fatal error or
// context cancellation surfaces immediately, and exhaustion wraps the last
// cause in RetryExhaustedError.
func (r *RequestRetrier) Run(ctx context.Context, fn HTTPWork, opts RunOptions) (*resty.Response, error) {
	opts = opts.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if ep, ok := r.pool.ForAttempt(opts.Region, attempt); ok {
			if err := r.switcher.SetEndpoint(ep); err != nil {
				return nil, NewFatalError("set proxy endpoint", err)
			}
		}

		resp, err := fn(ctx, r.client)
		if err == nil {
			err = classifyResponse(resp)
			if err == nil {
				return resp, nil
			}
		}

		if !ShouldRetryError(err) {
			return nil, err
		}
		lastErr = err

		if attempt == opts.MaxAttempts {
			break
		}
		delay := opts.BaseDelay * time.Duration(attempt)
		slog.Default().Warn("attempt failed, backing off",
			"attempt", attempt, "max_attempts", opts.MaxAttempts,
			"delay", delay.String(), "region", opts.Region,
			"error_kind", string(KindOf(err)), "err", err)
		if !r.sleep(ctx, delay) {
			return nil, ctx.Err()
		}
	}

	return nil, RetryExhaustedError{Attempts: opts.MaxAttempts, Cause: lastErr}
}

// classifyResponse applies the block detector to a non-error response. A
// blocked page retries under a new identity; any other non-2xx outcome is
// transient. Units of work that already convert bad statuses to errors never
// reach this path.
func classifyResponse(resp *resty.Response) error {
	if resp == nil {
		return Error{Kind: ErrorKindTransient, Msg: "unit of work produced no response"}
	}
	status := resp.StatusCode()
	body := resp.String()
	switch Classify(status, body) {
	case ClassBlocked:
		return NewBlockedError("", resp.Request.URL, BlockReason(status, body))
	case ClassOK:
		return nil
	default:
		return NewHTTPStatusError("", resp.Request.URL, status, "")
	}
}
