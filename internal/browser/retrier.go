package browser

import (
	"context"
	"log/slog"
	"time"

	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/proxy"
)

// SessionWork is one browser-automation unit of work. It receives a session
// scoped to the current attempt, creates pages, navigates, and is expected to
// raise a blocked-kind error when the rendered content trips the block
// detector, so a block is never mistaken for success.
type SessionWork func(ctx context.Context, sess *Session) error

// SessionRetrier carries the same retry contract as crawler.RequestRetrier,
// with a fresh, exclusively-owned browser session per attempt. The session is
// closed on every exit path before the next attempt launches.
type SessionRetrier struct {
	pool     *proxy.Pool
	launcher Launcher

	sleep func(ctx context.Context, d time.Duration) bool
}

func NewSessionRetrier(pool *proxy.Pool, launcher Launcher) *SessionRetrier {
	return &SessionRetrier{
		pool:     pool,
		launcher: launcher,
		sleep:    crawler.Sleep,
	}
}

// Run invokes fn up to MaxAttempts times. Launch failures are transient and
// consume an attempt. Backoff and exhaustion semantics match the HTTP
// retrier: linear delay scaled by attempt index, RetryExhaustedError wrapping
// the last cause after the final attempt.
func (r *SessionRetrier) Run(ctx context.Context, fn SessionWork, opts crawler.RunOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.Region == "" {
		opts.Region = proxy.DefaultRegion
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ep, _ := r.pool.ForAttempt(opts.Region, attempt)
		err := r.runAttempt(ctx, fn, ep)
		if err == nil {
			return nil
		}
		if !crawler.ShouldRetryError(err) {
			return err
		}
		lastErr = err

		if attempt == opts.MaxAttempts {
			break
		}
		delay := opts.BaseDelay * time.Duration(attempt)
		slog.Default().Warn("browser attempt failed, backing off",
			"attempt", attempt, "max_attempts", opts.MaxAttempts,
			"delay", delay.String(), "region", opts.Region,
			"error_kind", string(crawler.KindOf(err)), "err", err)
		if !r.sleep(ctx, delay) {
			return ctx.Err()
		}
	}

	return crawler.RetryExhaustedError{Attempts: opts.MaxAttempts, Cause: lastErr}
}

// runAttempt scopes one launch/teardown pair. The deferred close runs on
// success, block, transient error, and panic alike.
func (r *SessionRetrier) runAttempt(ctx context.Context, fn SessionWork, ep proxy.Endpoint) error {
	sess, err := r.launcher.Launch(ctx, OptionsFromConfig(ep))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return crawler.Error{Kind: crawler.ErrorKindTransient, Msg: "browser launch", Err: err}
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			slog.Default().Warn("session close failed", "err", cerr)
		}
	}()

	return fn(ctx, sess)
}
