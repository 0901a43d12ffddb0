package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-crawler-go/internal/proxy"
)

// sleepRecorder replaces the retrier's sleep so tests assert exact backoff
// without waiting.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) bool {
	s.delays = append(s.delays, d)
	return true
}

func newTestRetrier(pool *proxy.Pool) (*RequestRetrier, *sleepRecorder) {
	r := NewRequestRetrier(pool)
	rec := &sleepRecorder{}
	r.sleep = rec.sleep
	return r, rec
}

func get(url string) HTTPWork {
	return func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		return client.R().SetContext(ctx).Get(url)
	}
}

func TestRunSucceedsAfterBlocks(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	r, rec := newTestRetrier(proxy.NewPool(nil))
	base := 10 * time.Millisecond
	resp, err := r.Run(context.Background(), get(srv.URL),
		RunOptions{MaxAttempts: 5, BaseDelay: base})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode() != 200 {
		t.Fatalf("status=%d", resp.StatusCode())
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls=%d want 3", got)
	}
	want := []time.Duration{base, 2 * base}
	if len(rec.delays) != len(want) {
		t.Fatalf("sleeps=%v want %v", rec.delays, want)
	}
	for i := range want {
		if rec.delays[i] != want[i] {
			t.Fatalf("sleep[%d]=%v want %v", i, rec.delays[i], want[i])
		}
	}
}

func TestRunExhaustsOnTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, rec := newTestRetrier(proxy.NewPool(nil))
	base := time.Second
	_, err := r.Run(context.Background(), get(srv.URL),
		RunOptions{MaxAttempts: 3, BaseDelay: base})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsExhausted(err) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if got := KindOf(err); got != ErrorKindTransient {
		t.Fatalf("cause kind=%s", got)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls=%d want 3", got)
	}
	want := []time.Duration{base, 2 * base}
	if len(rec.delays) != 2 || rec.delays[0] != want[0] || rec.delays[1] != want[1] {
		t.Fatalf("sleeps=%v want %v", rec.delays, want)
	}
}

func TestRunExhaustsOnBlockedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("Your request has been blocked by datadome"))
	}))
	defer srv.Close()

	r, _ := newTestRetrier(proxy.NewPool(nil))
	_, err := r.Run(context.Background(), get(srv.URL),
		RunOptions{MaxAttempts: 2, BaseDelay: time.Millisecond})
	if !IsExhausted(err) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if !IsBlocked(err) {
		t.Fatalf("expected blocked cause, got %v", err)
	}
}

func TestRunFatalStopsImmediately(t *testing.T) {
	r, rec := newTestRetrier(proxy.NewPool(nil))
	var calls int
	_, err := r.Run(context.Background(), func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		calls++
		return nil, NewFatalError("api key missing", nil)
	}, RunOptions{MaxAttempts: 5, BaseDelay: time.Millisecond})
	if err == nil || KindOf(err) != ErrorKindFatal {
		t.Fatalf("want fatal, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
	if len(rec.delays) != 0 {
		t.Fatalf("unexpected sleeps: %v", rec.delays)
	}
}

func TestRunCanceledContext(t *testing.T) {
	r, _ := newTestRetrier(proxy.NewPool(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int
	_, err := r.Run(ctx, func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		calls++
		return nil, nil
	}, RunOptions{})
	if err != context.Canceled {
		t.Fatalf("err=%v", err)
	}
	if calls != 0 {
		t.Fatalf("work ran under canceled context")
	}
}

func TestRunRotatesEndpointsAcrossAttempts(t *testing.T) {
	pool := proxy.NewPool([]proxy.Endpoint{
		{Region: "US", Host: "gw-a.example.com", Port: 8080, Protocol: "http"},
		{Region: "US", Host: "gw-b.example.com", Port: 8080, Protocol: "http"},
	})
	r, _ := newTestRetrier(pool)

	var seen []string
	_, err := r.Run(context.Background(), func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		u, _ := r.switcher.ProxyFunc(nil)
		if u != nil {
			seen = append(seen, u.Host)
		}
		return nil, Error{Kind: ErrorKindTransient, Msg: "synthetic"}
	}, RunOptions{MaxAttempts: 3, BaseDelay: time.Millisecond})
	if !IsExhausted(err) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	want := []string{"gw-a.example.com:8080", "gw-b.example.com:8080", "gw-a.example.com:8080"}
	if len(seen) != len(want) {
		t.Fatalf("seen=%v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("attempt %d proxy=%s want %s", i+1, seen[i], want[i])
		}
	}
}
