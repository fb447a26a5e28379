package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln
}

func TestRun_WaitsForInFlightRequestAndStopHooks(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusNoContent)
	})}
	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stopped atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, ln, 5*time.Second, func(context.Context) error {
			stopped.Store(true)
			return nil
		})
	}()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			status <- -1
			return
		}
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		t.Fatalf("Run returned before the in-flight request finished: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
	if stopped.Load() {
		t.Fatalf("stop hook ran before the in-flight request finished")
	}

	close(release)
	if code := <-status; code != http.StatusNoContent {
		t.Fatalf("expected in-flight request to complete with 204, got %d", code)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stopped.Load() {
		t.Fatalf("expected stop hook to run before Run returned")
	}
}

func TestRun_ReturnsStopHookErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errDrain := errors.New("drain failed")
	calls := 0
	err := Run(ctx, &http.Server{Handler: http.NotFoundHandler()}, listen(t), time.Second,
		func(context.Context) error { calls++; return errDrain },
		func(context.Context) error { calls++; return nil },
	)
	if !errors.Is(err, errDrain) {
		t.Fatalf("expected drain error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected every stop hook to run, got %d", calls)
	}
}

func TestRun_ListenError(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String()}
	if err := Run(context.Background(), srv, nil, time.Second); err == nil {
		t.Fatalf("expected error when the address is already in use")
	}
}
