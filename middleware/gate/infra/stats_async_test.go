package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"devport-gateway/middleware/gate/domain"
)

type blockingStats struct {
	release chan struct{}
	seen    chan domain.StatsEvent
}

func (b *blockingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	<-b.release
	b.seen <- ev
	return nil
}

type failingStats struct{}

func (failingStats) Record(context.Context, domain.StatsEvent) error { return errors.New("boom") }

func TestAsyncStats_ForwardsEventsAndDrainsOnClose(t *testing.T) {
	mem := NewMemoryStatsStore()
	a := NewAsyncStats(mem, 8, time.Second)

	for i := 0; i < 5; i++ {
		_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed, Method: "GET", Route: "/"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if got := mem.Total().Allowed; got != 5 {
		t.Fatalf("expected 5 allowed, got %d", got)
	}
}

func TestAsyncStats_DropsWhenQueueFull(t *testing.T) {
	dst := &blockingStats{release: make(chan struct{}), seen: make(chan domain.StatsEvent, 16)}
	a := NewAsyncStats(dst, 1, time.Second)

	// o worker pega o primeiro evento e trava; o segundo ocupa o buffer
	_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed})
	deadline := time.Now().Add(time.Second)
	for len(a.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed})
	_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed})

	if a.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", a.Dropped())
	}

	close(dst.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if len(dst.seen) != 2 {
		t.Fatalf("expected 2 forwarded events, got %d", len(dst.seen))
	}
}

func TestAsyncStats_CountsFailures(t *testing.T) {
	a := NewAsyncStats(failingStats{}, 4, time.Second)
	_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed})
	_ = a.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = a.Close(ctx)

	if a.Failed() != 2 {
		t.Fatalf("expected 2 failures, got %d", a.Failed())
	}
}
