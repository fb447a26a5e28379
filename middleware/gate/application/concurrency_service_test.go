package application

import (
	"context"
	"testing"
	"time"
)

type blockingPool struct{}

func (p *blockingPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(5 * time.Second):
		// não deve chegar aqui nos testes
		return nil, false
	}
}

func (p *blockingPool) InUse() int { return 1 }
func (p *blockingPool) Cap() int   { return 1 }

type immediatePool struct {
	acquired int
}

func (p *immediatePool) Acquire(ctx context.Context) (func(), bool) {
	p.acquired++
	return func() {}, true
}

func (p *immediatePool) InUse() int { return p.acquired }
func (p *immediatePool) Cap() int   { return 10 }

func TestConcurrencyService_Acquire_AllowsWhenNoPool(t *testing.T) {
	svc := ConcurrencyService{}
	release, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected ok")
	}
	release()

	if inUse, capacity := svc.InFlight(); inUse != 0 || capacity != 0 {
		t.Fatalf("expected 0/0 without pool, got %d/%d", inUse, capacity)
	}
}

func TestConcurrencyService_Acquire_UsesTimeout(t *testing.T) {
	svc := ConcurrencyService{Pool: &blockingPool{}, AcquireTimeout: 10 * time.Millisecond}

	_, ok := svc.Acquire(context.Background())
	if ok {
		t.Fatalf("expected timeout and ok=false")
	}
}

func TestConcurrencyService_Acquire_NoTimeoutDelegatesToPool(t *testing.T) {
	pool := &immediatePool{}
	svc := ConcurrencyService{Pool: pool}

	if _, ok := svc.Acquire(context.Background()); !ok {
		t.Fatalf("expected ok")
	}
	if inUse, capacity := svc.InFlight(); inUse != 1 || capacity != 10 {
		t.Fatalf("expected 1/10 in flight, got %d/%d", inUse, capacity)
	}
}
