package infra

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/domain"

	"go.uber.org/zap"
)

// AsyncStats desacopla o registro de estatísticas do caminho da requisição:
// Record só enfileira num channel com buffer e um único worker repassa os
// eventos para o StatsStore de destino (ex.: Redis).
//
// Com a fila cheia o evento é descartado e contado em Dropped.
type AsyncStats struct {
	next    domain.StatsStore
	queue   chan domain.StatsEvent
	timeout time.Duration

	dropped atomic.Int64
	failed  atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

var _ domain.StatsStore = (*AsyncStats)(nil)

// NewAsyncStats inicia o worker. timeout limita cada escrita no destino.
func NewAsyncStats(next domain.StatsStore, buffer int, timeout time.Duration) *AsyncStats {
	if buffer <= 0 {
		buffer = 1024
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	a := &AsyncStats{
		next:    next,
		queue:   make(chan domain.StatsEvent, buffer),
		timeout: timeout,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Record nunca bloqueia e sempre retorna nil.
func (a *AsyncStats) Record(_ context.Context, ev domain.StatsEvent) error {
	select {
	case a.queue <- ev:
	default:
		a.dropped.Add(1)
	}
	return nil
}

func (a *AsyncStats) run() {
	defer close(a.done)
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Record(ctx, ev); err != nil {
			if a.failed.Add(1) == 1 {
				log.Logger().Warn("failed to record gate stats", zap.Error(err))
			}
		}
		cancel()
	}
}

// Close para de aceitar eventos e espera o worker esvaziar a fila ou o ctx
// encerrar. Record não pode ser chamado depois de Close.
func (a *AsyncStats) Close(ctx context.Context) error {
	a.closeOnce.Do(func() { close(a.queue) })
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AsyncStats) Dropped() int64 { return a.dropped.Load() }
func (a *AsyncStats) Failed() int64  { return a.failed.Load() }
