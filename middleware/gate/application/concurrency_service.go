package application

import (
	"context"
	"time"

	"devport-gateway/middleware/gate/domain"
)

// ConcurrencyService limita requisições em voo na frente da aplicação, com
// timeout de espera por vaga. Fica fora do Pipeline: o gate nunca bloqueia,
// este serviço pode bloquear até AcquireTimeout.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - AcquireTimeout <= 0: espera até o ctx da requisição encerrar.
//   - AcquireTimeout > 0: espera no máximo o timeout.
//
// Se ok=false, nenhuma vaga foi adquirida e release é nil.
func (s ConcurrencyService) Acquire(ctx context.Context) (release func(), ok bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}

// InFlight retorna (ocupadas, capacidade); (0, 0) sem pool.
func (s ConcurrencyService) InFlight() (int, int) {
	if s.Pool == nil {
		return 0, 0
	}
	return s.Pool.InUse(), s.Pool.Cap()
}
