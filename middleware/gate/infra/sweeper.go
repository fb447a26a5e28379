package infra

import (
	"math/rand"
	"sync"
	"time"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sweeper faz a limpeza oportunista do store: a cada chamada sorteia se varre
// (probabilidade p) e nunca varre mais de uma vez por minInterval, medido no
// now recebido.
//
// Não há agenda fixa nem goroutine; quem chama é a própria requisição. Uma
// varredura em andamento não bloqueia as demais chamadas: elas apenas pulam.
type Sweeper struct {
	store       domain.Store
	probability float64
	limit       *rate.Limiter
	running     sync.Mutex
	roll        func() float64
}

// NewSweeper cria um Sweeper. probability <= 0 desliga a limpeza; minInterval
// <= 0 não limita a frequência.
func NewSweeper(store domain.Store, probability float64, minInterval time.Duration) *Sweeper {
	s := &Sweeper{
		store:       store,
		probability: probability,
		roll:        rand.Float64,
	}
	if minInterval > 0 {
		s.limit = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return s
}

// MaybeSweep retorna true se a varredura rodou nesta chamada.
func (s *Sweeper) MaybeSweep(now time.Time) bool {
	if s == nil || s.store == nil || s.probability <= 0 {
		return false
	}
	if s.probability < 1 && s.roll() >= s.probability {
		return false
	}
	if !s.running.TryLock() {
		return false
	}
	defer s.running.Unlock()

	if s.limit != nil && !s.limit.AllowN(now, 1) {
		return false
	}
	if removed := s.store.Sweep(now); removed > 0 {
		log.Logger().Debug("swept expired rate limit entries", zap.Int("removed", removed))
	}
	return true
}
