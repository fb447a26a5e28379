package application

import (
	"time"

	"devport-gateway/middleware/gate/domain"
)

// Sweeper é a limpeza oportunista do store, chamada após cada Check.
type Sweeper interface {
	MaybeSweep(now time.Time) bool
}

// RateLimiter aplica um contador de janela fixa por (cliente, política).
//
// É uma aproximação: na virada da janela até 2×Limit requisições podem passar
// em sequência. Trocar por janela deslizante é mudança de comportamento.
type RateLimiter struct {
	Classifier *Classifier
	Store      domain.Store
	// Sweeper é opcional.
	Sweeper Sweeper
}

func (l *RateLimiter) Check(clientID, path, method string, now time.Time) domain.RateVerdict {
	if l.Store == nil || l.Classifier == nil {
		return domain.RateVerdict{Allowed: true}
	}

	policy := l.Classifier.Policy(path, method)
	if policy == nil {
		return domain.RateVerdict{Allowed: true}
	}

	verdict := domain.RateVerdict{Allowed: true, Policy: policy}
	l.Store.Update(domain.NewKey(clientID, policy.PathPrefix), func(cur domain.Entry, ok bool) (domain.Entry, bool) {
		// ausente, corrompida ou expirada: nova janela
		if !ok || !cur.Valid() || cur.Expired(now) {
			return domain.Entry{Count: 1, ResetAt: now.Add(policy.Window)}, true
		}
		if cur.Count >= policy.Limit {
			verdict = domain.RateVerdict{
				Allowed:    false,
				Policy:     policy,
				Limit:      policy.Limit,
				RetryAfter: retryAfterSeconds(cur.ResetAt.Sub(now)),
				ResetAt:    cur.ResetAt,
			}
			return cur, false
		}
		cur.Count++
		return cur, true
	})

	if l.Sweeper != nil {
		l.Sweeper.MaybeSweep(now)
	}
	return verdict
}

// retryAfterSeconds arredonda para cima e nunca retorna menos que 1.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
