package application

import (
	"time"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/domain"

	"go.uber.org/zap"
)

// Pipeline é a raiz de composição executada uma vez por requisição:
// RateLimiter, depois AccessGate, depois SecurityHeaders. A primeira decisão
// terminal encerra a sequência.
type Pipeline struct {
	Limiter    *RateLimiter
	Access     *AccessGate
	Production bool
}

// NewPipeline monta o pipeline com um único Classifier compartilhado.
// Conflitos de configuração (path protegido e auth-only ao mesmo tempo) viram
// warning de startup.
func NewPipeline(routes domain.Routes, store domain.Store, sweeper Sweeper, production bool) *Pipeline {
	c := NewClassifier(routes)
	for _, p := range c.Conflicts() {
		log.Logger().Warn("path is both protected and auth-only; protected rule wins",
			zap.String("path", p))
	}

	return &Pipeline{
		Limiter:    &RateLimiter{Classifier: c, Store: store, Sweeper: sweeper},
		Access:     &AccessGate{Classifier: c},
		Production: production,
	}
}

// Handle só altera estado no RateLimiter (contador ou nova janela). O
// veredicto do rate limit vai em Outcome.Rate para qualquer Kind.
func (p *Pipeline) Handle(req domain.Request, now time.Time) domain.Outcome {
	route := p.routeLabel(req)

	rate := domain.RateVerdict{Allowed: true}
	if p.Limiter != nil {
		rate = p.Limiter.Check(req.ClientID, req.Path, req.Method, now)
		if !rate.Allowed {
			return domain.Outcome{Kind: domain.Reject, Rate: rate, Route: route}
		}
	}

	if v := p.Access.Decide(req.Path, req.RawQuery, req.Method, req.AuthPresent); v.Redirect {
		return domain.Outcome{Kind: domain.Redirect, Rate: rate, Route: route, Location: v.Target}
	}

	return domain.Outcome{Kind: domain.Continue, Rate: rate, Route: route, Headers: SecurityHeaders(p.Production)}
}

func (p *Pipeline) routeLabel(req domain.Request) string {
	var c *Classifier
	switch {
	case p.Limiter != nil && p.Limiter.Classifier != nil:
		c = p.Limiter.Classifier
	case p.Access != nil && p.Access.Classifier != nil:
		c = p.Access.Classifier
	default:
		return domain.OtherRoute
	}
	return c.RouteLabel(req.Path, req.Method)
}
