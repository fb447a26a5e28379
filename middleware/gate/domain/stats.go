package domain

import (
	"context"
	"time"
)

// StatsOutcome é o rótulo registrado para cada decisão do gate.
type StatsOutcome string

const (
	StatsAllowed     StatsOutcome = "allowed"
	StatsRateLimited StatsOutcome = "rate_limited"
	StatsRedirected  StatsOutcome = "redirected"
)

// StatsEvent representa uma decisão do gate.
//
// Route é o rótulo da rota (ver Outcome.Route), nunca o path cru: a
// cardinalidade fica limitada pela configuração. Key continua crescendo com os
// clientes, por isso só é gravada por key quando habilitado.
type StatsEvent struct {
	Key     Key
	Outcome StatsOutcome

	Method string
	Route  string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do gate.
//
// Implementações podem armazenar em Redis, memória, etc.
// Quem chama deve tratar erro como best-effort (não derrubar request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
