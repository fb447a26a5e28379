package infra

import (
	"context"
	"strings"
	"sync"

	"devport-gateway/middleware/gate/domain"
)

type Counters struct {
	Allowed     int64 `json:"allowed"`
	RateLimited int64 `json:"rateLimited"`
	Redirected  int64 `json:"redirected"`
}

func (c *Counters) add(o domain.StatsOutcome) {
	switch o {
	case domain.StatsAllowed:
		c.Allowed++
	case domain.StatsRateLimited:
		c.RateLimited++
	case domain.StatsRedirected:
		c.Redirected++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e para o endpoint de stats do example-server.
//
// Não faz expiração; com WithTrackKeys a cardinalidade cresce com os clientes.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
	byKey   map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := routeField(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)

	c := s.byRoute[route]
	c.add(ev.Outcome)
	s.byRoute[route] = c

	if s.trackKeys {
		k := s.byKey[string(ev.Key)]
		k.add(ev.Outcome)
		s.byKey[string(ev.Key)] = k
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.byRoute)
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.byKey)
}

// routeField monta "<METHOD> <route>". Eventos sem Route caem em
// domain.OtherRoute.
func routeField(ev domain.StatsEvent) string {
	route := strings.TrimSpace(ev.Route)
	if route == "" {
		route = domain.OtherRoute
	}
	return strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + route)
}

func copyCounters(src map[string]Counters) map[string]Counters {
	out := make(map[string]Counters, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
