package application

import (
	"sync"
	"time"

	"devport-gateway/middleware/gate/domain"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testRoutes() domain.Routes {
	return domain.Routes{
		RatePolicies: []domain.RoutePolicy{
			{PathPrefix: "/api/auth/register", Limit: 2, Window: time.Hour},
			{PathPrefix: "/api/auth", Limit: 10, Window: 15 * time.Minute},
			{PathPrefix: "/api/messages", Limit: 5, Window: time.Minute},
		},
		ProtectedPrefixes: []string{"/dashboard"},
		AuthOnlyPaths:     []string{"/login", "/register"},
		LoginPath:         "/login",
		DashboardPath:     "/dashboard",
	}
}

// mapStore é um domain.Store mínimo para os testes desta camada.
type mapStore struct {
	mu      sync.Mutex
	entries map[domain.Key]domain.Entry
	swept   int
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[domain.Key]domain.Entry)}
}

func (s *mapStore) Get(k domain.Key) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	return e, ok
}

func (s *mapStore) Put(k domain.Key, e domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[k] = e
}

func (s *mapStore) Update(k domain.Key, fn func(domain.Entry, bool) (domain.Entry, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.entries[k]
	if next, write := fn(cur, ok); write {
		s.entries[k] = next
	}
}

func (s *mapStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swept++
	return 0
}

type countingSweeper struct{ calls int }

func (c *countingSweeper) MaybeSweep(time.Time) bool {
	c.calls++
	return false
}
