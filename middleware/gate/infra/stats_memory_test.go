package infra

import (
	"context"
	"testing"

	"devport-gateway/middleware/gate/domain"
)

func TestMemoryStatsStore_CountsByOutcomeAndRoute(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	events := []domain.StatsEvent{
		{Key: "a", Outcome: domain.StatsAllowed, Method: "POST", Route: "/api/messages"},
		{Key: "a", Outcome: domain.StatsRateLimited, Method: "POST", Route: "/api/messages"},
		{Key: "b", Outcome: domain.StatsRedirected, Method: "GET", Route: "/dashboard"},
	}
	for _, ev := range events {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := s.Total(); got != (Counters{Allowed: 1, RateLimited: 1, Redirected: 1}) {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got := s.ByRoute()["POST /api/messages"]; got != (Counters{Allowed: 1, RateLimited: 1}) {
		t.Fatalf("unexpected route counters %+v", got)
	}
	if got := s.ByKey()["b"]; got.Redirected != 1 {
		t.Fatalf("expected key b redirected=1, got %+v", got)
	}
}

func TestMemoryStatsStore_KeysNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Key: "a", Outcome: domain.StatsAllowed})

	if len(s.ByKey()) != 0 {
		t.Fatalf("expected no per-key counters")
	}
}

func TestMemoryStatsStore_EmptyRouteFallsBackToOther(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Outcome: domain.StatsAllowed, Method: "GET"})

	if got := s.ByRoute()["GET "+domain.OtherRoute]; got.Allowed != 1 {
		t.Fatalf("expected event under the other label, got %v", s.ByRoute())
	}
}
