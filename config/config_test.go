package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"devport-gateway/middleware/gate/domain"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":8080" || cfg.Production {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Routes.LoginPath != "/login" || cfg.Routes.DashboardPath != "/dashboard" {
		t.Fatalf("unexpected paths %+v", cfg.Routes)
	}
	if len(cfg.Routes.RatePolicies) != 5 || cfg.Routes.RatePolicies[0].PathPrefix != "/api/auth/register" {
		t.Fatalf("unexpected default policies %+v", cfg.Routes.RatePolicies)
	}
	if cfg.Store.SweepProbability != 0.01 || cfg.Store.Shards != 32 {
		t.Fatalf("unexpected store defaults %+v", cfg.Store)
	}
}

func TestFromEnv_ProductionFromAppEnv(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"APP_ENV": "Production"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Production {
		t.Fatalf("expected production from APP_ENV")
	}

	cfg, err = FromEnv(envOf(map[string]string{"APP_ENV": "production", "GATE_PRODUCTION": "false"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Production {
		t.Fatalf("expected GATE_PRODUCTION to override APP_ENV")
	}
}

func TestFromEnv_Lists(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PROTECTED_PREFIXES": "/dashboard, /admin ,",
		"AUTH_ONLY_PATHS":    "/signin",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Routes.ProtectedPrefixes) != 2 || cfg.Routes.ProtectedPrefixes[1] != "/admin" {
		t.Fatalf("unexpected protected prefixes %v", cfg.Routes.ProtectedPrefixes)
	}
	if len(cfg.Routes.AuthOnlyPaths) != 1 || cfg.Routes.AuthOnlyPaths[0] != "/signin" {
		t.Fatalf("unexpected auth-only paths %v", cfg.Routes.AuthOnlyPaths)
	}
}

func TestParsePolicies_KeepsOrder(t *testing.T) {
	got, err := ParsePolicies("/api:100:1m, /api/messages:5:60s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.RoutePolicy{
		{PathPrefix: "/api", Limit: 100, Window: time.Minute},
		{PathPrefix: "/api/messages", Limit: 5, Window: time.Minute},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad policy format": {"RATE_POLICIES": "/api:5"},
		"bad policy limit":  {"RATE_POLICIES": "/api:x:1m"},
		"zero limit":        {"RATE_POLICIES": "/api:0:1m"},
		"bad window":        {"RATE_POLICIES": "/api:5:soon"},
		"zero window":       {"RATE_POLICIES": "/api:5:0s"},
		"probability":       {"SWEEP_PROBABILITY": "1.5"},
		"bad bool":          {"GATE_PRODUCTION": "maybe"},
		"bad int":           {"STORE_SHARDS": "many"},
		"login path":        {"LOGIN_PATH": "login"},
		"stats no redis":    {"RATE_STATS_ENABLED": "true"},
		"negative max":      {"CONCURRENCY_MAX": "-1"},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(m))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFromEnv_RoutesFileOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	data := []byte(`
ratePolicies:
  - prefix: /api/messages
    limit: 3
    window: 30s
protectedPrefixes: [/dashboard, /settings]
dashboardPath: /dashboard/home
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write routes file: %v", err)
	}

	cfg, err := FromEnv(envOf(map[string]string{
		"GATE_ROUTES_FILE":   path,
		"PROTECTED_PREFIXES": "/ignored",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Routes.RatePolicies) != 1 || cfg.Routes.RatePolicies[0] != (domain.RoutePolicy{PathPrefix: "/api/messages", Limit: 3, Window: 30 * time.Second}) {
		t.Fatalf("unexpected policies %+v", cfg.Routes.RatePolicies)
	}
	if len(cfg.Routes.ProtectedPrefixes) != 2 {
		t.Fatalf("unexpected protected prefixes %v", cfg.Routes.ProtectedPrefixes)
	}
	if cfg.Routes.DashboardPath != "/dashboard/home" || cfg.Routes.LoginPath != "/login" {
		t.Fatalf("unexpected paths %+v", cfg.Routes)
	}
	if len(cfg.Routes.AuthOnlyPaths) != 2 {
		t.Fatalf("expected auth-only paths from defaults, got %v", cfg.Routes.AuthOnlyPaths)
	}
}

func TestApplyRoutesYAML_RejectsUnknownFields(t *testing.T) {
	var routes domain.Routes
	err := applyRoutesYAML([]byte("protected: [/dashboard]\n"), &routes)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown field, got %v", err)
	}
}

func TestFromEnv_MissingRoutesFile(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{"GATE_ROUTES_FILE": "/does/not/exist.yaml"}))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
