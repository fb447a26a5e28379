package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"

	"devport-gateway/middleware/gate/domain"
)

// routesFile é o formato do GATE_ROUTES_FILE. Campos ausentes mantêm o valor
// vindo do ambiente.
//
//	ratePolicies:
//	  - prefix: /api/messages
//	    limit: 5
//	    window: 60s
//	protectedPrefixes: [/dashboard]
//	authOnlyPaths: [/login, /register]
type routesFile struct {
	RatePolicies []struct {
		Prefix string `json:"prefix"`
		Limit  int    `json:"limit"`
		Window string `json:"window"`
	} `json:"ratePolicies"`
	ProtectedPrefixes []string `json:"protectedPrefixes"`
	AuthOnlyPaths     []string `json:"authOnlyPaths"`
	LoginPath         string   `json:"loginPath"`
	DashboardPath     string   `json:"dashboardPath"`
}

func applyRoutesFile(path string, routes *domain.Routes) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read routes file: %w", err)
	}
	return applyRoutesYAML(data, routes)
}

func applyRoutesYAML(data []byte, routes *domain.Routes) error {
	var f routesFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return fmt.Errorf("%w: routes file: %v", ErrInvalid, err)
	}

	if f.RatePolicies != nil {
		policies := make([]domain.RoutePolicy, 0, len(f.RatePolicies))
		for _, p := range f.RatePolicies {
			window, err := time.ParseDuration(p.Window)
			if err != nil {
				return fmt.Errorf("%w: routes file: invalid window for %s: %v", ErrInvalid, p.Prefix, err)
			}
			policies = append(policies, domain.RoutePolicy{PathPrefix: p.Prefix, Limit: p.Limit, Window: window})
		}
		routes.RatePolicies = policies
	}
	if f.ProtectedPrefixes != nil {
		routes.ProtectedPrefixes = f.ProtectedPrefixes
	}
	if f.AuthOnlyPaths != nil {
		routes.AuthOnlyPaths = f.AuthOnlyPaths
	}
	if f.LoginPath != "" {
		routes.LoginPath = f.LoginPath
	}
	if f.DashboardPath != "" {
		routes.DashboardPath = f.DashboardPath
	}
	return nil
}
