package application

import (
	"strings"

	"devport-gateway/middleware/gate/domain"
)

// Classifier é a fonte única de verdade da classificação de rotas, consumida
// pelo RateLimiter e pelo AccessGate.
type Classifier struct {
	routes domain.Routes
}

// NewClassifier copia a configuração; mudanças posteriores no valor passado
// não afetam o classifier.
func NewClassifier(routes domain.Routes) *Classifier {
	routes.RatePolicies = append([]domain.RoutePolicy(nil), routes.RatePolicies...)
	routes.ProtectedPrefixes = append([]string(nil), routes.ProtectedPrefixes...)
	routes.AuthOnlyPaths = append([]string(nil), routes.AuthOnlyPaths...)
	return &Classifier{routes: routes}
}

func (c *Classifier) Classify(path, method string) domain.RouteClass {
	return domain.RouteClass{
		Policy:    c.Policy(path, method),
		Protected: c.IsProtected(path),
		AuthOnly:  c.IsAuthOnly(path),
	}
}

// Policy retorna a primeira política (em ordem de declaração) cujo prefixo
// casa com path. Só métodos que alteram estado são limitados.
func (c *Classifier) Policy(path, method string) *domain.RoutePolicy {
	if !isMutating(method) {
		return nil
	}
	for i := range c.routes.RatePolicies {
		if strings.HasPrefix(path, c.routes.RatePolicies[i].PathPrefix) {
			return &c.routes.RatePolicies[i]
		}
	}
	return nil
}

func (c *Classifier) IsProtected(path string) bool {
	for _, p := range c.routes.ProtectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RouteLabel devolve um rótulo cujos valores possíveis vêm só da
// configuração: prefixo da política aplicada, prefixo protegido que casou,
// path auth-only ou domain.OtherRoute.
func (c *Classifier) RouteLabel(path, method string) string {
	if p := c.Policy(path, method); p != nil {
		return p.PathPrefix
	}
	for _, p := range c.routes.ProtectedPrefixes {
		if strings.HasPrefix(path, p) {
			return p
		}
	}
	if c.IsAuthOnly(path) {
		return path
	}
	return domain.OtherRoute
}

// IsAuthOnly usa igualdade exata, não prefixo.
func (c *Classifier) IsAuthOnly(path string) bool {
	for _, p := range c.routes.AuthOnlyPaths {
		if path == p {
			return true
		}
	}
	return false
}

// Conflicts lista os paths auth-only que também caem num prefixo protegido.
// Não é fatal: a regra de protegido vence pela ordem de avaliação.
func (c *Classifier) Conflicts() []string {
	var out []string
	for _, p := range c.routes.AuthOnlyPaths {
		if c.IsProtected(p) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Classifier) LoginPath() string     { return c.routes.LoginPath }
func (c *Classifier) DashboardPath() string { return c.routes.DashboardPath }

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "DELETE":
		return true
	default:
		return false
	}
}
