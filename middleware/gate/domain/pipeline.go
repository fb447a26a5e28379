package domain

import "fmt"

// Request contém só o que o gate consome de uma requisição HTTP.
type Request struct {
	ClientID string
	Method   string
	Path     string
	RawQuery string
	// AuthPresent é um sinal de presença do cookie de sessão, não de validade.
	AuthPresent bool
}

type OutcomeKind int

const (
	// Continue deixa a requisição seguir para a aplicação.
	Continue OutcomeKind = iota
	// Reject é uma resposta terminal 429.
	Reject
	// Redirect é uma resposta terminal 3xx.
	Redirect
)

func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Reject:
		return "reject"
	case Redirect:
		return "redirect"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome é a decisão única do pipeline para uma requisição.
type Outcome struct {
	Kind OutcomeKind
	// Rate é o veredicto do rate limit (Allowed=true fora de Reject).
	Rate RateVerdict
	// Location é o destino quando Kind == Redirect.
	Location string
	// Route é o rótulo da rota para estatísticas: prefixo da política, prefixo
	// protegido, path auth-only ou OtherRoute.
	Route string
	// Headers são os headers de segurança a mesclar na resposta downstream
	// quando Kind == Continue.
	Headers map[string]string
}
