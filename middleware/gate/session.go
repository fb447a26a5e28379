package gate

import "net/http"

const (
	// DefaultSessionCookie é o nome do cookie de sessão emitido pela aplicação.
	DefaultSessionCookie = "authjs.session-token"
	// SecureCookiePrefix é usado pela aplicação em deploys com TLS.
	SecureCookiePrefix = "__Secure-"
)

// SessionPresent indica se a requisição traz o cookie de sessão, na variante
// simples ou na "__Secure-". É só presença: a assinatura e a validade são
// verificadas pela aplicação depois do gate.
func SessionPresent(r *http.Request, name string) bool {
	if name == "" {
		name = DefaultSessionCookie
	}
	for _, n := range [...]string{name, SecureCookiePrefix + name} {
		if c, err := r.Cookie(n); err == nil && c.Value != "" {
			return true
		}
	}
	return false
}
