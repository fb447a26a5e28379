package gate

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient é usado quando a requisição não traz nenhum endereço.
const UnknownClient = "unknown"

// ClientIDFunc extrai o identificador do cliente usado nas chaves do rate limit.
type ClientIDFunc func(r *http.Request) string

// ClientID usa o primeiro IP do X-Forwarded-For (cliente original), depois o
// X-Real-IP, depois o host de RemoteAddr.
//
// Valores malformados são usados literalmente: o rate limit continua
// funcionando, só com uma chave estranha.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	// fallback: RemoteAddr
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return UnknownClient
}
