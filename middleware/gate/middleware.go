package gate

import (
	"net/http"
	"strings"
	"time"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/application"
	"devport-gateway/middleware/gate/domain"

	"go.uber.org/zap"
)

type Options struct {
	Pipeline *application.Pipeline
	// Stats é opcional. Use infra.AsyncStats para destinos com I/O.
	Stats domain.StatsStore
	// ClientIDFn padrão: ClientID.
	ClientIDFn    ClientIDFunc
	SessionCookie string
	// RedirectStatus padrão: 307.
	RedirectStatus int
	// Now é injetável para testes.
	Now func() time.Time
}

// Middleware executa o Pipeline uma vez por requisição, antes da aplicação.
// Rejeições e redirecionamentos são respondidos aqui e não chamam next; nos
// demais casos os headers de segurança são aplicados e next é chamado; eles
// são reaplicados com Set quando next escreve a resposta.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.ClientIDFn == nil {
		opts.ClientIDFn = ClientID
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = DefaultSessionCookie
	}
	if opts.RedirectStatus == 0 {
		opts.RedirectStatus = http.StatusTemporaryRedirect
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		if opts.Pipeline == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := opts.Now()
			req := domain.Request{
				ClientID:    opts.ClientIDFn(r),
				Method:      r.Method,
				Path:        r.URL.Path,
				RawQuery:    r.URL.RawQuery,
				AuthPresent: SessionPresent(r, opts.SessionCookie),
			}

			out := opts.Pipeline.Handle(req, now)
			record(r, opts.Stats, req, out, now)

			switch out.Kind {
			case domain.Reject:
				log.Logger().Debug("request rate limited",
					zap.String("client", req.ClientID),
					zap.String("method", req.Method),
					zap.String("path", req.Path),
					zap.Int("retryAfter", out.Rate.RetryAfter))
				writeRejection(w, out.Rate)
			case domain.Redirect:
				log.Logger().Debug("request redirected",
					zap.String("path", req.Path),
					zap.String("location", out.Location))
				writeRedirect(w, out.Location, opts.RedirectStatus)
			default:
				applyHeaders(w, out.Headers)
				next.ServeHTTP(&securityWriter{ResponseWriter: w, headers: out.Headers}, r)
			}
		})
	}
}

func record(r *http.Request, stats domain.StatsStore, req domain.Request, out domain.Outcome, now time.Time) {
	if stats == nil {
		return
	}

	ev := domain.StatsEvent{
		Key:     domain.Key(req.ClientID),
		Outcome: domain.StatsAllowed,
		Method:  statsMethod(req.Method),
		Route:   out.Route,
		At:      now,
	}
	if out.Rate.Policy != nil {
		ev.Key = domain.NewKey(req.ClientID, out.Rate.Policy.PathPrefix)
	}
	switch out.Kind {
	case domain.Reject:
		ev.Outcome = domain.StatsRateLimited
	case domain.Redirect:
		ev.Outcome = domain.StatsRedirected
	}

	// best-effort: erro de stats nunca derruba a requisição
	if err := stats.Record(r.Context(), ev); err != nil {
		log.Logger().Debug("failed to record gate stats", zap.Error(err))
	}
}

// statsMethod limita os métodos gravados aos conhecidos; o resto vira OTHER.
func statsMethod(m string) string {
	m = strings.ToUpper(m)
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	default:
		return "OTHER"
	}
}
