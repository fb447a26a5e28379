package gate

import (
	"net/http"
	"time"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/application"
	"devport-gateway/middleware/gate/infra"

	"go.uber.org/zap"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
}

// ConcurrencyMiddleware limita requisições em voo. Com Max <= 0 é um no-op.
// Fica por fora do gate: pode esperar até AcquireTimeout por uma vaga.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				inUse, capacity := svc.InFlight()
				log.Logger().Warn("concurrency limit reached",
					zap.String("path", r.URL.Path),
					zap.Int("inUse", inUse),
					zap.Int("cap", capacity))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
