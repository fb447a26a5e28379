// Package server concentra o ciclo de vida HTTP dos binários: serve até o
// contexto encerrar e então faz o graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// StopFunc roda depois do Shutdown, com o mesmo prazo (ex.: drenar stats).
type StopFunc func(ctx context.Context) error

// Run serve srv em ln (ou em srv.Addr quando ln é nil) até ctx encerrar.
// Depois espera as requisições em voo por até timeout e executa onStop em
// ordem. Só retorna quando tudo isso terminou, então os defers de quem chama
// (ex.: fechar o cliente Redis) rodam com a fila já drenada.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, onStop ...StopFunc) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	for _, stop := range onStop {
		if err := stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("serve: %w", err))
	}
	return errors.Join(errs...)
}
