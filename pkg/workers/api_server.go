package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type apiServer struct {
	addr   string
	router http.Handler
}

func NewAPIServer(addr string, router http.Handler) (*apiServer, error) {
	if addr == "" {
		return nil, fmt.Errorf("addr is empty")
	}
	return &apiServer{
		addr:   addr,
		router: router,
	}, nil
}

func (a *apiServer) Name() string { return "api_server" }

func (a *apiServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", a.Name(), "addr", a.addr)
	defer slog.Info("Worker stopped", "name", a.Name())

	server := &http.Server{
		Addr:              a.addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFn()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", a.addr, err)
	}
}
