package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccastromar/gemcli/internal/logx"
	"github.com/ccastromar/gemcli/internal/metrics"
	mockGemini "github.com/ccastromar/gemcli/internal/mocks/gemini"
)

func buildMux() *http.ServeMux {
	mux := http.NewServeMux()
	mockGemini.RegisterHandlers(mux)
	mux.HandleFunc("/metrics", metrics.ServeHTTP)
	return mux
}

func serve(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logx.Info("Mock", "listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	port := flag.String("port", "9000", "HTTP port to listen on")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + *port, Handler: buildMux()}
	if err := serve(ctx, srv); err != nil {
		logx.Error("Mock", "server: %v", err)
		os.Exit(1)
	}
}
