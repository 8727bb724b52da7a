// Package pprof runs an optional profiling HTTP server for operators.
//
// Security: bind to localhost (the default). Binding to a non-loopback
// address requires a token; requests must then carry it in the
// X-Pprof-Token header.
package pprof

import (
	"context"
	"errors"
	"net"
	"net/http"
	hpprof "net/http/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Enabled bool
	Addr    string
	Token   string
}

type Service struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6060"
	}
	return &Service{cfg: cfg, log: log.With().Str("component", "pprof").Logger()}
}

// Run serves profiling endpoints until ctx is done. It returns immediately
// when the service is disabled.
func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	if !isLoopback(s.cfg.Addr) && s.cfg.Token == "" {
		return errors.New("pprof: refusing to bind a non-loopback address without a token")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", hpprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", hpprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", hpprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", hpprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", hpprof.Trace)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.withToken(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("pprof server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Service) withToken(next http.Handler) http.Handler {
	if s.cfg.Token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Pprof-Token") != s.cfg.Token {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "" || strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
