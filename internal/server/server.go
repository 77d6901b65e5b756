// Package server serves the song dashboard over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

type Options struct {
	// Requests per second allowed from one client. Defaults to 20.
	RateLimit rate.Limit
	Burst     int

	Logger *slog.Logger
}

type Server struct {
	http.Server
	agg       *analysis.Aggregator
	logger    *slog.Logger
	limiter   *rateLimiter
	templates *template.Template

	shutdownOnce sync.Once
}

// New builds a server for ds listening on addr.
func New(addr string, ds *dataset.Dataset, opts Options) (*Server, error) {
	if opts.RateLimit == 0 {
		opts.RateLimit = 20
	}
	if opts.Burst == 0 {
		opts.Burst = 40
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		agg:       analysis.New(ds),
		logger:    opts.Logger,
		limiter:   newRateLimiter(opts.RateLimit, opts.Burst),
		templates: t,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withAccessLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /api/{query}", s.handleAPI)
	mux.HandleFunc("GET /healthz", handleHealth)

	return s, nil
}

// Run serves until ctx is done, then drains open requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting song dashboard", "addr", ln.Addr().String())
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		s.logger.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
