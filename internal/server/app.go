package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

// Deps are the collaborators the relay delegates to.
type Deps struct {
	Tokens   services.TokenService
	Lyrics   services.LyricsProvider
	Analyzer *rhyme.Analyzer // nil uses line-end exact rhymes
	Metrics  *Metrics        // nil disables /metrics and request metrics
	Version  string
}

// Server is the rhymx relay: token exchange, lyrics lookup and rhyme annotation behind one HTTP API.
type Server struct {
	cfg     shared.ServerConfig
	logger  *log.Logger
	router  *BasicRouter
	metrics *Metrics
}

// New wires the relay routes.
//
// Every route runs behind panic recovery, request logging, metrics (when enabled) and CORS.
func New(cfg shared.ServerConfig, deps Deps, logger *log.Logger) (*Server, error) {
	if deps.Tokens == nil {
		return nil, fmt.Errorf("%w: token service", shared.ErrMissingArgument)
	}
	if deps.Lyrics == nil {
		return nil, fmt.Errorf("%w: lyrics provider", shared.ErrMissingArgument)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cors := DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.AllowedOrigins
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}
	router.Use(Recover(logger), CORS(cors))

	router.Mount(http.MethodPost, NewLoginHandler(deps.Tokens, logger, deps.Metrics, cfg.RequestTimeout))
	router.Mount(http.MethodPost, NewRefreshHandler(deps.Tokens, logger, deps.Metrics, cfg.RequestTimeout))
	router.Mount(http.MethodPost, NewLyricsHandler(deps.Lyrics, deps.Analyzer, logger, deps.Metrics, cfg.RequestTimeout))
	router.Mount(http.MethodGet, NewAuthorizeHandler(deps.Tokens))
	router.Mount(http.MethodGet, NewHealthHandler(deps.Version, map[string]string{
		"tokens": deps.Tokens.Name(),
		"lyrics": deps.Lyrics.Name(),
	}, logger))
	if deps.Metrics != nil {
		router.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return &Server{cfg: cfg, logger: logger, router: router, metrics: deps.Metrics}, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("relay listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info("shutting down relay", "timeout", timeout)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
