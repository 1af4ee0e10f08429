package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

// DefaultRequestTimeout bounds every collaborator call made on behalf of a request.
const DefaultRequestTimeout = 10 * time.Second

type relay struct {
	logger  *log.Logger
	metrics *Metrics
	timeout time.Duration
}

func newRelay(logger *log.Logger, metrics *Metrics, timeout time.Duration) relay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return relay{logger: logger, metrics: metrics, timeout: timeout}
}

func (h relay) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithTimeout(ctx, DefaultRequestTimeout)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// respond writes v as a 200 JSON body. The status line is already sent when encoding or writing fails, so the
// failure can only be logged.
func (h relay) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		h.logger.Warn("failed to write response", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
}

func (h relay) countTokens(kind, result string) {
	if h.metrics != nil {
		h.metrics.TokenRequestsTotal.WithLabelValues(kind, result).Inc()
	}
}

func (h relay) countLyrics(result string) {
	if h.metrics != nil {
		h.metrics.LyricsLookupsTotal.WithLabelValues(result).Inc()
	}
}

// LoginHandler exchanges an authorization code for tokens.
type LoginHandler struct {
	relay
	tokens services.TokenService
}

// NewLoginHandler creates the POST /login handler.
func NewLoginHandler(tokens services.TokenService, logger *log.Logger, metrics *Metrics, timeout time.Duration) *LoginHandler {
	return &LoginHandler{relay: newRelay(logger, metrics, timeout), tokens: tokens}
}

func (h *LoginHandler) Routes() []string {
	return []string{"/login"}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := bind(r, &req); err != nil {
		h.logger.Debug("rejected login", "error", err, "request_id", RequestID(r.Context()))
		h.countTokens("login", "missing")
		writeStatus(w, statusFor(err))
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	grant, err := h.tokens.ExchangeCode(ctx, req.Code)
	if err != nil {
		h.logger.Warn("code exchange failed", "service", h.tokens.Name(), "error", err, "request_id", RequestID(r.Context()))
		h.countTokens("login", "failed")
		writeStatus(w, http.StatusBadRequest)
		return
	}

	h.logger.Info("logged in", "service", h.tokens.Name(), "expires_in", grant.ExpiresIn, "request_id", RequestID(r.Context()))
	h.countTokens("login", "ok")
	h.respond(w, r, models.LoginResponse{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
	})
}

// RefreshHandler exchanges a refresh token for a new access token.
type RefreshHandler struct {
	relay
	tokens services.TokenService
}

// NewRefreshHandler creates the POST /refresh handler.
func NewRefreshHandler(tokens services.TokenService, logger *log.Logger, metrics *Metrics, timeout time.Duration) *RefreshHandler {
	return &RefreshHandler{relay: newRelay(logger, metrics, timeout), tokens: tokens}
}

func (h *RefreshHandler) Routes() []string {
	return []string{"/refresh"}
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := bind(r, &req); err != nil {
		h.logger.Debug("rejected refresh", "error", err, "request_id", RequestID(r.Context()))
		h.countTokens("refresh", "missing")
		writeStatus(w, statusFor(err))
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	grant, err := h.tokens.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Warn("token refresh failed", "service", h.tokens.Name(), "error", err, "request_id", RequestID(r.Context()))
		h.countTokens("refresh", "failed")
		writeStatus(w, http.StatusBadRequest)
		return
	}

	h.countTokens("refresh", "ok")
	h.respond(w, r, models.RefreshResponse{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
	})
}

// LyricsHandler looks lyrics up and annotates them with rhymes.
type LyricsHandler struct {
	relay
	lyrics   services.LyricsProvider
	analyzer *rhyme.Analyzer
}

// NewLyricsHandler creates the POST /lyrics handler. A nil analyzer uses the defaults of [rhyme.NewAnalyzer].
func NewLyricsHandler(lyrics services.LyricsProvider, analyzer *rhyme.Analyzer, logger *log.Logger, metrics *Metrics, timeout time.Duration) *LyricsHandler {
	if analyzer == nil {
		analyzer = rhyme.NewAnalyzer()
	}
	return &LyricsHandler{relay: newRelay(logger, metrics, timeout), lyrics: lyrics, analyzer: analyzer}
}

func (h *LyricsHandler) Routes() []string {
	return []string{"/lyrics"}
}

// ServeHTTP answers 200 for found and not-found songs alike; a miss carries the placeholder text and no rhymes.
func (h *LyricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.LyricsRequest
	if err := bind(r, &req); err != nil {
		h.logger.Debug("rejected lyrics request", "error", err, "request_id", RequestID(r.Context()))
		h.countLyrics("missing")
		writeStatus(w, statusFor(err))
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	text, err := h.lyrics.Lookup(ctx, req.Artist, req.Title)
	switch {
	case errors.Is(err, shared.ErrLyricsNotFound):
		h.logger.Info("lyrics not found", "artist", req.Artist, "title", req.Title, "request_id", RequestID(r.Context()))
		h.countLyrics("not_found")
		text = rhyme.Placeholder
	case err != nil:
		h.logger.Error("lyrics lookup failed", "provider", h.lyrics.Name(), "error", err, "request_id", RequestID(r.Context()))
		h.countLyrics("error")
		writeStatus(w, http.StatusBadGateway)
		return
	default:
		h.countLyrics("found")
	}

	result := h.analyzer.Analyze(text)
	if h.metrics != nil {
		h.metrics.RhymeGroups.Observe(float64(len(result.Groups)))
	}

	h.respond(w, r, models.LyricsResponse{Lyrics: text, Rhymes: result})
}

// AuthorizeHandler redirects the client to the provider's authorization page with a fresh state.
type AuthorizeHandler struct {
	tokens services.TokenService
}

func NewAuthorizeHandler(tokens services.TokenService) *AuthorizeHandler {
	return &AuthorizeHandler{tokens: tokens}
}

func (h *AuthorizeHandler) Routes() []string {
	return []string{"/authorize"}
}

func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.tokens.AuthURL(shared.GenerateID()), http.StatusFound)
}

// HealthHandler reports liveness.
type HealthHandler struct {
	relay
	started time.Time
	version string
	checks  map[string]string
}

// NewHealthHandler creates the GET /healthz handler. checks are static facts reported as-is, e.g. provider names.
func NewHealthHandler(version string, checks map[string]string, logger *log.Logger) *HealthHandler {
	return &HealthHandler{relay: newRelay(logger, nil, 0), started: time.Now(), version: version, checks: checks}
}

func (h *HealthHandler) Routes() []string {
	return []string{"/healthz"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  h.checks,
	})
}
