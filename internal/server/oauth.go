package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

// CallbackResult is the outcome of one authorization code callback.
type CallbackResult struct {
	Grant *services.TokenGrant
	Err   error
}

// CallbackHandler receives the provider redirect during `rhymx auth login`.
//
// It checks the state, exchanges the code through a [services.TokenService] and delivers exactly one
// [CallbackResult]. Later callbacks are refused.
type CallbackHandler struct {
	tokens  services.TokenService
	state   string
	path    string
	timeout time.Duration

	results chan CallbackResult
	once    sync.Once
	mu      sync.Mutex
	hit     bool
}

// NewCallbackHandler creates a callback handler for path that expects state. An empty path serves "/callback".
func NewCallbackHandler(tokens services.TokenService, state, path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		tokens:  tokens,
		state:   state,
		path:    path,
		timeout: DefaultRequestTimeout,
		results: make(chan CallbackResult, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.send(CallbackResult{Err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))
		h.send(CallbackResult{Err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	grant, err := h.tokens.ExchangeCode(ctx, code)
	if err != nil {
		h.send(CallbackResult{Err: err})
		http.Error(w, "Token exchange failed", http.StatusBadGateway)
		return
	}

	h.send(CallbackResult{Grant: grant})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, successPage, h.tokens.Name())
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>rhymx</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Signed in to %s</h1>
        <p>Your tokens are in the terminal. You can close this window.</p>
    </div>
</body>
</html>
`
