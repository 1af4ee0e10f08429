package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/server"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultLoginTimeout = 2 * time.Minute

// AuthURL prints the authorization URL a client should send the user to.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	tokens, err := r.tokenService()
	if err != nil {
		return err
	}

	authURL := tokens.AuthURL(shared.GenerateID())
	if err := r.writePlain("%s\n", authURL); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

// AuthLogin runs the authorization code flow against a temporary callback server and prints the tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	tokens, err := r.tokenService()
	if err != nil {
		return err
	}

	addr, err := callbackAddr(r.config)
	if err != nil {
		return err
	}

	grant, err := r.doOAuth(ctx, tokens, addr, cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	resp := models.LoginResponse{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
	}
	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}

	r.writePlain("✓ Signed in to %s\n", tokens.Name())
	r.writePlain("  Access token: %s\n", resp.AccessToken)
	r.writePlain("  Refresh token: %s\n", resp.RefreshToken)
	return r.writePlain("  Expires in: %ds\n", resp.ExpiresIn)
}

// callbackAddr is the listen address for the redirect URI's host, falling back to the server address.
func callbackAddr(config *shared.Config) (string, error) {
	u, err := url.Parse(config.Credentials.Spotify.DomainURI)
	if err != nil {
		return "", fmt.Errorf("%w: domain_uri: %w", shared.ErrInvalidConfig, err)
	}
	if u.Host == "" {
		return config.Server.Addr(), nil
	}
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), "80"), nil
	}
	return u.Host, nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, tokens services.TokenService, addr string, timeout time.Duration) (*services.TokenGrant, error) {
	state := shared.GenerateID()

	handler := server.NewCallbackHandler(tokens, state, r.config.Credentials.Spotify.RedirectPath)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Mount(http.MethodGet, handler)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for callback on %s: %w", addr, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("waiting for OAuth callback at %v", addr)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := tokens.AuthURL(state)
	r.writePlain("→ Opening browser for %s...\n", tokens.Name())
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Err != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Err)
	}
	if result.Grant == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Grant, nil
}
