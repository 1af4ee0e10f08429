package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rhymx/internal/shared"
	"golang.org/x/sync/singleflight"
)

// DefaultLookupTimeout bounds one shared pass over the providers.
const DefaultLookupTimeout = 30 * time.Second

// ChainProvider asks its providers in order and returns the first hit.
//
// Concurrent lookups of the same song share a single pass over the providers. The shared pass is detached from the
// callers' cancellation and bounded by its own timeout; each caller stops waiting when its own context ends.
type ChainProvider struct {
	providers []LyricsProvider
	logger    *log.Logger
	timeout   time.Duration
	group     singleflight.Group
}

// NewChainProvider creates a provider over providers. A nil logger discards output.
func NewChainProvider(logger *log.Logger, providers ...LyricsProvider) *ChainProvider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ChainProvider{providers: providers, logger: logger, timeout: DefaultLookupTimeout}
}

// WithTimeout sets the bound on a shared lookup. Non-positive values keep the default.
func (c *ChainProvider) WithTimeout(d time.Duration) *ChainProvider {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *ChainProvider) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Lookup returns the first lyrics found.
//
// When every provider misses the result is [shared.ErrLyricsNotFound]; when at least one failed for another reason
// and none found anything, the last such error is returned.
func (c *ChainProvider) Lookup(ctx context.Context, artist, title string) (string, error) {
	key := shared.NormalizeTrackKey(title, artist)
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.lookup(lctx, artist, title)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", shared.ErrTimeout, ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("shared lyrics lookup", "artist", artist, "title", title)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *ChainProvider) lookup(ctx context.Context, artist, title string) (string, error) {
	var lastErr error
	for _, p := range c.providers {
		lyrics, err := p.Lookup(ctx, artist, title)
		switch {
		case err == nil:
			c.logger.Debug("lyrics found", "provider", p.Name(), "artist", artist, "title", title)
			return lyrics, nil
		case errors.Is(err, shared.ErrLyricsNotFound):
			c.logger.Debug("lyrics not found", "provider", p.Name(), "artist", artist, "title", title)
		default:
			c.logger.Warn("lyrics lookup failed", "provider", p.Name(), "error", err)
			lastErr = err
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", shared.ErrTimeout, ctx.Err())
		}
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", shared.ErrLyricsNotFound
}

// NewLyricsProvider builds the provider chain named by cfg.Providers ("lrclib", "scrape").
func NewLyricsProvider(cfg shared.LyricsConfig, client *http.Client, logger *log.Logger) (*ChainProvider, error) {
	names := cfg.Providers
	if len(names) == 0 {
		names = []string{"lrclib"}
	}

	providers := make([]LyricsProvider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "lrclib":
			providers = append(providers, NewLRCLibProvider(cfg.LRCLib.URL, client, cfg.UserAgent))
		case "scrape":
			p, err := NewScrapeProvider(cfg.Scrape, client, cfg.UserAgent)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		default:
			return nil, fmt.Errorf("%w: unknown lyrics provider %q", shared.ErrInvalidConfig, name)
		}
	}

	return NewChainProvider(logger, providers...), nil
}
