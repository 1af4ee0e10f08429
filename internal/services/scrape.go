// HTML search page implementation of [LyricsProvider]
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/rhymx/internal/shared"
)

// QueryPlaceholder marks where search terms go in a [ScrapeProvider] URL.
const QueryPlaceholder = "{query}"

var defaultSuffixes = []string{"lyrics", "song lyrics"}

// ScrapeProvider searches an HTML page for "<artist> <title> <suffix>" and reads the lyrics out of the first
// element matching a CSS selector.
type ScrapeProvider struct {
	api      *APIService
	template string
	selector string
	suffixes []string
}

// NewScrapeProvider creates a provider from cfg. The URL must contain [QueryPlaceholder] and a selector is required.
//
// Captured request headers are read from cfg.HeadersPath when set.
func NewScrapeProvider(cfg shared.ScrapeConfig, client *http.Client, userAgent string) (*ScrapeProvider, error) {
	if !strings.Contains(cfg.URL, QueryPlaceholder) {
		return nil, fmt.Errorf("%w: scrape url must contain %s", shared.ErrInvalidConfig, QueryPlaceholder)
	}

	if strings.TrimSpace(cfg.Selector) == "" {
		return nil, fmt.Errorf("%w: scrape selector is required", shared.ErrInvalidConfig)
	}

	api := NewAPIService("", client).WithUserAgent(userAgent)
	if cfg.HeadersPath != "" {
		headers, err := shared.ParseCurlFile(cfg.HeadersPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
		}
		api.WithHeaders(headers)
	}

	suffixes := cfg.Suffixes
	if len(suffixes) == 0 {
		suffixes = defaultSuffixes
	}

	return &ScrapeProvider{
		api:      api,
		template: cfg.URL,
		selector: cfg.Selector,
		suffixes: suffixes,
	}, nil
}

func (p *ScrapeProvider) Name() string {
	return "scrape"
}

// Lookup tries each suffix in order and returns the first non-empty match.
func (p *ScrapeProvider) Lookup(ctx context.Context, artist, title string) (string, error) {
	var lastErr error
	for _, suffix := range p.suffixes {
		lyrics, err := p.search(ctx, strings.Join([]string{artist, title, suffix}, " "))
		switch {
		case err == nil:
			return lyrics, nil
		case errors.Is(err, shared.ErrLyricsNotFound):
			continue
		default:
			lastErr = err
		}
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", shared.ErrLyricsNotFound
}

func (p *ScrapeProvider) search(ctx context.Context, query string) (string, error) {
	target := strings.ReplaceAll(p.template, QueryPlaceholder, url.QueryEscape(query))

	resp, err := p.api.Get(ctx, target, nil)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", shared.ErrLyricsNotFound
	}

	if !resp.OK() {
		return "", fmt.Errorf("%w: search returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse HTML: %w", shared.ErrAPIRequest, err)
	}

	if lyrics := ExtractLyrics(doc.Selection, p.selector); lyrics != "" {
		return lyrics, nil
	}
	return "", shared.ErrLyricsNotFound
}

// ExtractLyrics returns the text of the first element under sel matching selector, with <br> as line breaks.
func ExtractLyrics(sel *goquery.Selection, selector string) string {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return ""
	}

	match.Find("br").ReplaceWithHtml("\n")

	lines := strings.Split(match.Text(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
