package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
	tu "github.com/desertthunder/rhymx/internal/testing"
)

const lyricsPage = `<html><body>
<div class="result"><div class="lyrics">I walked the street<br>And felt the heat<br/>  </div></div>
<div class="lyrics">second match</div>
</body></html>`

func TestScrapeProvider(t *testing.T) {
	t.Run("NewScrapeProvider", func(t *testing.T) {
		t.Run("Requires Query Placeholder", func(t *testing.T) {
			_, err := services.NewScrapeProvider(shared.ScrapeConfig{URL: "http://example.com", Selector: "div"}, nil, "")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Requires Selector", func(t *testing.T) {
			_, err := services.NewScrapeProvider(shared.ScrapeConfig{URL: "http://example.com/?q={query}"}, nil, "")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Invalid Headers File", func(t *testing.T) {
			_, err := services.NewScrapeProvider(shared.ScrapeConfig{
				URL:         "http://example.com/?q={query}",
				Selector:    "div",
				HeadersPath: filepath.Join(t.TempDir(), "missing.sh"),
			}, nil, "")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Lookup", func(t *testing.T) {
		var mu sync.Mutex
		var queries []string
		var cookies []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query().Get("q")
			mu.Lock()
			queries = append(queries, q)
			cookies = append(cookies, r.Header.Get("Cookie"))
			mu.Unlock()

			switch {
			case strings.HasPrefix(q, "Broken"):
				w.WriteHeader(http.StatusTooManyRequests)
			case q == "Artist Title song lyrics":
				w.Write([]byte(lyricsPage))
			case strings.HasPrefix(q, "Gone"):
				w.WriteHeader(http.StatusNotFound)
			default:
				w.Write([]byte(`<html><body><p>nothing</p></body></html>`))
			}
		}))
		defer server.Close()

		headers := filepath.Join(t.TempDir(), "curl.sh")
		tu.MustWriteFile(t, headers, `curl 'https://www.google.com/search' -H 'Cookie: CONSENT=YES+'`)

		p, err := services.NewScrapeProvider(shared.ScrapeConfig{
			URL:         server.URL + "/search?q={query}",
			Selector:    "div.lyrics",
			HeadersPath: headers,
		}, server.Client(), "rhymx-test")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("Falls Through Suffixes", func(t *testing.T) {
			got, err := p.Lookup(context.Background(), "Artist", "Title")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got != "I walked the street\nAnd felt the heat" {
				t.Errorf("unexpected lyrics %q", got)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(queries) != 2 || queries[0] != "Artist Title lyrics" || queries[1] != "Artist Title song lyrics" {
				t.Errorf("unexpected queries %v", queries)
			}
			if cookies[0] != "CONSENT=YES+" {
				t.Errorf("expected captured cookie, got %q", cookies[0])
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			for _, artist := range []string{"Nobody", "Gone"} {
				if _, err := p.Lookup(context.Background(), artist, "Title"); !errors.Is(err, shared.ErrLyricsNotFound) {
					t.Errorf("%s: expected ErrLyricsNotFound, got %v", artist, err)
				}
			}
		})

		t.Run("Upstream Error", func(t *testing.T) {
			if _, err := p.Lookup(context.Background(), "Broken", "Title"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}

func TestExtractLyrics(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lyricsPage))
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}

	if got := services.ExtractLyrics(doc.Selection, "div.lyrics"); got != "I walked the street\nAnd felt the heat" {
		t.Errorf("unexpected lyrics %q", got)
	}

	if got := services.ExtractLyrics(doc.Selection, "pre.missing"); got != "" {
		t.Errorf("expected no lyrics, got %q", got)
	}
}
