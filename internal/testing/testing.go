// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

// MockTokenService is a test double for [services.TokenService] that counts calls.
type MockTokenService struct {
	Grant *services.TokenGrant
	Err   error

	ExchangeCalls atomic.Int32
	RefreshCalls  atomic.Int32

	mu       sync.Mutex
	LastCode string
	LastRT   string
}

func (m *MockTokenService) ExchangeCode(ctx context.Context, code string) (*services.TokenGrant, error) {
	m.ExchangeCalls.Add(1)
	m.mu.Lock()
	m.LastCode = code
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Grant, nil
}

func (m *MockTokenService) Refresh(ctx context.Context, refreshToken string) (*services.TokenGrant, error) {
	m.RefreshCalls.Add(1)
	m.mu.Lock()
	m.LastRT = refreshToken
	m.mu.Unlock()
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Grant, nil
}

func (m *MockTokenService) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockTokenService) Name() string { return "mock" }

// MockLyricsProvider is a test double for [services.LyricsProvider].
//
// Lyrics are keyed by "artist|title"; Err, when set, is returned for every lookup.
type MockLyricsProvider struct {
	ProviderName string
	Lyrics       map[string]string
	Err          error
	Calls        atomic.Int32

	// Block, when non-nil, is received from before answering.
	Block chan struct{}
}

func (m *MockLyricsProvider) Lookup(ctx context.Context, artist, title string) (string, error) {
	m.Calls.Add(1)
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if l, ok := m.Lyrics[artist+"|"+title]; ok {
		return l, nil
	}
	return "", shared.ErrLyricsNotFound
}

func (m *MockLyricsProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
