// Utilities for replaying browser request headers captured as a cURL command.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// RequestHeaders are headers and cookies lifted from a cURL command, e.g. one copied from a browser's network tab.
type RequestHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts its headers.
func ParseCurlFile(path string) (*RequestHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts -H headers and the cookie from a cURL command.
//
// A -b cookie wins over a Cookie header.
func ParseCurlCommand(cmd string) (*RequestHeaders, error) {
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	rh := &RequestHeaders{Headers: make(map[string]string)}
	var headerCookie string
	for _, m := range curlHeaderRe.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(firstGroup(m), ":")
		if !ok {
			continue
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		rh.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(cmd); m != nil {
		rh.Cookie = firstGroup(m)
	} else {
		rh.Cookie = headerCookie
	}

	if len(rh.Headers) == 0 && rh.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return rh, nil
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// Apply sets the captured headers on h. A nil receiver is a no-op.
func (rh *RequestHeaders) Apply(h http.Header) {
	if rh == nil {
		return
	}
	for k, v := range rh.Headers {
		h.Set(k, v)
	}
	if rh.Cookie != "" {
		h.Set("Cookie", rh.Cookie)
	}
}
