package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"museforge/pkg/requestcontext"
)

// ClientMetadata captures the client IP, the raw User-Agent header, and a
// parsed device summary so audit events can describe where an action came
// from. Applied early in the chain, before auth.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIP(r), ua, ParseUserAgent(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseUserAgent turns a raw User-Agent header into a short human-readable
// device description such as "Chrome on Mac OS X".
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
