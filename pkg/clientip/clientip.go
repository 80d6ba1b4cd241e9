package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the visitor's IP address. Requests arrive through the
// WiFi gateway, which sets X-Forwarded-For with the device address first;
// fall back to RemoteAddr when the header is absent (direct access, tests).
func FromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
