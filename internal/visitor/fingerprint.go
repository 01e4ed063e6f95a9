package visitor

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// UnknownIP is the sentinel returned when no usable client address is found.
const UnknownIP = "unknown"

// ipHeaders are scanned in priority order. Proxy and CDN headers come before
// anything else because the service is expected to sit behind a reverse proxy.
var ipHeaders = []string{
	"X-Forwarded-For",
	"X-Real-Ip",
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Client-IP",
}

// ClientIP extracts the client address from forwarded headers.
// For list-valued headers only the first entry counts (the original client);
// returns UnknownIP when every header is empty or itself "unknown".
func ClientIP(header http.Header) string {
	for _, name := range ipHeaders {
		value := header.Get(name)
		if value == "" {
			continue
		}
		if idx := strings.Index(value, ","); idx >= 0 {
			value = value[:idx]
		}
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, UnknownIP) {
			continue
		}
		return value
	}
	return UnknownIP
}

// Fingerprint derives the opaque viewer hash from client IP and User-Agent.
// Only the digest is ever stored or compared. Distinct viewers behind the
// same NAT with identical user agents collapse into one fingerprint; that is
// the accepted tradeoff of this scheme.
func Fingerprint(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:])
}
