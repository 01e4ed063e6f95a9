package visitor

import (
	"net/http"
	"testing"
)

func TestClientIPHeaderPriority(t *testing.T) {
	header := http.Header{}
	header.Set("X-Real-Ip", "10.0.0.2")
	header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	if ip := ClientIP(header); ip != "1.2.3.4" {
		t.Fatalf("expected first forwarded entry, got %q", ip)
	}
}

func TestClientIPFallsThroughEmptyHeaders(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", "unknown")
	header.Set("X-Real-Ip", "  ")
	header.Set("CF-Connecting-IP", "5.6.7.8")

	if ip := ClientIP(header); ip != "5.6.7.8" {
		t.Fatalf("expected CDN header value, got %q", ip)
	}
}

func TestClientIPUnknownSentinel(t *testing.T) {
	if ip := ClientIP(http.Header{}); ip != UnknownIP {
		t.Fatalf("expected %q for empty headers, got %q", UnknownIP, ip)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("1.2.3.4", "Mozilla/5.0")
	b := Fingerprint("1.2.3.4", "Mozilla/5.0")
	if a != b {
		t.Fatal("identical inputs must produce identical fingerprints")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}

	if Fingerprint("1.2.3.5", "Mozilla/5.0") == a {
		t.Fatal("different IP must change the fingerprint")
	}
	if Fingerprint("1.2.3.4", "Mozilla/6.0") == a {
		t.Fatal("different user agent must change the fingerprint")
	}
}
