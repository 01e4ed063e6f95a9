package visitor

import "strings"

// botPatterns are known automated-client User-Agent substrings (lowercase).
// Covers crawlers, social link unfurlers and common HTTP client libraries.
var botPatterns = []string{
	"bot", "crawl", "spider", "slurp",
	"facebookexternalhit", "embedly", "quora link preview",
	"showyoubot", "outbrain", "pinterest", "vkshare",
	"whatsapp", "telegram", "slack", "discord",
	"curl", "wget", "python", "java", "axios",
	"go-http-client", "okhttp", "headless", "phantom",
	"lighthouse", "pagespeed",
}

// IsBot reports whether a User-Agent belongs to automated traffic.
// An empty or missing User-Agent is treated as a bot: undercounting views
// is preferred over polluting the counters with unidentifiable clients.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
