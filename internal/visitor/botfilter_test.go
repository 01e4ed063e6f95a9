package visitor

import "testing"

func TestIsBotEmptyUserAgent(t *testing.T) {
	if !IsBot("") {
		t.Fatal("empty user agent should be treated as a bot")
	}
	if !IsBot("   ") {
		t.Fatal("blank user agent should be treated as a bot")
	}
}

func TestIsBotKnownPatterns(t *testing.T) {
	agents := []string{
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"curl/8.0.1",
		"Wget/1.21",
		"python-requests/2.31.0",
		"axios/1.6.0",
		"facebookexternalhit/1.1",
		"Twitterbot/1.0",
		"Go-http-client/2.0",
		"Mozilla/5.0 (X11) HeadlessChrome/120.0",
	}

	for _, ua := range agents {
		if !IsBot(ua) {
			t.Errorf("expected %q to be classified as a bot", ua)
		}
	}
}

func TestIsBotRealBrowsers(t *testing.T) {
	agents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	}

	for _, ua := range agents {
		if IsBot(ua) {
			t.Errorf("expected %q to pass the bot filter", ua)
		}
	}
}
