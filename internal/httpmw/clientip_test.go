package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractRealClientAddr(t *testing.T) {
	tests := []struct {
		name        string
		remoteAddr  string
		xff         string
		trustedHops int
		want        string
	}{
		{name: "public peer no proxies", remoteAddr: "203.0.113.9:1234", want: "203.0.113.9"},
		{name: "public peer xff ignored", remoteAddr: "203.0.113.9:1234", xff: "198.51.100.1", want: "203.0.113.9"},
		{name: "private peer but zero hops", remoteAddr: "10.0.0.5:1234", xff: "198.51.100.1", want: "10.0.0.5"},
		{name: "one hop rightmost entry", remoteAddr: "10.0.0.5:1234", xff: "198.51.100.1, 203.0.113.9", trustedHops: 1, want: "203.0.113.9"},
		{name: "two hops second from end", remoteAddr: "10.0.0.5:1234", xff: "198.51.100.1, 203.0.113.9, 10.0.0.6", trustedHops: 2, want: "203.0.113.9"},
		{name: "fewer entries than hops fails closed", remoteAddr: "10.0.0.5:1234", xff: "203.0.113.9", trustedHops: 2, want: "10.0.0.5"},
		{name: "garbage xff entry ignored", remoteAddr: "10.0.0.5:1234", xff: "not-an-ip", trustedHops: 1, want: "10.0.0.5"},
		{name: "empty remote addr", remoteAddr: "", want: "0.0.0.0"},
		{name: "unparseable host", remoteAddr: "garbage:1234", want: "0.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractRealClientAddr(r, tt.trustedHops); got != tt.want {
				t.Fatalf("extractRealClientAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIPStripsForwardedHeadersFromUntrustedPeers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	r.Header.Set("X-Forwarded-Proto", "https")

	extractRealClientAddr(r, 1)

	if got := r.Header.Get("X-Forwarded-For"); got != "" {
		t.Errorf("X-Forwarded-For survived: %q", got)
	}
	if got := r.Header.Get("X-Forwarded-Proto"); got != "" {
		t.Errorf("X-Forwarded-Proto survived: %q", got)
	}
}

func TestClientIPMiddlewareStoresContextValue(t *testing.T) {
	var got string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIPFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != "203.0.113.9" {
		t.Fatalf("ClientIPFromContext = %q, want %q", got, "203.0.113.9")
	}
}
