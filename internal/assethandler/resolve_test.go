package assethandler

import (
	"net/http"
	"testing"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name          string
		rawPath       string
		mount         string
		wantKey       string
		wantRoot      bool
		wantTrailing  bool
		wantOK        bool
	}{
		{name: "root", rawPath: "/", mount: "/", wantKey: "", wantRoot: true, wantTrailing: true, wantOK: true},
		{name: "empty path treated as root", rawPath: "", mount: "/", wantKey: "", wantRoot: true, wantTrailing: true, wantOK: true},
		{name: "simple file", rawPath: "/css/style.css", mount: "/", wantKey: "css/style.css", wantOK: true},
		{name: "directory shaped", rawPath: "/docs/", mount: "/", wantKey: "docs", wantTrailing: true, wantOK: true},
		{name: "mount prefix stripped", rawPath: "/assets/css/style.css", mount: "/assets/", wantKey: "css/style.css", wantOK: true},
		{name: "mount root", rawPath: "/assets/", mount: "/assets/", wantKey: "", wantRoot: true, wantTrailing: true, wantOK: true},
		{name: "percent decoding", rawPath: "/%63ss/style.css", mount: "/", wantKey: "css/style.css", wantOK: true},
		{name: "space in key", rawPath: "/my%20file.txt", mount: "/", wantKey: "my file.txt", wantOK: true},
		{name: "double slash collapsed", rawPath: "/a//b.txt", mount: "/", wantKey: "a/b.txt", wantOK: true},
		{name: "dot segment collapsed", rawPath: "/a/./b.txt", mount: "/", wantKey: "a/b.txt", wantOK: true},
		{name: "dotdot within tree", rawPath: "/a/../b.txt", mount: "/", wantKey: "b.txt", wantOK: true},
		{name: "traversal above root", rawPath: "/../../etc/passwd", mount: "/", wantOK: false},
		{name: "encoded traversal", rawPath: "/%2e%2e/%2e%2e/etc/passwd", mount: "/", wantOK: false},
		{name: "traversal out of mount", rawPath: "/assets/../etc/passwd", mount: "/assets/", wantOK: false},
		{name: "malformed escape", rawPath: "/bad%zz", mount: "/", wantOK: false},
		{name: "truncated escape", rawPath: "/bad%2", mount: "/", wantOK: false},
		{name: "encoded nul", rawPath: "/file%00.txt", mount: "/", wantOK: false},
		{name: "backslash", rawPath: "/a%5Cb.txt", mount: "/", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, root, trailing, ok := resolveKey(tt.rawPath, tt.mount)
			if ok != tt.wantOK {
				t.Fatalf("resolveKey(%q, %q) ok = %v, want %v", tt.rawPath, tt.mount, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if root != tt.wantRoot {
				t.Errorf("root = %v, want %v", root, tt.wantRoot)
			}
			if trailing != tt.wantTrailing {
				t.Errorf("trailingSlash = %v, want %v", trailing, tt.wantTrailing)
			}
		})
	}
}

func TestAcceptsEncoding(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		token  string
		want   bool
	}{
		{name: "no header", values: nil, token: "br", want: false},
		{name: "plain token", values: []string{"br"}, token: "br", want: true},
		{name: "token in list", values: []string{"gzip, deflate, br"}, token: "br", want: true},
		{name: "absent token", values: []string{"gzip, deflate"}, token: "br", want: false},
		{name: "qvalue ignored", values: []string{"gzip;q=1.0, br;q=0.5"}, token: "br", want: true},
		{name: "qvalue zero still counts", values: []string{"br;q=0"}, token: "br", want: true},
		{name: "case insensitive", values: []string{"BR"}, token: "br", want: true},
		{name: "whitespace tolerated", values: []string{" gzip ,  br "}, token: "br", want: true},
		{name: "multiple header lines", values: []string{"gzip", "br"}, token: "br", want: true},
		{name: "no substring match", values: []string{"xbr"}, token: "br", want: false},
		{name: "identity is not gzip", values: []string{"identity"}, token: "gzip", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.values {
				h.Add("Accept-Encoding", v)
			}
			if got := acceptsEncoding(h, tt.token); got != tt.want {
				t.Fatalf("acceptsEncoding(%v, %q) = %v, want %v", tt.values, tt.token, got, tt.want)
			}
		})
	}
}
