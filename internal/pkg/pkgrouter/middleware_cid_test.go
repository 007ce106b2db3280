package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/bankocr/internal/pkg/pkglog"
)

type countingGenerator struct {
	value string
	calls int
}

func (g *countingGenerator) Generate() string {
	g.calls++
	return g.value
}

func TestSanitizeCorrelationID(t *testing.T) {
	cases := map[string]string{
		"  abc  ":    "abc",
		"\n":         "",
		"a\r\nb":     "",
		"tab\there":  "",
		"scan-42":    "scan-42",
		"":           "",
		"with space": "with space",
	}
	for in, want := range cases {
		if got := sanitizeCorrelationID(in); got != want {
			t.Fatalf("sanitizeCorrelationID(%q) = %q, want %q", in, got, want)
		}
	}

	if got := sanitizeCorrelationID(strings.Repeat("a", 200)); len(got) != maxCorrelationIDLen {
		t.Fatalf("expected length %d, got %d", maxCorrelationIDLen, len(got))
	}
}

func TestMiddlewareCorrelationID(t *testing.T) {
	cases := []struct {
		name      string
		headers   map[string]string
		want      string
		wantCalls int
	}{
		{name: "correlation header", headers: map[string]string{HeaderCorrelationID: "header-cid"}, want: "header-cid"},
		{name: "request id fallback", headers: map[string]string{HeaderRequestID: "req-7"}, want: "req-7"},
		{
			name:    "correlation wins over request id",
			headers: map[string]string{HeaderCorrelationID: "cid", HeaderRequestID: "req"},
			want:    "cid",
		},
		{name: "generated when missing", want: "generated", wantCalls: 1},
		{name: "generated when unusable", headers: map[string]string{HeaderCorrelationID: "bad\x01id"}, want: "generated", wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &countingGenerator{value: "generated"}

			var seen string
			h := middlewareCorrelationID(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = pkglog.GetCorrelationID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/scans", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get(HeaderCorrelationID); got != tc.want {
				t.Fatalf("response header = %q, want %q", got, tc.want)
			}
			if seen != tc.want {
				t.Fatalf("context cid = %q, want %q", seen, tc.want)
			}
			if gen.calls != tc.wantCalls {
				t.Fatalf("generator calls = %d, want %d", gen.calls, tc.wantCalls)
			}
		})
	}
}

func TestMiddlewareCorrelationIDWithoutGenerator(t *testing.T) {
	var seen string
	h := middlewareCorrelationID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pkglog.GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen != "" || rec.Header().Get(HeaderCorrelationID) != "" {
		t.Fatalf("expected no correlation id, got %q", seen)
	}
}
