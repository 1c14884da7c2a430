package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func detectFor(t *testing.T, build func(r *http.Request), lookup CountryLookup) string {
	t.Helper()
	var got string
	handler := Locale("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", nil)
	if build != nil {
		build(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLocaleHeaderWins(t *testing.T) {
	got := detectFor(t, func(r *http.Request) {
		r.Header.Set("X-Locale", "PT-br")
		r.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	}, nil)
	if got != "pt" {
		t.Fatalf("locale = %q, want pt", got)
	}
}

func TestLocaleFromAcceptLanguage(t *testing.T) {
	got := detectFor(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
	}, nil)
	if got != "fr" {
		t.Fatalf("locale = %q, want fr", got)
	}
}

func TestLocaleFromCountryLookup(t *testing.T) {
	lookup := func(ip string) (string, error) { return "DE", nil }
	if got := detectFor(t, nil, lookup); got != "de" {
		t.Fatalf("locale = %q, want de", got)
	}
}

func TestLocaleFallsBackToDefault(t *testing.T) {
	if got := detectFor(t, nil, nil); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.RemoteAddr = "10.0.0.2:1234"
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("ClientIP = %q, want 203.0.113.9", got)
	}
}
