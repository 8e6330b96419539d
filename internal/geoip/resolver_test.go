package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lironregev/studio-leads/pkg/logging"
)

func TestResolvePrivateAddressesSkipLookup(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logging.Default())

	for _, ip := range []string{"127.0.0.1", "::1", "192.168.1.5", "10.0.0.8"} {
		if got := client.Resolve(context.Background(), ip); got != SentinelLocal {
			t.Errorf("Resolve(%q) = %q, want %q", ip, got, SentinelLocal)
		}
	}
	if called {
		t.Error("private address resolution must not hit the network")
	}

	if got := client.Resolve(context.Background(), ""); got != SentinelLocal {
		t.Errorf("Resolve(\"\") = %q, want %q", got, SentinelLocal)
	}
	if called {
		t.Error("empty address resolution must not hit the network")
	}
}

func TestResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/8.8.8.8" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("fields") != "city,country,regionName" {
			t.Errorf("unexpected fields selector %q", r.URL.Query().Get("fields"))
		}
		w.Write([]byte(`{"status":"success","city":"Tel Aviv","regionName":"Tel Aviv District","country":"Israel"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logging.Default())

	got := client.Resolve(context.Background(), "8.8.8.8")
	want := "Tel Aviv, Tel Aviv District, Israel"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveOmitsEmptyComponents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"","regionName":"Quebec","country":"Canada"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logging.Default())

	got := client.Resolve(context.Background(), "8.8.8.8")
	if got != "Quebec, Canada" {
		t.Errorf("Resolve = %q, want %q", got, "Quebec, Canada")
	}
}

func TestResolveFailurePaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"service reports fail", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail"}`))
		}},
		{"non-success status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logging.Default())
			if got := client.Resolve(context.Background(), "8.8.8.8"); got != SentinelUnknown {
				t.Errorf("Resolve = %q, want %q", got, SentinelUnknown)
			}
		})
	}
}

func TestResolveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed server: connection refused

	client := NewClient(srv.URL, time.Second, logging.Default())
	if got := client.Resolve(context.Background(), "8.8.8.8"); got != SentinelUnknown {
		t.Errorf("Resolve = %q, want %q", got, SentinelUnknown)
	}
}
