package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newFakeProvider(t *testing.T) (*Provider, *httptest.Server, *atomic.Int32) {
	t.Helper()

	var discoveryHits atomic.Int32

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		discoveryHits.Add(1)
		json.NewEncoder(w).Encode(Discovery{
			AuthorizationEndpoint: server.URL + "/authorize",
			TokenEndpoint:         server.URL + "/token",
			UserinfoEndpoint:      server.URL + "/userinfo",
		})
	})

	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"sub":"sub-1","name":"Alice","email":"alice@example.com","picture":"http://img/a.png","locale":"no"}`)
	})

	provider := &Provider{
		Name:         "fake",
		DiscoveryURL: server.URL + "/.well-known/openid-configuration",
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{"openid", "profile", "email"},
	}

	return provider, server, &discoveryHits
}

func TestDiscover_FetchesAndCaches(t *testing.T) {
	provider, server, hits := newFakeProvider(t)

	discovery, err := provider.Discover(context.Background())

	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	if discovery.TokenEndpoint != server.URL+"/token" {
		t.Fatalf("unexpected token endpoint: %q", discovery.TokenEndpoint)
	}

	if _, err := provider.Discover(context.Background()); err != nil {
		t.Fatalf("second discover failed: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("discovery fetched %d times, want 1", got)
	}
}

func TestFetchUserinfo_ParsesProfileAndKeepsRawClaims(t *testing.T) {
	provider, _, _ := newFakeProvider(t)

	info, err := provider.FetchUserinfo(context.Background(), "good-token")

	if err != nil {
		t.Fatalf("userinfo failed: %v", err)
	}

	if info.Subject != "sub-1" || info.Name != "Alice" || info.Email != "alice@example.com" {
		t.Fatalf("unexpected userinfo: %+v", info)
	}

	var raw map[string]interface{}

	if err := json.Unmarshal(info.Raw, &raw); err != nil {
		t.Fatalf("raw claims not valid JSON: %v", err)
	}

	if raw["locale"] != "no" {
		t.Fatal("raw claims should keep fields outside the mapped profile")
	}
}

func TestFetchUserinfo_NonOKStatusIsAnError(t *testing.T) {
	provider, _, _ := newFakeProvider(t)

	if _, err := provider.FetchUserinfo(context.Background(), "bad-token"); err == nil {
		t.Fatal("expected an error for a rejected token")
	}
}

func TestConfig_BuildsAuthCodeURLFromDiscovery(t *testing.T) {
	provider, server, _ := newFakeProvider(t)

	discovery, err := provider.Discover(context.Background())

	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	config := provider.Config(discovery, "http://localhost:3000/api/login/fake/callback")
	url := config.AuthCodeURL("state-1")

	if got, want := config.Endpoint.AuthURL, server.URL+"/authorize"; got != want {
		t.Fatalf("auth endpoint %q, want %q", got, want)
	}

	for _, fragment := range []string{"client_id=client", "state=state-1", "scope=openid+profile+email"} {
		if !strings.Contains(url, fragment) {
			t.Fatalf("auth URL %q missing %q", url, fragment)
		}
	}
}
