package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// 模拟服务端：令牌过期后只认刷新接口换出的新令牌
type fakeServer struct {
	refreshCalls int32
	refreshSleep time.Duration
	refreshFails bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.refreshCalls, 1)
		if f.refreshSleep > 0 {
			time.Sleep(f.refreshSleep)
		}
		if f.refreshFails {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Invalid refresh token",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"accessToken":  "new-access",
			"refreshToken": "new-refresh",
		})
	})

	mux.HandleFunc("/api/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer new-access" {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Token expired",
		})
	})

	return mux
}

func newTestTransport(serverURL string) (*Transport, *TokenStore, chan struct{}) {
	tokens := NewTokenStore()
	logouts := make(chan struct{}, 16)
	transport := &Transport{
		BaseURL:  serverURL,
		Tokens:   tokens,
		OnLogout: func() { logouts <- struct{}{} },
	}
	return transport, tokens, logouts
}

func TestConcurrentExpiryTriggersSingleRefresh(t *testing.T) {
	server := &fakeServer{refreshSleep: 300 * time.Millisecond}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	transport, tokens, _ := newTestTransport(ts.URL)
	tokens.Set("stale-access", "valid-refresh")
	httpClient := &http.Client{Transport: transport}

	const n = 8
	var wg sync.WaitGroup
	statuses := make([]int, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := httpClient.Get(ts.URL + "/api/protected")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			io.Copy(io.Discard, resp.Body)
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("request %d failed: %v", i, errs[i])
		}
		if statuses[i] != http.StatusOK {
			t.Errorf("request %d got status %d, want 200", i, statuses[i])
		}
	}

	if calls := atomic.LoadInt32(&server.refreshCalls); calls != 1 {
		t.Errorf("got %d refresh calls, want 1", calls)
	}
	if tokens.Access() != "new-access" || tokens.Refresh() != "new-refresh" {
		t.Error("token pair not replaced after refresh")
	}
}

func TestRefreshRejectionForcesLogout(t *testing.T) {
	server := &fakeServer{refreshFails: true}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	transport, tokens, logouts := newTestTransport(ts.URL)
	tokens.Set("stale-access", "revoked-refresh")
	httpClient := &http.Client{Transport: transport}

	_, err := httpClient.Get(ts.URL + "/api/protected")
	if err == nil {
		t.Fatal("request succeeded with a revoked refresh token")
	}
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("got %v, want ErrSessionExpired", err)
	}

	select {
	case <-logouts:
	case <-time.After(time.Second):
		t.Error("logout callback not invoked")
	}
	if tokens.Access() != "" || tokens.Refresh() != "" {
		t.Error("tokens not cleared after forced logout")
	}
}

func TestMissingRefreshTokenSkipsNetwork(t *testing.T) {
	server := &fakeServer{}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	transport, tokens, logouts := newTestTransport(ts.URL)
	tokens.Set("stale-access", "")
	httpClient := &http.Client{Transport: transport}

	_, err := httpClient.Get(ts.URL + "/api/protected")
	if err == nil {
		t.Fatal("request succeeded without a refresh token")
	}
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("got %v, want ErrNoRefreshToken", err)
	}
	if calls := atomic.LoadInt32(&server.refreshCalls); calls != 0 {
		t.Errorf("refresh endpoint hit %d times with no local token", calls)
	}

	select {
	case <-logouts:
	case <-time.After(time.Second):
		t.Error("logout callback not invoked")
	}
}

func TestForbiddenResponseForcesLogout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid refresh token",
		})
	}))
	defer ts.Close()

	transport, tokens, logouts := newTestTransport(ts.URL)
	tokens.Set("some-access", "some-refresh")
	httpClient := &http.Client{Transport: transport}

	resp, err := httpClient.Get(ts.URL + "/api/protected")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("got status %d, want 403", resp.StatusCode)
	}

	select {
	case <-logouts:
	case <-time.After(time.Second):
		t.Error("logout callback not invoked")
	}
	if tokens.Access() != "" {
		t.Error("tokens not cleared after 403")
	}
}

func TestAuthPathsBypassRefreshMachinery(t *testing.T) {
	var authHeader atomic.Value
	server := &fakeServer{}

	mux := http.NewServeMux()
	mux.Handle("/api/auth/refresh", server.handler())
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	transport, tokens, _ := newTestTransport(ts.URL)
	tokens.Set("some-access", "some-refresh")
	httpClient := &http.Client{Transport: transport}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, ts.URL+"/api/auth/login", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	// 登录失败的 401 不能触发刷新或登出；令牌照常附带
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", resp.StatusCode)
	}
	if got, _ := authHeader.Load().(string); got != "Bearer some-access" {
		t.Errorf("got Authorization %q, want Bearer some-access", got)
	}
	if calls := atomic.LoadInt32(&server.refreshCalls); calls != 0 {
		t.Errorf("login 401 triggered %d refresh calls", calls)
	}
	if tokens.Refresh() != "some-refresh" {
		t.Error("tokens cleared by a login failure")
	}
}
