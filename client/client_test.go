package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginStoresTokenPair(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "alice@example.com" {
			t.Errorf("got email %q, want alice@example.com", body["email"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"user":         map[string]string{"username": "alice"},
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	session, err := c.Login(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if session.AccessToken != "access-1" {
		t.Errorf("got access token %q", session.AccessToken)
	}
	if c.Tokens().Access() != "access-1" || c.Tokens().Refresh() != "refresh-1" {
		t.Error("token pair not stored")
	}
}

func TestLoginFailureReturnsAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	if err == nil {
		t.Fatal("login succeeded with bad credentials")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid credentials" {
		t.Errorf("got %v", apiErr)
	}
	if c.Tokens().Access() != "" {
		t.Error("tokens stored despite failed login")
	}
}

func TestLogoutCarriesBearerToken(t *testing.T) {
	var authHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/logout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Logged out successfully",
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.Tokens().Set("expired-access", "refresh-1")
	c.Logout(context.Background())

	// 服务端要靠这个（可能已过期的）令牌找回身份并清掉会话
	if authHeader != "Bearer expired-access" {
		t.Errorf("logout Authorization header = %q, want Bearer expired-access", authHeader)
	}
	if c.Tokens().Access() != "" || c.Tokens().Refresh() != "" {
		t.Error("tokens not cleared after logout")
	}
}

func TestLogoutClearsTokensEvenOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "boom"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.Tokens().Set("access-1", "refresh-1")
	c.Logout(context.Background())

	if c.Tokens().Access() != "" || c.Tokens().Refresh() != "" {
		t.Error("tokens survived logout")
	}
}
