package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// 不走刷新逻辑的路径，自身失败不应再触发刷新
var authPaths = []string{
	"/api/auth/refresh",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/logout",
}

var (
	// ErrSessionExpired 刷新令牌失效，调用方需要重新登录
	ErrSessionExpired = errors.New("client: session expired, login required")
	// ErrNoRefreshToken 本地没有刷新令牌
	ErrNoRefreshToken = errors.New("client: no refresh token")
)

type retryKey struct{}

// Transport 自动附带 Bearer 令牌，401 时透明刷新并重放一次。
// 并发请求同时收到 401 时只发出一次刷新请求。
type Transport struct {
	BaseURL string
	Tokens  *TokenStore
	Inner   http.RoundTripper

	// 会话彻底失效（刷新失败或服务端 403）时回调，可为 nil
	OnLogout func()

	refreshGroup singleflight.Group
}

func (t *Transport) inner() http.RoundTripper {
	if t.Inner != nil {
		return t.Inner
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// 令牌对所有请求附带，登出端点靠它找回（可能已过期的）身份；
	// 鉴权端点豁免的只是下面的 401/403 刷新逻辑
	if access := t.Tokens.Access(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	if isAuthPath(req.URL.Path) {
		return t.inner().RoundTrip(req)
	}

	resp, err := t.inner().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if _, retried := req.Context().Value(retryKey{}).(bool); retried {
			return resp, nil
		}
		drain(resp)
		if err := t.refreshTokens(); err != nil {
			return nil, err
		}
		return t.replay(req)
	case http.StatusForbidden:
		// 服务端判定会话非法，强制登出
		t.forceLogout()
		return resp, nil
	default:
		return resp, nil
	}
}

// replay 带上新令牌重放原请求，最多一次
func (t *Transport) replay(req *http.Request) (*http.Response, error) {
	clone := req.Clone(context.WithValue(req.Context(), retryKey{}, true))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	clone.Header.Set("Authorization", "Bearer "+t.Tokens.Access())

	resp, err := t.inner().RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden {
		t.forceLogout()
	}
	return resp, nil
}

// refreshTokens 用刷新令牌换新令牌对，singleflight 合并并发调用
func (t *Transport) refreshTokens() error {
	_, err, _ := t.refreshGroup.Do("refresh", func() (interface{}, error) {
		refresh := t.Tokens.Refresh()
		if refresh == "" {
			t.forceLogout()
			return nil, ErrNoRefreshToken
		}

		payload, _ := json.Marshal(map[string]string{"refreshToken": refresh})
		resp, err := http.Post(t.BaseURL+"/api/auth/refresh", "application/json", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("🔒 token refresh rejected: %d", resp.StatusCode)
			t.forceLogout()
			return nil, ErrSessionExpired
		}

		var body struct {
			Success      bool   `json:"success"`
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("client: decode refresh response: %w", err)
		}
		if !body.Success || body.AccessToken == "" {
			t.forceLogout()
			return nil, ErrSessionExpired
		}

		t.Tokens.Set(body.AccessToken, body.RefreshToken)
		return nil, nil
	})
	return err
}

func (t *Transport) forceLogout() {
	t.Tokens.Clear()
	if t.OnLogout != nil {
		go t.OnLogout()
	}
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasSuffix(path, p) || path == p {
			return true
		}
	}
	return false
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
