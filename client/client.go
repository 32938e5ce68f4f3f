package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client Snapnova HTTP API 客户端。
// 所有请求经由 Transport 自动附带令牌并处理刷新。
type Client struct {
	baseURL   string
	tokens    *TokenStore
	transport *Transport
	http      *http.Client

	// 会话失效回调，可为 nil
	OnLogout func()
}

// New 创建客户端，baseURL 形如 http://localhost:8080
func New(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  NewTokenStore(),
	}
	c.transport = &Transport{
		BaseURL:  c.baseURL,
		Tokens:   c.tokens,
		OnLogout: func() { c.handleLogout() },
	}
	c.http = &http.Client{
		Transport: c.transport,
		Timeout:   30 * time.Second,
	}
	return c
}

// Refresh 主动换一轮新令牌对。平时不需要调用，401 时传输层会自动刷新。
func (c *Client) Refresh(ctx context.Context) error {
	return c.transport.refreshTokens()
}

// Tokens 暴露令牌存储，便于外部持久化
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

func (c *Client) handleLogout() {
	if c.OnLogout != nil {
		c.OnLogout()
	}
}

// Session 登录/注册返回的会话信息
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user"`
}

// APIError 服务端返回的业务错误
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Register 注册并保存返回的令牌对
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(session.AccessToken, session.RefreshToken)
	return &session, nil
}

// Login 登录并保存返回的令牌对
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(session.AccessToken, session.RefreshToken)
	return &session, nil
}

// Logout 通知服务端作废会话并清空本地令牌，不会失败
func (c *Client) Logout(ctx context.Context) {
	_ = c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{
		"refreshToken": c.tokens.Refresh(),
	}, nil)
	c.tokens.Clear()
}

// Me 获取当前登录用户资料
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	var out struct {
		User json.RawMessage `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SendMessage 给某用户发一条消息
func (c *Client) SendMessage(ctx context.Context, receiverID, text string) (json.RawMessage, error) {
	var out struct {
		Message json.RawMessage `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/messages", map[string]interface{}{
		"receiverId": receiverID,
		"text":       text,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Message, nil
}

// Messages 拉取与某用户的消息记录
func (c *Client) Messages(ctx context.Context, userID string) (json.RawMessage, error) {
	var out struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// do 发送 JSON 请求并解码统一信封
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Success {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
