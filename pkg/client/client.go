// Package client is a typed Go client for the trading journal API.
//
// A Client owns a SessionStore holding the signed-in session. Sign-in and
// sign-up populate it, SignOut clears it, and Restore revalidates a token
// persisted by the caller. Components that depend on the identity, such as
// RoleWatcher, subscribe to the store instead of polling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNotSignedIn is returned by calls that need a session when none is held.
var ErrNotSignedIn = errors.New("client: not signed in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type Record struct {
	ID              string          `json:"id"`
	TradeDate       string          `json:"trade_date"`
	StockSymbol     string          `json:"stock_symbol"`
	StockName       string          `json:"stock_name,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Commission      decimal.Decimal `json:"commission"`
	Tax             decimal.Decimal `json:"tax"`
	Notes           string          `json:"notes,omitempty"`
	DisplayAmount   decimal.Decimal `json:"display_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RecordInput is the body of create and update calls.
type RecordInput struct {
	TradeDate       string          `json:"trade_date"`
	StockSymbol     string          `json:"stock_symbol"`
	StockName       string          `json:"stock_name,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Commission      decimal.Decimal `json:"commission"`
	Tax             decimal.Decimal `json:"tax"`
	Notes           string          `json:"notes,omitempty"`
}

type Summary struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalReturn     decimal.Decimal `json:"total_return"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	NetProfitLoss   decimal.Decimal `json:"net_profit_loss"`
	TradeCount      int             `json:"trade_count"`
}

type DirectoryEntry struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: NewSessionStore(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the store holding the current session.
func (c *Client) Session() *SessionStore {
	return c.session
}

// --- identity ---

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password, "display_name": displayName}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", nil, body, &s); err != nil {
		return nil, err
	}
	c.session.Set(&s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", nil, body, &s); err != nil {
		return nil, err
	}
	c.session.Set(&s)
	return &s, nil
}

// SignOut revokes the token server-side. The local session is cleared even
// when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	s := c.session.Current()
	if s == nil {
		return nil
	}
	defer c.session.Clear()
	return c.do(ctx, http.MethodPost, "/auth/signout", s.Token, nil, nil, nil)
}

// Restore revalidates a previously issued token and, if the server still
// accepts it, makes it the current session. A rejected token clears the store.
func (c *Client) Restore(ctx context.Context, token string) (*Session, error) {
	var resp Session
	if err := c.do(ctx, http.MethodGet, "/auth/session", token, nil, nil, &resp); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			c.session.Clear()
		}
		return nil, err
	}
	resp.Token = token
	c.session.Set(&resp)
	return &resp, nil
}

// FetchRole asks the server for the role of the identity behind token.
func (c *Client) FetchRole(ctx context.Context, token string) (string, error) {
	var resp struct {
		Role string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/me/role", token, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Role, nil
}

// --- trading records ---

func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	var resp struct {
		Records []Record `json:"records"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/records", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	var r Record
	if err := c.authed(ctx, http.MethodGet, "/v1/records/"+url.PathEscape(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecord creates a record. A non-empty idempotencyKey makes retries safe.
func (c *Client) CreateRecord(ctx context.Context, in RecordInput, idempotencyKey string) (*Record, error) {
	var hdr http.Header
	if idempotencyKey != "" {
		hdr = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}
	var r Record
	if err := c.authed(ctx, http.MethodPost, "/v1/records", hdr, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateRecord(ctx context.Context, id string, in RecordInput) (*Record, error) {
	var r Record
	if err := c.authed(ctx, http.MethodPut, "/v1/records/"+url.PathEscape(id), nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/v1/records/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.authed(ctx, http.MethodGet, "/v1/records/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// --- admin directory ---

func (c *Client) ListUsers(ctx context.Context) ([]DirectoryEntry, error) {
	var resp struct {
		Users []DirectoryEntry `json:"users"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/admin/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) SetRole(ctx context.Context, userID, role string) (string, error) {
	var resp struct {
		Role string `json:"role"`
	}
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/role"
	if err := c.authed(ctx, http.MethodPut, path, nil, map[string]string{"role": role}, &resp); err != nil {
		return "", err
	}
	return resp.Role, nil
}

func (c *Client) CountRecords(ctx context.Context) (int64, error) {
	var resp struct {
		Count int64 `json:"count"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/admin/records/count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// --- transport ---

func (c *Client) authed(ctx context.Context, method, path string, hdr http.Header, in, out any) error {
	s := c.session.Current()
	if s == nil {
		return ErrNotSignedIn
	}
	return c.do(ctx, method, path, s.Token, hdr, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, hdr http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api error")
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
