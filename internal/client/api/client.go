// Package api implements the HTTP client for the CICLONE backend used by
// the operator CLI. It wraps the JSON envelope every endpoint returns and
// keeps the access token from the last successful login.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Usuario mirrors the account payload returned by the server.
type Usuario struct {
	ID                int64           `json:"id"`
	Nome              string          `json:"nome"`
	Email             string          `json:"email"`
	ChavePix          string          `json:"chavepix"`
	Telefone          string          `json:"telefone"`
	RecebendoCreditos bool            `json:"recebendo_creditos"`
	LimiteAtingido    bool            `json:"limite_atingido"`
	Saldo             decimal.Decimal `json:"saldo_redisponivel"`
}

// Clicks mirrors the click counter payload.
type Clicks struct {
	Email       string `json:"email"`
	TotalClicks int64  `json:"total_clicks"`
	ClicksHoje  int64  `json:"clicks_hoje"`
}

// Estatisticas mirrors the /api/estatisticas payload.
type Estatisticas struct {
	TotalUsuarios  int64           `json:"total_usuarios"`
	TotalClicks    int64           `json:"total_clicks"`
	TotalAnuncios  int64           `json:"total_anuncios"`
	TopSaldoNome   string          `json:"top_saldo_nome"`
	TopSaldo       decimal.Decimal `json:"top_saldo"`
	TopClickerNome string          `json:"top_clicker_nome"`
	TopClicks      int64           `json:"top_clicks"`
}

// ClickResult describes one credited click.
type ClickResult struct {
	Clicks         *Clicks         `json:"clicks"`
	BeneficiadoID  int64           `json:"beneficiado_id"`
	NovoSaldo      decimal.Decimal `json:"novo_saldo"`
	LimiteAtingido bool            `json:"limite_atingido"`
}

// Client talks to the CICLONE HTTP API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

// New constructs a Client for the server at baseURL, e.g.
// "http://127.0.0.1:10000".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("server error: %s", resp.Status)
	}
	return data, nil
}

// Health checks server reachability via /api/health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	return err
}

// Login authenticates and stores the access token for subsequent calls.
func (c *Client) Login(ctx context.Context, email string, senha []byte) (*Usuario, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email": email,
		"senha": string(senha),
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Usuario     *Usuario `json:"usuario"`
		AccessToken string   `json:"access_token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	c.accessToken = resp.AccessToken
	return resp.Usuario, nil
}

// Estatisticas returns the aggregate platform counters.
func (c *Client) Estatisticas(ctx context.Context) (*Estatisticas, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/estatisticas", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Estatisticas *Estatisticas `json:"estatisticas"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp.Estatisticas, nil
}

// AtivarCreditos re-enables credit reception for the account.
func (c *Client) AtivarCreditos(ctx context.Context, email string) (*Usuario, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/ativar-creditos", map[string]string{"email": email})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Usuario *Usuario `json:"usuario"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp.Usuario, nil
}

// IniciarCreditos bootstraps the credit rotation and returns the receiving
// account.
func (c *Client) IniciarCreditos(ctx context.Context) (*Usuario, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/iniciar-creditos", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Recebendo *Usuario `json:"recebendo"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp.Recebendo, nil
}

// Dashboard returns the account and its click counters. Requires a prior
// Login.
func (c *Client) Dashboard(ctx context.Context, userID int64) (*Usuario, *Clicks, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/dashboard/%d", userID), nil)
	if err != nil {
		return nil, nil, err
	}
	var resp struct {
		Usuario *Usuario `json:"usuario"`
		Clicks  *Clicks  `json:"clicks"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Usuario, resp.Clicks, nil
}

// AvatarUploadURL requests a presigned PUT URL for an avatar upload.
// Requires a prior Login.
func (c *Client) AvatarUploadURL(ctx context.Context) (key string, url string, err error) {
	data, err := c.do(ctx, http.MethodPost, "/api/avatar/upload-url", nil)
	if err != nil {
		return "", "", err
	}
	var resp struct {
		Key       string `json:"key"`
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.UploadURL, nil
}

// AvatarURL returns a presigned GET URL for the account's stored avatar.
func (c *Client) AvatarURL(ctx context.Context, userID int64) (string, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/avatar/%d", userID), nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// RegistrarClick credits one click on behalf of email.
func (c *Client) RegistrarClick(ctx context.Context, email string) (*ClickResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/registrar-click", map[string]string{"email": email})
	if err != nil {
		return nil, err
	}
	result := &ClickResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}
