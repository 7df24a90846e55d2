// Package odoo is a minimal JSON-RPC client for the asset-management ERP,
// plus the tenancy-specific fetches built on it.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Config holds the RPC endpoint credentials. PasswordOrKey accepts either a
// password or an API key; the wire protocol is the same.
type Config struct {
	URL           string
	DB            string
	User          string
	PasswordOrKey string
}

// ConfigFromEnv reads ODOO_URL, ODOO_DB, ODOO_USER and ODOO_API (falling
// back to ODOO_PWD).
func ConfigFromEnv() Config {
	key := os.Getenv("ODOO_API")
	if key == "" {
		key = os.Getenv("ODOO_PWD")
	}
	return Config{
		URL:           os.Getenv("ODOO_URL"),
		DB:            os.Getenv("ODOO_DB"),
		User:          os.Getenv("ODOO_USER"),
		PasswordOrKey: key,
	}
}

// Valid reports whether all connection settings are present.
func (c Config) Valid() bool {
	return c.URL != "" && c.DB != "" && c.User != "" && c.PasswordOrKey != ""
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Debug   string `json:"debug"`
	} `json:"data"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type Client struct {
	cfg Config
	hc  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: 60 * time.Second}}
}

func (c *Client) call(ctx context.Context, params any, out any) error {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "call",
		"params":  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/jsonrpc", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("odoo rpc http %d: %s", res.StatusCode, string(b))
	}

	var env rpcEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("odoo rpc decode: %w", err)
	}
	if env.Error != nil {
		return fmt.Errorf("odoo rpc error: %s", env.Error.Message)
	}
	if env.Result == nil {
		return fmt.Errorf("odoo rpc: result undefined")
	}
	if out != nil {
		return json.Unmarshal(env.Result, out)
	}
	return nil
}

// Authenticate returns the user id for the configured credentials.
func (c *Client) Authenticate(ctx context.Context) (int, error) {
	var uid int
	err := c.call(ctx, map[string]any{
		"service": "common",
		"method":  "authenticate",
		"args":    []any{c.cfg.DB, c.cfg.User, c.cfg.PasswordOrKey, map[string]any{}},
	}, &uid)
	if err != nil {
		return 0, err
	}
	if uid <= 0 {
		return 0, fmt.Errorf("odoo authentication failed")
	}
	return uid, nil
}

// ExecuteKw runs model.method with positional args and keyword args.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	uid, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, map[string]any{
		"service": "object",
		"method":  "execute_kw",
		"args":    []any{c.cfg.DB, uid, c.cfg.PasswordOrKey, model, method, args, kwargs},
	}, out)
}

// SearchRead is the generic search_read wrapper.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int, out any) error {
	return c.ExecuteKw(ctx, model, "search_read", []any{domain}, map[string]any{
		"fields": fields,
		"limit":  limit,
		"offset": 0,
	}, out)
}
