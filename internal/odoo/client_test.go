package odoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  struct {
		Service string `json:"service"`
		Method  string `json:"method"`
		Args    []any  `json:"args"`
	} `json:"params"`
}

// fakeOdoo answers common/authenticate with uid 7 and delegates object calls.
func fakeOdoo(t *testing.T, onExecute func(req rpcRequest) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jsonrpc" {
			t.Errorf("path = %q, want /jsonrpc", r.URL.Path)
		}
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}

		var result any
		switch req.Params.Service {
		case "common":
			result = 7
		case "object":
			result = onExecute(req)
		default:
			t.Errorf("unexpected service %q", req.Params.Service)
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": result})
	}))
}

func testConfig(url string) Config {
	return Config{URL: url, DB: "erp", User: "svc", PasswordOrKey: "key"}
}

func TestConfigValid(t *testing.T) {
	if !testConfig("http://x").Valid() {
		t.Error("complete config should be valid")
	}
	c := testConfig("http://x")
	c.DB = ""
	if c.Valid() {
		t.Error("config without DB should be invalid")
	}
	if (Config{}).Valid() {
		t.Error("zero config should be invalid")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ODOO_URL", "http://erp.local")
	t.Setenv("ODOO_DB", "erp")
	t.Setenv("ODOO_USER", "svc")
	t.Setenv("ODOO_API", "")
	t.Setenv("ODOO_PWD", "fallback")

	c := ConfigFromEnv()
	if c.PasswordOrKey != "fallback" {
		t.Errorf("key = %q, want ODOO_PWD fallback", c.PasswordOrKey)
	}

	t.Setenv("ODOO_API", "apikey")
	if c = ConfigFromEnv(); c.PasswordOrKey != "apikey" {
		t.Errorf("key = %q, want ODOO_API preferred", c.PasswordOrKey)
	}
}

func TestAuthenticate(t *testing.T) {
	srv := fakeOdoo(t, func(rpcRequest) any { return nil })
	defer srv.Close()

	uid, err := NewClient(testConfig(srv.URL)).Authenticate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if uid != 7 {
		t.Errorf("uid = %d, want 7", uid)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	// Odoo answers false for bad credentials, which decodes as uid 0.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","result":0}`))
	}))
	defer srv.Close()

	if _, err := NewClient(testConfig(srv.URL)).Authenticate(context.Background()); err == nil {
		t.Error("expected authentication failure")
	}
}

func TestSearchRead(t *testing.T) {
	srv := fakeOdoo(t, func(req rpcRequest) any {
		if req.Params.Method != "execute_kw" {
			t.Errorf("method = %q", req.Params.Method)
		}
		// args: db, uid, key, model, method, args, kwargs
		if len(req.Params.Args) != 7 {
			t.Fatalf("args = %d, want 7", len(req.Params.Args))
		}
		if req.Params.Args[3] != "property.tenancy" || req.Params.Args[4] != "search_read" {
			t.Errorf("model/method = %v/%v", req.Params.Args[3], req.Params.Args[4])
		}
		return []map[string]any{
			{"id": 1, "name": "AA1 - 01 - Netto", "space": 100.0},
			{"id": 2, "name": "AA1 - Edeka", "space": false},
		}
	})
	defer srv.Close()

	var out []map[string]any
	err := NewClient(testConfig(srv.URL)).SearchRead(context.Background(),
		"property.tenancy", []any{}, []string{"id", "name", "space"}, 10, &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("records = %d, want 2", len(out))
	}
	if num(out[0]["space"]) != 100 {
		t.Errorf("space = %v", out[0]["space"])
	}
	// false-for-null coerces to zero
	if num(out[1]["space"]) != 0 {
		t.Errorf("null space = %v", out[1]["space"])
	}
}

func TestRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":200,"message":"Odoo Server Error"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Authenticate(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Odoo Server Error") {
		t.Errorf("err = %v, want rpc error surfaced", err)
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(testConfig(srv.URL)).Authenticate(context.Background()); err == nil {
		t.Error("expected http status error")
	}
}
