package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"tenancy-recon/internal/config"
	"tenancy-recon/internal/reconcile/model"
	"tenancy-recon/internal/tenantmap"
)

type rpcCall struct {
	Params struct {
		Service string `json:"service"`
		Args    []any  `json:"args"`
	} `json:"params"`
}

// fakeERP answers authenticate and serves two tenancies, one on a banned
// asset.
func fakeERP(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Fatalf("bad rpc body: %v", err)
		}

		var result any = 7
		if call.Params.Service == "object" {
			switch call.Params.Args[3] {
			case "property.tenancy":
				result = []map[string]any{
					{
						"id": 1, "name": "AA1 - 01 - Netto",
						"main_property_id":   []any{float64(10), "AA1"},
						"total_current_rent": 5000.0, "space": 1000.0,
						"date_end_display": "2030-06-30",
					},
					{
						"id": 2, "name": "AD1 - Edeka",
						"main_property_id":   []any{float64(11), "AD1"},
						"total_current_rent": 900.0, "space": 400.0,
						"date_end_display": false,
					},
				}
			case "property.property":
				result = []map[string]any{
					{"id": 10.0, "reference_id": "AA1", "city": "Hamburg", "sales_person_id": []any{float64(12), "C. F."}},
					{"id": 11.0, "reference_id": "AD1", "city": "Kiel", "sales_person_id": false},
				}
			default:
				t.Errorf("unexpected model %v", call.Params.Args[3])
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": result})
	}))
}

func serveTenancy(t *testing.T, cfg config.Config, target string) tenancyResponse {
	t.Helper()
	h := Tenancy(cfg, zerolog.Nop(), tenantmap.Build(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp tenancyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestTenancyBanDiagnostics(t *testing.T) {
	srv := fakeERP(t)
	defer srv.Close()

	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "banlist.json"), []byte(`["AD1"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ODOO_URL", srv.URL)
	t.Setenv("ODOO_DB", "erp")
	t.Setenv("ODOO_USER", "svc")
	t.Setenv("ODOO_API", "key")

	cfg := config.Config{DataDir: dataDir, Thresholds: model.DefaultThresholds()}
	resp := serveTenancy(t, cfg, "/tenancy/api")

	// The pre-ban count shows what the banlist hides.
	if got := resp.Debug["odoo_all_count"]; got != 2.0 {
		t.Errorf("odoo_all_count = %v, want 2", got)
	}
	if got := resp.Debug["odoo_after_ban_count"]; got != 1.0 {
		t.Errorf("odoo_after_ban_count = %v, want 1", got)
	}
	if len(resp.Odoo) != 1 || resp.Odoo[0].AssetRef != "AA1" {
		t.Errorf("odoo rows = %+v, want AA1 only", resp.Odoo)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.Warnings)
	}
}

func TestTenancyWithoutOdooEnv(t *testing.T) {
	for _, k := range []string{"ODOO_URL", "ODOO_DB", "ODOO_USER", "ODOO_API", "ODOO_PWD"} {
		t.Setenv(k, "")
	}

	cfg := config.Config{DataDir: t.TempDir(), Thresholds: model.DefaultThresholds()}
	resp := serveTenancy(t, cfg, "/tenancy/api")

	if len(resp.Warnings) != 1 {
		t.Fatalf("warnings = %v, want the not-configured notice", resp.Warnings)
	}
	if len(resp.Odoo) != 0 || len(resp.Rows) != 0 {
		t.Errorf("rows without sources = %+v / %+v, want empty", resp.Odoo, resp.Rows)
	}
}
