package pm

import (
	"os"
	"path/filepath"
	"testing"

	"tenancy-recon/internal/tenantmap"
)

func writeSnapshot(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "pm_datatenant.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir,
		"AA1,Hamburg,Carrefour GmbH,1000,\"5.000,50\",2.5\n"+
			"BB2,Berlin,Netto,500,900,\n"+
			",Berlin,Orphan,1,2,3\n"+
			"CC3,Munich,Short\n")

	m := tenantmap.Build(tenantmap.FromPairs([]tenantmap.Pair{
		{Variant: "Carrefour GmbH", Canonical: "Carrefour"},
	}))

	rows, err := Load(dir, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (empty asset and short rows skipped)", len(rows))
	}

	r := rows[0]
	if r.AssetRef != "AA1" || r.City != "Hamburg" {
		t.Errorf("row = %+v", r)
	}
	if r.TenantName != "Carrefour" {
		t.Errorf("tenant = %q, want canonical Carrefour", r.TenantName)
	}
	if r.Space != 1000 || r.Rent != 5000.5 {
		t.Errorf("space/rent = %v/%v, want 1000/5000.5", r.Space, r.Rent)
	}
	if r.Walt == nil || *r.Walt != 2.5 {
		t.Errorf("walt = %v, want 2.5", r.Walt)
	}

	r = rows[1]
	if r.TenantName != "Netto" {
		t.Errorf("unmapped label = %q, want raw Netto", r.TenantName)
	}
	if r.Walt != nil {
		t.Errorf("walt = %v, want nil for empty column", *r.Walt)
	}
}

func TestLoadNilMatcher(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "AA1,Hamburg,Carrefour GmbH,1000,5000,\n")

	rows, err := Load(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TenantName != "Carrefour GmbH" {
		t.Errorf("rows = %+v, want raw label kept", rows)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	rows, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("missing snapshot must not error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %+v, want empty", rows)
	}
}
