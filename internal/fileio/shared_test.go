package fileio

import (
	"strings"
	"testing"
)

func TestReadAnyRowsCSV(t *testing.T) {
	in := strings.NewReader("AA1,Hamburg,Netto\nBB2,Berlin,\"Edeka, Nord\"\n")

	rows, err := ReadAnyRows(in, "pm_datatenant.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][2] != "Edeka, Nord" {
		t.Errorf("quoted field = %q", rows[1][2])
	}
}

func TestReadAnyRowsRaggedCSV(t *testing.T) {
	in := strings.NewReader("a,b,c\nd\ne,f\n")

	rows, err := ReadAnyRows(in, "x.csv")
	if err != nil {
		t.Fatalf("variable field counts must parse, got %v", err)
	}
	if len(rows) != 3 || len(rows[1]) != 1 {
		t.Errorf("rows = %v", rows)
	}
}

func TestReadAnyRowsUnsupported(t *testing.T) {
	if _, err := ReadAnyRows(strings.NewReader(""), "notes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestReadAnyMaps(t *testing.T) {
	in := strings.NewReader("Variant,Canonical,\nCarrefour SA,Carrefour,x\n , , \nEdeka Nord,Edeka\n")

	maps, err := ReadAnyMaps(in, "tenant_map.csv", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(maps) != 2 {
		t.Fatalf("maps = %+v, want 2 (blank row skipped)", maps)
	}
	if maps[0]["Variant"] != "Carrefour SA" || maps[0]["Canonical"] != "Carrefour" {
		t.Errorf("first = %+v", maps[0])
	}
	if _, ok := maps[0]["Column 3"]; !ok {
		t.Errorf("blank header not substituted: %+v", maps[0])
	}
	if maps[1]["Canonical"] != "Edeka" {
		t.Errorf("second = %+v", maps[1])
	}
}

func TestReadAnyMapsEmpty(t *testing.T) {
	maps, err := ReadAnyMaps(strings.NewReader(""), "x.csv", 1)
	if err != nil {
		t.Fatal(err)
	}
	if maps != nil {
		t.Errorf("maps = %+v, want nil", maps)
	}
}
