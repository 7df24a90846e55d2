package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalizeForKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Carrefour", "carrefour"},
		{"CARREFOUR", "carrefour"},
		{"Müller & Co.", "muller co"},
		{"Peek–Cloppenburg / Düsseldorf", "peek cloppenburg dusseldorf"},
		{"  a  ,  b  ", "a b"},
		{"Café; (Restaurant): Zürich", "cafe restaurant zurich"},
		{"a_b-c.d", "a b c d"},
	}
	for _, c := range cases {
		if got := NormalizeForKey(c.in); got != c.want {
			t.Errorf("NormalizeForKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeForKeyIdempotent(t *testing.T) {
	inputs := []string{
		"Müller & Co. KG", "ALDI – Süd", "a  b\tc", "", "c/o Verwaltung GmbH",
	}
	for _, s := range inputs {
		once := NormalizeForKey(s)
		if twice := NormalizeForKey(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", s, once, twice)
		}
	}
}

func TestNormalizeLegalForm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Carrefour GmbH", "carrefour"},
		{"Edeka Handelsgesellschaft mbH", "edeka mbh"},
		{"Netto c/o Hausverwaltung Schmidt", "netto"},
		{"Aldi Zweigniederlassung Süd", "aldi"},
		{"Rewe Region Nord", "rewe"},
		{"Obi Bau- und Heimwerkermärkte", "obi bau und heimwerkermarkte"},
	}
	for _, c := range cases {
		if got := NormalizeLegalForm(c.in); got != c.want {
			t.Errorf("NormalizeLegalForm(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("XYZ Immobilien Verwaltung GmbH & Co. KG")
	if !reflect.DeepEqual(got, []string{"xyz"}) {
		t.Errorf("Tokenize = %v, want [xyz]", got)
	}

	got = Tokenize("Edeka Markt Nord")
	if !reflect.DeepEqual(got, []string{"edeka", "nord"}) {
		t.Errorf("Tokenize = %v, want [edeka nord]", got)
	}
}

func TestTokenSignature(t *testing.T) {
	a := TokenSignature("Nord Edeka")
	b := TokenSignature("Edeka Nord Edeka")
	if a != b {
		t.Errorf("signatures differ: %q vs %q", a, b)
	}
	if a != "edeka nord" {
		t.Errorf("signature = %q, want %q", a, "edeka nord")
	}
}

func TestNormRef(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" aa1 ", "AA1"},
		{"AA 1", "AA1"},
		{"bb2\t", "BB2"},
	}
	for _, c := range cases {
		if got := NormRef(c.in); got != c.want {
			t.Errorf("NormRef(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRowKey(t *testing.T) {
	a := RowKey("aa1", "Müller & Co.")
	b := RowKey("AA1", "MULLER CO")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}

	asset, tenant := SplitKey(a)
	if asset != "AA1" || tenant != "muller co" {
		t.Errorf("SplitKey = (%q, %q)", asset, tenant)
	}
}
