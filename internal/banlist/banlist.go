// Package banlist loads the set of asset references excluded from
// reconciliation. Rows are filtered before they reach the engine.
package banlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"tenancy-recon/internal/textnorm"
)

// Accepted formats, tried in order:
//   - banlist.json array:  ["AD1","ZZ9"]
//   - banlist.json object: {"assets":[...]} / {"ban":[...]} / {"list":[...]}
//   - banlist.json map:    {"AD1":true,"ZZ9":1}
//   - banlist.csv:         one reference per line
//
// References are keyed via textnorm.NormRef. Missing or malformed files
// yield an empty set, never an error.

// Load reads the banned-asset set from dir.
func Load(dir string) map[string]struct{} {
	out := make(map[string]struct{})

	if raw, err := os.ReadFile(filepath.Join(dir, "banlist.json")); err == nil {
		var v any
		if json.Unmarshal(raw, &v) == nil {
			collect(v, out)
		}
	}

	if len(out) == 0 {
		if raw, err := os.ReadFile(filepath.Join(dir, "banlist.csv")); err == nil {
			for _, line := range strings.Split(string(raw), "\n") {
				if v := strings.TrimSpace(strings.TrimSuffix(line, "\r")); v != "" {
					out[textnorm.NormRef(v)] = struct{}{}
				}
			}
		}
	}

	return out
}

func collect(v any, out map[string]struct{}) {
	switch t := v.(type) {
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				out[textnorm.NormRef(s)] = struct{}{}
			}
		}
	case map[string]any:
		for _, key := range []string{"assets", "ban", "list"} {
			if arr, ok := t[key].([]any); ok {
				collect(arr, out)
				return
			}
		}
		// map form: truthy value bans the key
		for k, val := range t {
			if truthy(val) {
				out[textnorm.NormRef(k)] = struct{}{}
			}
		}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}

// Contains reports whether an asset reference is banned.
func Contains(set map[string]struct{}, assetRef string) bool {
	_, ok := set[textnorm.NormRef(assetRef)]
	return ok
}
