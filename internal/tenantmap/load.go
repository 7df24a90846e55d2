package tenantmap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"tenancy-recon/internal/fileio"
)

// Mapping-table formats accepted:
//   - flat JSON:    [{"pm":"Carrefour SA","am":"Carrefour"}, ...]
//   - grouped JSON: {"groups":[{"canonical":"Carrefour","am":[...],"pm":[...]}]}
//   - tabular:      CSV/XLS/XLSX with variant/canonical (or pm/am) columns
//
// Malformed or missing input yields an empty entry list: the matcher built
// from it matches nothing, it never fails.

type pairJSON struct {
	PM string `json:"pm"`
	AM string `json:"am"`
}

type groupJSON struct {
	Canonical string   `json:"canonical"`
	AM        []string `json:"am"`
	PM        []string `json:"pm"`
}

type groupedJSON struct {
	Groups []groupJSON `json:"groups"`
}

// Load reads a mapping table from disk. Every failure degrades to an empty
// list with a warning; the caller always gets a buildable result.
func Load(path string, log zerolog.Logger) []Entry {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("tenant map missing, matcher will be empty")
			return nil
		}
		return parseJSON(raw, log)
	case ".csv", ".xls", ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("tenant map missing, matcher will be empty")
			return nil
		}
		defer f.Close()
		maps, err := fileio.ReadAnyMaps(f, filepath.Base(path), 1)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("tenant map unreadable")
			return nil
		}
		return fromTable(maps)
	default:
		log.Warn().Str("path", path).Msg("unsupported tenant map format")
		return nil
	}
}

func parseJSON(raw []byte, log zerolog.Logger) []Entry {
	var flat []pairJSON
	if err := json.Unmarshal(raw, &flat); err == nil {
		pairs := make([]Pair, 0, len(flat))
		for _, p := range flat {
			pairs = append(pairs, Pair{Variant: p.PM, Canonical: p.AM})
		}
		return FromPairs(pairs)
	}

	var grouped groupedJSON
	if err := json.Unmarshal(raw, &grouped); err == nil && len(grouped.Groups) > 0 {
		entries := make([]Entry, 0, len(grouped.Groups))
		for _, g := range grouped.Groups {
			can := strings.TrimSpace(g.Canonical)
			if can == "" {
				continue
			}
			variants := make([]string, 0, len(g.AM)+len(g.PM))
			variants = append(variants, g.AM...)
			variants = append(variants, g.PM...)
			entries = append(entries, Entry{Canonical: can, Variants: variants})
		}
		return entries
	}

	log.Warn().Msg("tenant map JSON in unknown shape")
	return nil
}

// fromTable accepts header-keyed rows with variant/canonical columns,
// tolerating the pm/am naming of the flat JSON format.
func fromTable(rows []map[string]string) []Entry {
	pairs := make([]Pair, 0, len(rows))
	for _, rec := range rows {
		variant := pick(rec, "variant", "pm")
		canonical := pick(rec, "canonical", "am")
		if variant == "" || canonical == "" {
			continue
		}
		pairs = append(pairs, Pair{Variant: variant, Canonical: canonical})
	}
	return FromPairs(pairs)
}

func pick(rec map[string]string, names ...string) string {
	for _, n := range names {
		for k, v := range rec {
			if strings.ToLower(strings.TrimSpace(k)) == n {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
