// Presentation-layer filtering over the engine's unfiltered output. The
// engine carries flagged/onlyPM/onlyOdoo/deltas precisely so this layer can
// filter without recomputation.
package handler

import (
	"math"
	"net/http"
	"strings"

	"tenancy-recon/internal/amcode"
	"tenancy-recon/internal/banlist"
	"tenancy-recon/internal/reconcile/model"
	"tenancy-recon/internal/textnorm"
)

// Vacancy and tax-status placeholder rows carry no tenant to reconcile.
var hiddenFragments = []string{"leerstand", "vacant", "stpfl", "stfr"}

func isHiddenTenant(name string) bool {
	n := textnorm.NormalizeForKey(name)
	for _, frag := range hiddenFragments {
		if strings.Contains(n, frag) {
			return true
		}
	}
	return false
}

// keepVisible drops banned assets and placeholder tenants before the rows
// reach the engine.
func keepVisible(rows []model.TenancyRecord, banned map[string]struct{}) []model.TenancyRecord {
	out := rows[:0]
	for _, r := range rows {
		if banlist.Contains(banned, r.AssetRef) || isHiddenTenant(r.TenantName) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type rowFilters struct {
	query string // normalized free-text search over asset/city/tenant
	am    string // "", or one of the AM codes
	view  string // "", "highlighted", "missing_rent"
}

func filtersFromQuery(r *http.Request) rowFilters {
	q := r.URL.Query()
	return rowFilters{
		query: textnorm.NormalizeForKey(q.Get("q")),
		am:    strings.ToUpper(strings.TrimSpace(q.Get("am"))),
		view:  strings.ToLower(strings.TrimSpace(q.Get("view"))),
	}
}

// missingRentThreshold matches the rent highlight default used by the
// "missing rent" view.
const missingRentThreshold = 5

func applyFilters(rows []model.CombinedRow, f rowFilters) []model.CombinedRow {
	out := make([]model.CombinedRow, 0, len(rows))
	for _, r := range rows {
		if f.query != "" {
			hay := textnorm.NormalizeForKey(r.AssetRef + " " + r.City + " " + r.Tenant)
			if !strings.Contains(hay, f.query) {
				continue
			}
		}
		if f.am != "" && f.am != "ALL" && r.AM != amcode.Code(f.am) {
			continue
		}
		switch f.view {
		case "highlighted":
			if !(r.Flagged || r.OnlyPM || r.OnlyOdoo) {
				continue
			}
		case "missing_rent":
			hasRentGap := r.DeltaRent != nil && math.Abs(*r.DeltaRent) > missingRentThreshold
			if !(r.OnlyPM || r.OnlyOdoo || hasRentGap) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
