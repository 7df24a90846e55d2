package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"tenancy-recon/internal/amcode"
	"tenancy-recon/internal/banlist"
	"tenancy-recon/internal/config"
	"tenancy-recon/internal/middleware"
	"tenancy-recon/internal/odoo"
	"tenancy-recon/internal/pm"
	"tenancy-recon/internal/reconcile/model"
	recSvc "tenancy-recon/internal/reconcile/service"
	"tenancy-recon/internal/tenantmap"
	"tenancy-recon/internal/textnorm"
)

type tenancyResponse struct {
	PM       []model.TenancyRecord `json:"pm"`
	Odoo     []model.TenancyRecord `json:"odoo"`
	Rows     []model.CombinedRow   `json:"rows"`
	Warnings []string              `json:"warnings,omitempty"`
	Debug    map[string]any        `json:"debug"`
}

// Tenancy serves the full reconciliation: load both snapshots, ban- and
// vacancy-filter them, run the engine, then apply the caller's presentation
// filters (q, am, view) on top of the unfiltered engine output.
func Tenancy(cfg config.Config, logger zerolog.Logger, matcher *tenantmap.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger
		if rid := middleware.GetRequestID(r); rid != "" {
			log = logger.With().Str("rid", rid).Logger()
		}

		banned := banlist.Load(cfg.DataDir)
		var warnings []string
		debug := map[string]any{"ban_count": len(banned)}

		pmRows, err := pm.Load(cfg.DataDir, matcher)
		if err != nil {
			warnings = append(warnings, "pm snapshot: "+err.Error())
		}
		debug["pm_raw_count"] = len(pmRows)
		pmRows = keepVisible(pmRows, banned)
		debug["pm_after_ban_count"] = len(pmRows)

		var odRows []model.TenancyRecord
		odooCfg := odoo.ConfigFromEnv()
		if odooCfg.Valid() {
			client := odoo.NewClient(odooCfg)
			ctx := r.Context()

			// Fetched unbanned on purpose: the all/after-ban pair shows how
			// much the banlist is hiding.
			odRows, err = odoo.Tenants(ctx, client, nil)
			if err != nil {
				warnings = append(warnings, "odoo tenants: "+err.Error())
				odRows = nil
			}
			debug["odoo_all_count"] = len(odRows)
			odRows = keepVisible(odRows, banned)
			debug["odoo_after_ban_count"] = len(odRows)

			resolver, err := odoo.AssetCodes(ctx, client)
			if err != nil {
				warnings = append(warnings, "odoo am codes: "+err.Error())
			}
			annotate(pmRows, resolver)
			annotate(odRows, resolver)
		} else {
			warnings = append(warnings, "odoo not configured on server (missing env vars)")
		}

		rows := recSvc.Reconcile(pmRows, odRows, cfg.Thresholds)
		debug["row_count"] = len(rows)
		rows = applyFilters(rows, filtersFromQuery(r))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(tenancyResponse{
			PM:       pmRows,
			Odoo:     odRows,
			Rows:     rows,
			Warnings: warnings,
			Debug:    debug,
		}); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("pm", len(pmRows)).
			Int("odoo", len(odRows)).
			Int("rows", len(rows)).
			Dur("elapsed", time.Since(start)).
			Msg("tenancy reconcile done")
	}
}

// annotate stamps the resolved AM code on rows that lack one.
func annotate(rows []model.TenancyRecord, resolver amcode.Resolver) {
	for i := range rows {
		if rows[i].AM == amcode.None {
			rows[i].AM = resolver.Resolve(rows[i].AssetRef)
		}
	}
}

// MappingDebug exposes the matcher for a single label: GET ?label=... →
// the match result plus every normalized form, for dictionary tuning.
func MappingDebug(matcher *tenantmap.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := r.URL.Query().Get("label")
		res := matcher.Match(label)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"label":      label,
			"mapped":     res.Mapped,
			"reason":     res.Reason,
			"key_form":   textnorm.NormalizeForKey(label),
			"legal_form": textnorm.NormalizeLegalForm(label),
			"signature":  textnorm.TokenSignature(label),
			"entries":    matcher.Size(),
		})
	}
}

// BanDebug reports the loaded banlist: count plus a sorted sample.
func BanDebug(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banned := banlist.Load(cfg.DataDir)
		sample := make([]string, 0, len(banned))
		for ref := range banned {
			sample = append(sample, ref)
		}
		sort.Strings(sample)
		if len(sample) > 50 {
			sample = sample[:50]
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":  len(banned),
			"sample": sample,
		})
	}
}
