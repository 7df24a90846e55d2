// The reconciliation engine: joins PM and Odoo tenancy snapshots on the
// composite (asset, normalized tenant) key, computes deltas and classifies
// every row. Pure compute, no I/O; safe to call concurrently as long as each
// call gets its own input slices.
package service

import (
	"math"
	"sort"

	"tenancy-recon/internal/amcode"
	"tenancy-recon/internal/reconcile/model"
	"tenancy-recon/internal/textnorm"
)

// Reconcile produces the full, unfiltered combined-row list. Output is
// deterministic for fixed inputs; input order only matters for
// last-write-wins duplicate resolution within one source.
func Reconcile(pm, odoo []model.TenancyRecord, th model.Thresholds) []model.CombinedRow {
	pmIdx := indexRows(pm)
	odIdx := indexRows(odoo)
	guess := assetCodeGuess(pm, odoo)

	keys := make(map[string]struct{}, len(pmIdx)+len(odIdx))
	for k := range pmIdx {
		keys[k] = struct{}{}
	}
	for k := range odIdx {
		keys[k] = struct{}{}
	}

	rows := make([]model.CombinedRow, 0, len(keys))
	for k := range keys {
		rows = append(rows, combine(k, pmIdx, odIdx, guess, th))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AssetRef != rows[j].AssetRef {
			return rows[i].AssetRef < rows[j].AssetRef
		}
		if rows[i].Tenant != rows[j].Tenant {
			return rows[i].Tenant < rows[j].Tenant
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// indexRows builds the per-source key index. Duplicate keys within one
// source are a data-quality issue, not an error: last write wins.
func indexRows(rows []model.TenancyRecord) map[string]*model.TenancyRecord {
	idx := make(map[string]*model.TenancyRecord, len(rows))
	for i := range rows {
		r := rows[i]
		idx[textnorm.RowKey(r.AssetRef, r.TenantName)] = &r
	}
	return idx
}

// assetCodeGuess records the first non-empty AM code seen per asset across
// both sources, PM side first. Keyed by the normalized reference so the
// sources meet on the same spelling they join on.
func assetCodeGuess(pm, odoo []model.TenancyRecord) map[string]amcode.Code {
	guess := make(map[string]amcode.Code)
	feed := func(rows []model.TenancyRecord) {
		for _, r := range rows {
			if r.AM != amcode.None {
				ref := textnorm.NormRef(r.AssetRef)
				if _, ok := guess[ref]; !ok {
					guess[ref] = r.AM
				}
			}
		}
	}
	feed(pm)
	feed(odoo)
	return guess
}

func combine(key string, pmIdx, odIdx map[string]*model.TenancyRecord, guess map[string]amcode.Code, th model.Thresholds) model.CombinedRow {
	pmRow := pmIdx[key]
	odRow := odIdx[key]
	assetSeg, tenantSeg := textnorm.SplitKey(key)

	row := model.CombinedRow{
		Key:      key,
		PM:       pmRow,
		Odoo:     odRow,
		OnlyPM:   pmRow != nil && odRow == nil,
		OnlyOdoo: odRow != nil && pmRow == nil,
	}

	// Display fields keep the original casing of whichever side has them.
	switch {
	case pmRow != nil:
		row.AssetRef = pmRow.AssetRef
		row.Tenant = pmRow.TenantName
	case odRow != nil:
		row.AssetRef = odRow.AssetRef
		row.Tenant = odRow.TenantName
	default:
		row.AssetRef = assetSeg
		row.Tenant = tenantSeg
	}
	if odRow != nil && odRow.City != "" {
		row.City = odRow.City
	} else if pmRow != nil {
		row.City = pmRow.City
	}

	row.AM = resolveCode(pmRow, odRow, guess, assetSeg)

	if pmRow != nil && odRow != nil {
		row.DeltaSpace = f(odRow.Space - pmRow.Space)
		row.DeltaRent = f(odRow.Rent - pmRow.Rent)
		// WALT delta needs both values reported, not just both rows.
		if odRow.Walt != nil && pmRow.Walt != nil {
			row.DeltaWalt = f(*odRow.Walt - *pmRow.Walt)
		}
	}

	row.Flagged = exceeds(row.DeltaSpace, th.SpaceHighlight) ||
		exceeds(row.DeltaRent, th.RentHighlight) ||
		exceeds(row.DeltaWalt, th.WaltHighlight)
	return row
}

func resolveCode(pmRow, odRow *model.TenancyRecord, guess map[string]amcode.Code, assetSeg string) amcode.Code {
	if pmRow != nil && pmRow.AM != amcode.None {
		return pmRow.AM
	}
	if odRow != nil && odRow.AM != amcode.None {
		return odRow.AM
	}
	// assetSeg is the NormRef segment of the row key, the same form the
	// guess map is keyed by.
	return guess[assetSeg]
}

// exceeds reports a delta strictly beyond its threshold; nil never exceeds.
func exceeds(d *float64, threshold float64) bool {
	return d != nil && math.Abs(*d) > threshold
}

func f(v float64) *float64 { return &v }
