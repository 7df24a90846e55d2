// Package pm loads the property-manager tenancy snapshot from disk and
// canonicalizes tenant labels through the matcher.
package pm

import (
	"os"
	"path/filepath"
	"strings"

	"tenancy-recon/internal/fileio"
	"tenancy-recon/internal/reconcile/model"
	"tenancy-recon/internal/tenantmap"
	"tenancy-recon/internal/utils"
)

// Snapshot files tried in order inside the data dir. Columns are positional:
// asset, city, tenant, space, rent, walt (optional).
var snapshotNames = []string{"pm_datatenant.csv", "pm_datatenant.xlsx", "pm_datatenant.xls"}

const (
	colAsset = iota
	colCity
	colTenant
	colSpace
	colRent
	colWalt
)

// Load reads the PM snapshot and maps tenant labels onto canonical names.
// Labels the matcher cannot place keep their raw form. A missing snapshot
// yields an empty slice, not an error.
func Load(dataDir string, matcher *tenantmap.Matcher) ([]model.TenancyRecord, error) {
	var path string
	for _, name := range snapshotNames {
		p := filepath.Join(dataDir, name)
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := fileio.ReadAnyRows(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	out := make([]model.TenancyRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) <= colRent {
			continue
		}
		asset := trimmed(row, colAsset)
		if asset == "" {
			continue
		}
		label := trimmed(row, colTenant)

		name := label
		if matcher != nil {
			if res := matcher.Match(label); res.Mapped != "" {
				name = res.Mapped
			}
		}

		space, _ := utils.ParseFloat(trimmed(row, colSpace))
		rent, _ := utils.ParseFloat(trimmed(row, colRent))

		var walt *float64
		if w := trimmed(row, colWalt); w != "" {
			v, _ := utils.ParseFloat(w)
			walt = &v
		}

		out = append(out, model.TenancyRecord{
			AssetRef:   asset,
			City:       trimmed(row, colCity),
			TenantName: name,
			Space:      space,
			Rent:       rent,
			Walt:       walt,
		})
	}
	return out, nil
}

func trimmed(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
