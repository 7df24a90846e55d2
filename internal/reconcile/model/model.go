package model

import "tenancy-recon/internal/amcode"

// TenancyRecord is one tenancy as reported by either source, already in
// canonical shape: PM tenant names have been through the matcher, AM names
// were cleaned of the "asset - lot - name" convention at the source.
type TenancyRecord struct {
	AssetRef   string      `json:"asset_ref"`
	TenantName string      `json:"tenant_name"`
	Space      float64     `json:"space"`
	Rent       float64     `json:"rent"`
	Walt       *float64    `json:"walt,omitempty"` // years, nil when not reported
	City       string      `json:"city,omitempty"`
	AM         amcode.Code `json:"am,omitempty"`
}

// Thresholds gate delta handling. Highlight thresholds flag a row; display
// thresholds mark a delta as non-negligible for presentation. Defaults are
// tuned business values, preserved exactly.
type Thresholds struct {
	SpaceHighlight float64 `json:"spaceHighlight"`
	RentHighlight  float64 `json:"rentHighlight"`
	WaltHighlight  float64 `json:"waltHighlight"`
	SpaceDisplay   float64 `json:"spaceDisplay"`
	RentDisplay    float64 `json:"rentDisplay"`
	WaltDisplay    float64 `json:"waltDisplay"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SpaceHighlight: 1,
		RentHighlight:  5,
		WaltHighlight:  0.5,
		SpaceDisplay:   1,
		RentDisplay:    5,
		WaltDisplay:    0.2,
	}
}

// CombinedRow is one joined (or one-sided) tenancy in the reconciliation
// output. Deltas are Odoo minus PM and nil when either side is missing:
// "no comparison possible" is distinct from "no difference". Recomputed in
// full on every reconciliation, never persisted.
type CombinedRow struct {
	Key        string         `json:"id"`
	AssetRef   string         `json:"asset"`
	City       string         `json:"city"`
	AM         amcode.Code    `json:"am"`
	Tenant     string         `json:"tenant"`
	PM         *TenancyRecord `json:"pm"`
	Odoo       *TenancyRecord `json:"odoo"`
	DeltaSpace *float64       `json:"deltaSpace"`
	DeltaRent  *float64       `json:"deltaRent"`
	DeltaWalt  *float64       `json:"deltaWalt"`
	OnlyPM     bool           `json:"onlyPM"`
	OnlyOdoo   bool           `json:"onlyOdoo"`
	Flagged    bool           `json:"flagged"`
}
