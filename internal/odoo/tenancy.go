package odoo

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tenancy-recon/internal/amcode"
	"tenancy-recon/internal/banlist"
	"tenancy-recon/internal/reconcile/model"
)

// yearsPerDay smoothing: 365.25-day year.
const hoursPerYear = 365.25 * 24

var numericSegment = regexp.MustCompile(`^[0-9]+$`)

// CleanTenancyName strips the ERP "asset - lot - name" labelling convention:
// the leading asset code always goes, a purely numeric lot segment goes too,
// the remaining segments are the tenant name.
//
//	"AA1 - 01 - Netto"      → "Netto"
//	"AA1 - Edeka - Nord"    → "Edeka Nord"
func CleanTenancyName(raw string) string {
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(raw, "-") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	rest := parts[1:]
	if len(rest) > 0 && numericSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return parts[len(parts)-1]
	}
	return strings.Join(rest, " ")
}

// yearsUntil returns the remaining lease term in fractional years, never
// negative.
func yearsUntil(now, end time.Time) float64 {
	y := end.Sub(now).Hours() / hoursPerYear
	if y < 0 {
		return 0
	}
	return y
}

func parseEndDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Odoo sends false in place of missing values, so records are decoded into
// loose maps and coerced here.
func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}

// m2oID extracts the id from an Odoo many2one tuple [id, display_name].
func m2oID(v any) int {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return 0
	}
	id, ok := arr[0].(float64)
	if !ok {
		return 0
	}
	return int(id)
}

// Tenants fetches all tenancies attached to a main property and returns them
// as canonical records: labels cleaned, WALT computed from date_end_display,
// banned assets dropped.
func Tenants(ctx context.Context, c *Client, banned map[string]struct{}) ([]model.TenancyRecord, error) {
	var tenancies []map[string]any
	err := c.SearchRead(ctx, "property.tenancy",
		[]any{[]any{"main_property_id", "!=", false}},
		[]string{"id", "name", "main_property_id", "total_current_rent", "space", "date_end_display"},
		5000, &tenancies)
	if err != nil {
		return nil, err
	}

	mainIDs := make([]any, 0)
	seen := make(map[int]bool)
	for _, t := range tenancies {
		if id := m2oID(t["main_property_id"]); id != 0 && !seen[id] {
			seen[id] = true
			mainIDs = append(mainIDs, id)
		}
	}

	type mainMeta struct {
		ref  string
		city string
	}
	byMain := make(map[int]mainMeta, len(mainIDs))
	if len(mainIDs) > 0 {
		var mains []map[string]any
		err = c.SearchRead(ctx, "property.property",
			[]any{[]any{"id", "in", mainIDs}},
			[]string{"id", "reference_id", "city"},
			5000, &mains)
		if err != nil {
			return nil, err
		}
		for _, m := range mains {
			id := int(num(m["id"]))
			ref := strings.TrimSpace(str(m["reference_id"]))
			if ref == "" {
				ref = strconv.Itoa(id)
			}
			byMain[id] = mainMeta{ref: ref, city: str(m["city"])}
		}
	}

	now := time.Now()
	out := make([]model.TenancyRecord, 0, len(tenancies))
	for _, t := range tenancies {
		mid := m2oID(t["main_property_id"])
		meta, ok := byMain[mid]
		if mid == 0 || !ok {
			continue
		}
		if banlist.Contains(banned, meta.ref) {
			continue
		}

		walt := 0.0
		if end, ok := parseEndDate(str(t["date_end_display"])); ok {
			walt = yearsUntil(now, end)
		}
		w := walt

		out = append(out, model.TenancyRecord{
			AssetRef:   meta.ref,
			City:       meta.city,
			TenantName: CleanTenancyName(str(t["name"])),
			Space:      num(t["space"]),
			Rent:       num(t["total_current_rent"]),
			Walt:       &w,
		})
	}
	return out, nil
}

// AssetCodes builds the asset-reference → AM-code resolver from the main
// property list's sales_person_id.
func AssetCodes(ctx context.Context, c *Client) (amcode.Resolver, error) {
	var mains []map[string]any
	err := c.SearchRead(ctx, "property.property",
		[]any{[]any{"reference_id", "!=", false}},
		[]string{"reference_id", "sales_person_id"},
		10000, &mains)
	if err != nil {
		return nil, err
	}

	resolver := make(amcode.Resolver, len(mains))
	for _, m := range mains {
		ref := strings.TrimSpace(str(m["reference_id"]))
		if ref == "" {
			continue
		}
		resolver[ref] = amcode.FromSalesperson(m2oID(m["sales_person_id"]))
	}
	return resolver, nil
}
