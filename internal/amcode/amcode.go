// Package amcode translates ERP salesperson identifiers into the four-letter
// asset-manager codes used to annotate tenancy rows.
package amcode

import "strings"

// Code is an asset-manager code. Empty means unknown or unassigned.
type Code string

const (
	CFR  Code = "CFR"
	BKO  Code = "BKO"
	FKE  Code = "FKE"
	MSC  Code = "MSC"
	None Code = ""
)

// FromSalesperson maps an ERP sales_person_id to an AM code. The table is
// business configuration and must stay exact; unknown ids resolve to None.
func FromSalesperson(id int) Code {
	switch id {
	case 12:
		return CFR
	case 7:
		return FKE
	case 8:
		return BKO
	case 9:
		return MSC
	default:
		return None
	}
}

// Resolver looks up the AM code for an asset reference.
type Resolver map[string]Code

// Resolve returns the code for an asset reference, None when unknown.
func (r Resolver) Resolve(assetRef string) Code {
	if r == nil {
		return None
	}
	return r[strings.TrimSpace(assetRef)]
}
