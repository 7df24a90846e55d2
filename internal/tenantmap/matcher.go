// Package tenantmap maps free-text PM tenant labels onto the controlled
// vocabulary of canonical tenant names used by the AM side.
package tenantmap

import (
	"fmt"
	"strings"

	"tenancy-recon/internal/textnorm"
)

// JaccardThreshold is the minimum token-set similarity accepted by the fuzzy
// fallback. Business tuning value, do not re-derive.
const JaccardThreshold = 0.85

// Entry is one canonical name with all its known raw variants. The canonical
// label is always a member of its own variant set.
type Entry struct {
	Canonical string
	Variants  []string
}

// Pair is one (variant → canonical) rule from a flat mapping table.
type Pair struct {
	Variant   string
	Canonical string
}

// Result of a lookup. Mapped is empty when Reason is "no_match"; callers
// typically fall back to the raw label then.
type Result struct {
	Mapped string `json:"mapped"`
	Reason string `json:"reason"`
}

// Matcher is immutable after Build and safe for concurrent use.
type Matcher struct {
	entries  []Entry
	exact    map[string]string // NormalizeForKey(variant) -> canonical
	stripped map[string]string // NormalizeLegalForm(variant) -> canonical
	tokens   map[string]string // TokenSignature(variant) -> canonical
	tokCache map[string][]string
}

// FromPairs groups flat rules by canonical label, preserving first-seen
// order of canonicals and of variants within a canonical.
func FromPairs(pairs []Pair) []Entry {
	order := make([]string, 0)
	byCan := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, p := range pairs {
		can := trim(p.Canonical)
		v := trim(p.Variant)
		if can == "" || v == "" {
			continue
		}
		if _, ok := byCan[can]; !ok {
			order = append(order, can)
			seen[can] = make(map[string]bool)
		}
		if seen[can][v] {
			continue
		}
		seen[can][v] = true
		byCan[can] = append(byCan[can], v)
	}
	entries := make([]Entry, 0, len(order))
	for _, can := range order {
		entries = append(entries, Entry{Canonical: can, Variants: byCan[can]})
	}
	return entries
}

func trim(s string) string { return strings.TrimSpace(s) }

// Build constructs the three lookup indexes and warms the token cache.
// On index collisions across canonicals the last write in entry/variant
// order wins; this mirrors the observed production behavior.
func Build(entries []Entry) *Matcher {
	m := &Matcher{
		exact:    make(map[string]string),
		stripped: make(map[string]string),
		tokens:   make(map[string]string),
		tokCache: make(map[string][]string),
	}
	for _, e := range entries {
		can := trim(e.Canonical)
		if can == "" {
			continue
		}
		variants := make([]string, 0, len(e.Variants)+1)
		seen := make(map[string]bool, len(e.Variants)+1)
		for _, v := range append([]string{can}, e.Variants...) {
			v = trim(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			variants = append(variants, v)
		}
		for _, v := range variants {
			m.exact[textnorm.NormalizeForKey(v)] = can
			m.stripped[textnorm.NormalizeLegalForm(v)] = can
			m.tokens[textnorm.TokenSignature(v)] = can
			m.variantTokens(v)
		}
		m.entries = append(m.entries, Entry{Canonical: can, Variants: variants})
	}
	return m
}

func (m *Matcher) variantTokens(v string) []string {
	if t, ok := m.tokCache[v]; ok {
		return t
	}
	t := textnorm.Tokenize(v)
	m.tokCache[v] = t
	return t
}

// Size reports the number of canonical entries.
func (m *Matcher) Size() int { return len(m.entries) }

// Match resolves a raw label. Tiers, first hit wins: exact normalized form,
// exact after legal strip, token-set signature, then Jaccard over token
// sets against every variant (O(entries×variants), fine for dictionaries
// in the hundreds).
func (m *Matcher) Match(label string) Result {
	if can, ok := m.exact[textnorm.NormalizeForKey(label)]; ok {
		return Result{Mapped: can, Reason: "exact"}
	}
	if can, ok := m.stripped[textnorm.NormalizeLegalForm(label)]; ok {
		return Result{Mapped: can, Reason: "exact_strip"}
	}
	if can, ok := m.tokens[textnorm.TokenSignature(label)]; ok {
		return Result{Mapped: can, Reason: "token_set"}
	}

	toks := textnorm.Tokenize(label)
	best := -1.0
	bestCan := ""
	for _, e := range m.entries {
		for _, v := range e.Variants {
			if s := jaccard(toks, m.variantTokens(v)); s > best {
				best = s
				bestCan = e.Canonical
			}
		}
	}
	if bestCan != "" && best >= JaccardThreshold {
		return Result{Mapped: bestCan, Reason: fmt.Sprintf("jaccard_%.2f", best)}
	}
	return Result{Reason: "no_match"}
}

// jaccard is |A∩B| / |A∪B| over token sets; 0 when both are empty.
func jaccard(a, b []string) float64 {
	as := make(map[string]bool, len(a))
	for _, t := range a {
		as[t] = true
	}
	bs := make(map[string]bool, len(b))
	for _, t := range b {
		bs[t] = true
	}
	inter := 0
	for t := range as {
		if bs[t] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
