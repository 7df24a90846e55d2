// Tenant-name normalization: diacritic/case folding, punctuation collapsing,
// legal-form stripping and token signatures shared by the matcher and the
// row-key join.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD decompose, drop combining marks, recompose: ü→u, é→e, ö→o.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return out
}

// keyPunct is the punctuation class replaced by a space in row keys.
var keyPunct = map[rune]bool{
	'-': true, '–': true, '—': true, '_': true, '/': true,
	'.': true, ',': true, ';': true, ':': true, '(': true, ')': true, '&': true,
}

// Trailing administrative clauses: everything from the marker to the end of
// the string is noise ("c/o Hausverwaltung X", "Zweigniederlassung Süd", ...).
var cutMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bc/o\b.*$`),
	regexp.MustCompile(`(?i)\bobjektmanagement\b.*$`),
	regexp.MustCompile(`(?i)\bzweigniederlassung\b.*$`),
	regexp.MustCompile(`(?i)\bvertragswesen\b.*$`),
	regexp.MustCompile(`(?i)\bregion\b.*$`),
}

// Legal-entity forms and corporate filler removed as whole words before
// token comparison. Kept exactly as tuned against the production dictionary.
var legalForms = []string{
	"gmbh", "gmbh & co", "gmbh & co\\. kg", "kg", "se", "ag", "eg", "e\\.k\\.", "ohg", "ug",
	"stiftung", "stiftung & co\\. kg", "stiftung & co kg",
	"gesellschaft", "gesellschaft mbh",
	"vermessungs", "verwaltung", "immobilien", "immobilien-?service", "service", "handelsgesellschaft",
	"vertrieb", "vertriebs-?gmbh", "discothekenbetriebs", "qualitatswerkzeuge", "qualitätswerkzeuge",
	"center", "center gmbh", "beteiligungs", "holding", "objekt", "objektmanagement", "niederlassung",
}

var legalRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(legalForms, "|") + `)\b`)

var legalPunct = regexp.MustCompile(`[.,/()\[\]&]+`)

// stopwords is a superset of the legal forms plus conjunctions/articles,
// dropped from token sets.
var stopwords = map[string]bool{
	"gmbh": true, "kg": true, "se": true, "ag": true, "eg": true, "ohg": true, "ug": true,
	"stiftung": true, "gesellschaft": true, "verwaltung": true, "immobilien": true, "service": true,
	"handelsgesellschaft": true, "vertrieb": true, "center": true, "holding": true,
	"beteiligungs": true, "niederlassung": true, "region": true, "markt": true,
	"discothekenbetriebs": true, "qualitatswerkzeuge": true, "qualitats": true,
	"qualitäts": true, "werkzeuge": true, "objekt": true, "objektmanagement": true,
	"abteilung": true, "mietwesen": true, "immobilienmanagement": true, "immobilien-": true,
	"vertragswesen": true, "zweigniederlassung": true,
	"co": true, "und": true, "&": true, "der": true, "die": true, "das": true,
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldBasic lowercases, folds diacritics and collapses whitespace.
func foldBasic(s string) string {
	return collapse(strings.ToLower(fold(s)))
}

// NormalizeForKey produces the coarse form used in row keys: folded,
// lowercased, with separators and punctuation collapsed to single spaces.
// Legal suffixes are NOT stripped here. Idempotent.
func NormalizeForKey(s string) string {
	t := strings.ToLower(fold(s))
	t = strings.Map(func(r rune) rune {
		if keyPunct[r] {
			return ' '
		}
		return r
	}, t)
	return collapse(t)
}

// NormalizeLegalForm removes administrative tails and legal-entity filler
// before folding. Only the matcher compares strings in this form.
func NormalizeLegalForm(s string) string {
	t := " " + s + " "
	for _, re := range cutMarkers {
		t = re.ReplaceAllString(t, " ")
	}
	t = legalRe.ReplaceAllString(t, " ")
	t = legalPunct.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, "-", " ")
	return foldBasic(t)
}

// Tokenize splits the legal-stripped form into tokens minus stopwords.
func Tokenize(s string) []string {
	fields := strings.Fields(NormalizeLegalForm(s))
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TokenSignature is an order- and duplicate-insensitive fingerprint of the
// token set.
func TokenSignature(s string) string {
	toks := Tokenize(s)
	seen := make(map[string]bool, len(toks))
	uniq := make([]string, 0, len(toks))
	for _, t := range toks {
		if seen[t] {
			continue
		}
		seen[t] = true
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " ")
}

// NormRef normalizes an asset reference for keying and ban lookups:
// uppercase, all whitespace removed.
func NormRef(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// KeySep separates the asset and tenant segments of a row key.
const KeySep = "@@"

// RowKey is the composite join key: two records with the same key are the
// same tenancy regardless of raw casing, diacritics or punctuation.
func RowKey(assetRef, tenantName string) string {
	return NormRef(assetRef) + KeySep + NormalizeForKey(tenantName)
}

// SplitKey returns the asset and tenant segments of a row key.
func SplitKey(key string) (asset, tenant string) {
	if i := strings.Index(key, KeySep); i >= 0 {
		return key[:i], key[i+len(KeySep):]
	}
	return key, ""
}
