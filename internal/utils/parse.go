package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseFloat parses numbers as they appear in property exports: "1 234,50",
// "1.234,56", "1,234.56", NBSP/NNBSP group separators. Returns ok=false when
// nothing numeric is left; callers default to 0.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// drop regular and non-breaking group separators
	repl := strings.NewReplacer("\u00A0", "", "\u2009", "", "\u202F", "", " ", "", "\t", "")
	s = repl.Replace(s)

	// decide which of comma/dot is the decimal mark: "1.234,56" vs "1,234.56"
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		if strings.ContainsRune(s[i+1:], '.') {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s[:i], ".", "") + "." + strings.ReplaceAll(s[i+1:], ",", "")
		}
	}

	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
