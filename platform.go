package fundscreen

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// APIR codes identify managed investment products, e.g. "BTA0054AU". Platform
// documents list them in plain text, sometimes split by a space or a hyphen.
var (
	standardAPIR = regexp.MustCompile(`\b[A-Z]{3}[0-9A-Z]{2,9}(?:AU)?\b`)
	spacedAPIR   = regexp.MustCompile(`\b[A-Z]{3}[\s\-]?[0-9A-Z]{2,6}[\s\-]?(?:AU)?\b`)
)

// ExtractAPIRCodes returns the sorted, de-duplicated APIR codes found in text.
// Words that are too short or made only of letters are ignored, they are
// mostly acronyms.
func ExtractAPIRCodes(text string) []string {
	found := make(map[string]bool)
	for _, c := range standardAPIR.FindAllString(text, -1) {
		found[c] = true
	}
	for _, c := range spacedAPIR.FindAllString(text, -1) {
		c = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) || r == '-' {
				return -1
			}
			return r
		}, c)
		found[c] = true
	}

	codes := make([]string, 0, len(found))
	for c := range found {
		if len(c) < 5 || isAlpha(c) {
			continue
		}
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// FilterByAPIR returns the rows of d whose APIR code is one of codes, in the
// original order. Without an APIR column or without codes, d is returned.
func FilterByAPIR(d *Dataset, codes []string) *Dataset {
	if len(codes) == 0 || !d.HasColumn(ColAPIR) {
		return d
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return d.Where(func(r Row) bool {
		return set[strings.ToUpper(strings.TrimSpace(r.Get(ColAPIR).Text()))]
	})
}
