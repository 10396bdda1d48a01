// Package relevance decides whether a news entry is related to Istanbul.
// The predicate is pure text matching over the title and resolved link.
package relevance

import "strings"

// istanbulDistricts lists the 38 district names used for title matching,
// lower-cased with Turkish diacritics as they appear in headlines.
var istanbulDistricts = []string{
	"adalar", "arnavutköy", "ataşehir", "avcılar", "bağcılar", "bahçelievler", "bakırköy",
	"başakşehir", "bayrampaşa", "beşiktaş", "beykoz", "beylikdüzü", "beyoğlu", "büyükçekmece",
	"çatalca", "çekmeköy", "esenler", "esenyurt", "eyüpsultan", "fatih", "gaziosmanpaşa",
	"güngören", "kadıköy", "kağıthane", "kartal", "küçükçekmece", "maltepe", "pendik",
	"sancaktepe", "sarıyer", "silivri", "sultanbeyli", "sultangazi", "şile", "şişli",
	"tuzla", "ümraniye", "üsküdar", "zeytinburnu",
}

// IsIstanbulRelated reports whether the given title or link refers to Istanbul.
// Matching is case-insensitive. A lower-cased Turkish dotted İ becomes
// "i̇" (i plus combining dot), so that spelling is checked alongside the
// plain ASCII form. Empty title and link are valid inputs and yield false.
func IsIstanbulRelated(title, link string) bool {
	t := strings.ToLower(title)
	l := strings.ToLower(link)

	if strings.Contains(t, "istanbul") || strings.Contains(t, "i̇stanbul") || strings.Contains(l, "istanbul") {
		return true
	}

	for _, district := range istanbulDistricts {
		if strings.Contains(t, district) {
			return true
		}
	}
	return false
}

// Districts returns the district names recognized by the filter.
// The returned slice is a copy; callers may not mutate the internal table.
func Districts() []string {
	out := make([]string, len(istanbulDistricts))
	copy(out, istanbulDistricts)
	return out
}
