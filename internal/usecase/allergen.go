package usecase

import "strings"

// extractAllergenKeywords builds the lookup set used to highlight allergenic
// ingredients. A label like "tree nuts (almonds)" contributes both the base
// term and the parenthesized qualifier, lower-cased; a plain label
// contributes itself lower-cased. Plural keywords also register their
// singular form, so "almonds" flags an ingredient named "Almond Butter".
func extractAllergenKeywords(allergens []any) map[string]struct{} {
	keywords := make(map[string]struct{}, len(allergens)*2)
	for _, a := range allergens {
		label, ok := a.(string)
		if !ok {
			continue
		}
		if open := strings.Index(label, "("); open >= 0 {
			base := strings.ToLower(strings.TrimSpace(label[:open]))
			qualifier := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(label[open+1:], ")", "")))
			addKeyword(keywords, base)
			addKeyword(keywords, qualifier)
		} else {
			addKeyword(keywords, strings.ToLower(strings.TrimSpace(label)))
		}
	}
	return keywords
}

func addKeyword(keywords map[string]struct{}, kw string) {
	if kw == "" {
		return
	}
	keywords[kw] = struct{}{}
	if singular := strings.TrimSuffix(kw, "s"); singular != kw && singular != "" {
		keywords[singular] = struct{}{}
	}
}

// matchesAllergen reports whether the ingredient name contains any allergen
// keyword as a substring. Matching is deliberately permissive: the keyword
// "fish" flags an ingredient named "Swordfish Chips". Word-boundary matching
// would change which ingredients get highlighted on existing labels.
func matchesAllergen(name string, keywords map[string]struct{}) bool {
	lower := strings.ToLower(name)
	for kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// allergenList reads the optional free-text allergen labels from a record.
func allergenList(record map[string]any) []any {
	l, _ := record["allergens"].([]any)
	return l
}
