package usecase

import (
	"fmt"
	"strings"

	"github.com/labelforge/backend/internal/domain"
)

// Rule tables for the EU 1169/2011 regime. Immutable after init.
var (
	euMandatoryFields = []string{
		"product_name", "category", "net_quantity", "ingredients",
		"nutrition_per_100g", "date_type", "storage_conditions",
		"business_operator",
	}

	euCategories = []string{
		"packaged_food", "meat_fresh", "fish_seafood", "dairy",
		"frozen_food", "organic", "food_supplement", "alcoholic_beverage",
		"fresh_produce", "infant_food",
	}

	// Annex II allergens requiring emphasis in the ingredient list.
	euAllergens = []string{
		"milk", "eggs", "fish", "crustaceans", "molluscs",
		"peanuts", "tree nuts", "soy", "gluten", "celery",
		"mustard", "sesame", "lupin", "sulphites",
	}

	euMetricUnits = []string{"g", "kg", "ml", "L"}

	euRequiredNutrients = []string{
		"energy_kj", "energy_kcal", "fat", "saturates",
		"carbohydrate", "sugars", "protein", "salt",
	}

	euCategoryFlags = map[string][]string{
		"meat_fresh":         {"show_meat_origin", "show_traceability"},
		"fish_seafood":       {"show_catch_info", "show_fishing_method"},
		"dairy":              {"show_pasteurization"},
		"frozen_food":        {"show_frozen_date", "show_defrosting_instructions"},
		"food_supplement":    {"is_supplement", "show_supplement_warnings"},
		"alcoholic_beverage": {"show_abv"},
		"fresh_produce":      {"show_origin_mandatory"},
		"infant_food":        {"is_infant_food", "show_preparation_instructions"},
	}
)

// EURules implements the Regulation 1169/2011 labeling regime.
type EURules struct{}

// NewEURules returns the EU rule set.
func NewEURules() *EURules { return &EURules{} }

func (*EURules) Region() domain.Region { return domain.RegionEU }

// Validate runs the 1169/2011 checklist: mandatory-field presence first,
// deep structural checks only when every mandatory field is present.
func (*EURules) Validate(record domain.ProductRecord) domain.ValidationResult {
	errs := []string{}

	for _, field := range euMandatoryFields {
		if !record.Has(field) {
			errs = append(errs, "Missing mandatory field: "+field)
		}
	}

	if len(errs) == 0 {
		category, _ := record.StringField("category")

		if !containsString(euCategories, category) {
			errs = append(errs, "Invalid category. Must be one of: "+strings.Join(euCategories, ", "))
		}

		// Net quantity is metric-only in the EU.
		if nq, ok := record.MapField("net_quantity"); !ok || !hasKeys(nq, "value", "unit") {
			errs = append(errs, "net_quantity must have 'value' and 'unit' (g, kg, ml, L)")
		} else if unit, _ := nq["unit"].(string); !containsString(euMetricUnits, unit) {
			errs = append(errs, "net_quantity unit must be metric: g, kg, ml, or L")
		}

		nutrition, _ := record.MapField("nutrition_per_100g")
		for _, nutrient := range euRequiredNutrients {
			if _, ok := nutrition[nutrient]; !ok {
				errs = append(errs, "Missing required nutrient: "+nutrient)
			}
		}

		if ingredients, ok := record.ListField("ingredients"); !ok || len(ingredients) == 0 {
			errs = append(errs, "ingredients must be a non-empty list")
		}

		if dt, _ := record.StringField("date_type"); dt != "best_before" && dt != "use_by" {
			errs = append(errs, "date_type must be 'best_before' or 'use_by'")
		}

		if op, ok := record.MapField("business_operator"); !ok || !hasKeys(op, "name", "address") {
			errs = append(errs, "business_operator must have 'name' and 'address'")
		}

		switch category {
		case "meat_fresh":
			if !record.Has("country_of_rearing") || !record.Has("country_of_slaughter") {
				errs = append(errs, "meat_fresh requires 'country_of_rearing' and 'country_of_slaughter'")
			}
		case "fish_seafood":
			if !record.Has("catch_method") || !record.Has("catch_area") {
				errs = append(errs, "fish_seafood requires 'catch_method' and 'catch_area'")
			}
			if !record.Has("wild_or_farmed") {
				errs = append(errs, "fish_seafood requires 'wild_or_farmed'")
			}
		case "organic":
			if record.BoolField("is_organic") && !record.Has("organic_certification") {
				errs = append(errs, "organic products require 'organic_certification' code")
			}
		}
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Enrich computes the 1169/2011 display fields: estimated-quantity mark,
// allergen-emphasised ingredient string with E-numbers, allergen list,
// category flags, and the date line.
func (*EURules) Enrich(record domain.ProductRecord) domain.EnrichedRecord {
	enriched := record.Clone()

	if nq, ok := record.MapField("net_quantity"); ok {
		enriched["net_quantity_display"] = fmt.Sprintf("%s%s ℮",
			stringify(nq["value"]), stringify(nq["unit"]))
	}

	if ingredients, ok := record.ListField("ingredients"); ok {
		enriched["ingredients_formatted"] = formatEUIngredients(ingredients, allergenList(record))
	}

	if allergens := allergenList(record); len(allergens) > 0 {
		upper := make([]string, 0, len(allergens))
		for _, a := range allergens {
			upper = append(upper, strings.ToUpper(stringify(a)))
		}
		enriched["allergens_list"] = strings.Join(upper, ", ")
	}

	for k, v := range euCategoryData(record) {
		enriched[k] = v
	}

	switch dt, _ := record.StringField("date_type"); dt {
	case "best_before":
		if v, ok := record.StringField("best_before"); ok {
			enriched["date_display"] = "Best before: " + v
		}
	case "use_by":
		if v, ok := record.StringField("use_by"); ok {
			enriched["date_display"] = "Use by: " + v
		}
	}

	return enriched
}

// formatEUIngredients joins ingredient entries in input order. Decorations
// apply percentage first, then the E-number with an optional functional-class
// prefix, so an additive renders as "Acid (Sugar (10%), E330)". Entries that
// match an allergen keyword or declare is_allergen are wrapped in <strong>.
func formatEUIngredients(ingredients []any, allergens []any) string {
	keywords := extractAllergenKeywords(allergens)
	parts := make([]string, 0, len(ingredients))
	for _, item := range ingredients {
		entry, ok := item.(map[string]any)
		if !ok {
			name := stringify(item)
			if matchesAllergen(name, keywords) {
				name = "<strong>" + name + "</strong>"
			}
			parts = append(parts, name)
			continue
		}

		name := stringify(entry["name"])
		if p, ok := entry["percentage"]; ok {
			name = fmt.Sprintf("%s (%s%%)", name, stringify(p))
		}
		if eNumber, ok := entry["e_number"]; ok {
			if class := stringify(entry["functional_class"]); class != "" {
				name = fmt.Sprintf("%s (%s, %s)", class, name, stringify(eNumber))
			} else {
				name = fmt.Sprintf("%s (%s)", name, stringify(eNumber))
			}
		}

		declared, _ := entry["is_allergen"].(bool)
		if declared || matchesAllergen(name, keywords) {
			name = "<strong>" + name + "</strong>"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func euCategoryData(record domain.ProductRecord) map[string]any {
	out := map[string]any{}
	category, _ := record.StringField("category")

	for _, flag := range euCategoryFlags[category] {
		out[flag] = true
	}

	switch category {
	case "meat_fresh":
		if record.BoolField("previously_frozen") {
			out["show_previously_frozen"] = true
		}
	case "dairy":
		out["show_fat_percentage"] = record.Has("fat_percentage")
	case "alcoholic_beverage":
		out["show_sulphite_warning"] = record.BoolField("contains_sulphites")
	}

	if record.BoolField("is_organic") {
		out["show_eu_organic_logo"] = true
		pct, ok := numberField(record, "organic_percentage")
		if !ok {
			pct = 95
		}
		out["organic_compliant"] = pct >= 95
	}

	return out
}
