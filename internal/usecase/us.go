package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/labelforge/backend/internal/domain"
)

// Rule tables for the FDA/USDA regime. Immutable after init.
var (
	usMandatoryFields = []string{
		"product_name", "category", "net_quantity", "ingredients",
		"nutrition_facts", "manufacturer",
	}

	usCategories = []string{
		"packaged_food", "meat_poultry_egg", "dairy", "beverage_alcoholic",
		"beverage_nonalcoholic", "dietary_supplement", "infant_formula",
		"organic", "frozen_food", "fresh_produce",
	}

	// FALCPA major allergens, sesame included since 2023.
	usMajorAllergens = []string{
		"milk", "eggs", "fish", "shellfish", "tree nuts",
		"peanuts", "wheat", "soy", "sesame",
	}

	usNetQuantityKeys = []string{"us_value", "us_unit", "metric_value", "metric_unit"}

	usRequiredNutrients = []string{
		"serving_size", "servings_per_container", "calories",
		"total_fat", "saturated_fat", "trans_fat", "cholesterol",
		"sodium", "total_carb", "fiber", "total_sugars",
		"added_sugars", "protein",
	}

	usManufacturerKeys = []string{"name", "city", "state", "zip"}

	usCategoryFlags = map[string][]string{
		"meat_poultry_egg":  {"show_usda_inspection", "show_safe_handling", "is_usda_regulated"},
		"dairy":             {"show_pasteurization"},
		"beverage_alcoholic": {"show_abv", "show_surgeon_general_warning"},
		"dietary_supplement": {"is_supplement", "show_fda_disclaimer"},
		"infant_formula":    {"is_infant_formula", "show_preparation_instructions"},
		"frozen_food":       {"show_cooking_instructions", "show_storage_temp"},
	}

	// usNutrientPanelOrder is the FDA panel order for nutrients below the
	// calories line; rows absent from the record are skipped.
	usNutrientPanelOrder = []string{
		"total_fat", "saturated_fat", "trans_fat", "cholesterol",
		"sodium", "total_carb", "fiber", "total_sugars",
		"added_sugars", "protein", "vitamin_d", "calcium",
		"iron", "potassium",
	}

	usOrganicSealText = map[string]string{
		"100_percent": "100% Organic",
		"95_percent":  "Organic",
		"70_percent":  "Made with Organic Ingredients",
	}
)

// USRules implements the FDA/USDA labeling regime.
type USRules struct{}

// NewUSRules returns the FDA/USDA rule set.
func NewUSRules() *USRules { return &USRules{} }

func (*USRules) Region() domain.Region { return domain.RegionUS }

// Validate runs the FDA/USDA checklist: mandatory-field presence first, deep
// structural checks only when every mandatory field is present.
func (*USRules) Validate(record domain.ProductRecord) domain.ValidationResult {
	errs := []string{}

	for _, field := range usMandatoryFields {
		if !record.Has(field) {
			errs = append(errs, "Missing mandatory field: "+field)
		}
	}

	if len(errs) == 0 {
		category, _ := record.StringField("category")

		if !containsString(usCategories, category) {
			errs = append(errs, "Invalid category. Must be one of: "+strings.Join(usCategories, ", "))
		}

		// Net quantity must carry both US customary and metric units.
		if nq, ok := record.MapField("net_quantity"); !ok {
			errs = append(errs, "net_quantity must be a dictionary")
		} else {
			for _, key := range usNetQuantityKeys {
				if _, ok := nq[key]; !ok {
					errs = append(errs, "net_quantity missing required key: "+key)
				}
			}
		}

		// Supplements carry a Supplement Facts panel instead of Nutrition Facts.
		if category == "dietary_supplement" {
			if !record.Has("supplement_facts") {
				errs = append(errs, "dietary_supplement category requires 'supplement_facts' field")
			}
		} else {
			nutrition, _ := record.MapField("nutrition_facts")
			for _, nutrient := range usRequiredNutrients {
				if _, ok := nutrition[nutrient]; !ok {
					errs = append(errs, "Missing required nutrient: "+nutrient)
				}
			}
		}

		if ingredients, ok := record.ListField("ingredients"); !ok || len(ingredients) == 0 {
			errs = append(errs, "ingredients must be a non-empty list")
		}

		manufacturer, _ := record.MapField("manufacturer")
		for _, key := range usManufacturerKeys {
			if _, ok := manufacturer[key]; !ok {
				errs = append(errs, "manufacturer missing required key: "+key)
			}
		}

		if category == "meat_poultry_egg" {
			if !record.Has("usda_establishment_number") {
				errs = append(errs, "meat_poultry_egg requires 'usda_establishment_number'")
			}
			if !record.Has("safe_handling_instructions") {
				errs = append(errs, "meat_poultry_egg requires 'safe_handling_instructions'")
			}
		}
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Enrich computes the FDA/USDA display fields: dual-unit net quantity,
// allergen-highlighted ingredient string, FALCPA Contains statement,
// category flags, manufacturer address line, and organic seal text.
func (*USRules) Enrich(record domain.ProductRecord) domain.EnrichedRecord {
	enriched := record.Clone()

	if nq, ok := record.MapField("net_quantity"); ok {
		enriched["net_quantity_display"] = fmt.Sprintf("%s %s (%s%s)",
			stringify(nq["us_value"]), stringify(nq["us_unit"]),
			stringify(nq["metric_value"]), stringify(nq["metric_unit"]))
	}

	if ingredients, ok := record.ListField("ingredients"); ok {
		enriched["ingredients_formatted"] = formatUSIngredients(ingredients, allergenList(record))
	}

	if allergens := allergenList(record); len(allergens) > 0 {
		// cases.Caser carries transform buffer state, so each call gets its
		// own; sharing one across goroutines is a data race.
		caser := cases.Title(language.AmericanEnglish)
		titled := make([]string, 0, len(allergens))
		for _, a := range allergens {
			titled = append(titled, caser.String(stringify(a)))
		}
		enriched["allergen_statement"] = "Contains: " + strings.Join(titled, ", ")
	}

	if nf, ok := record.MapField("nutrition_facts"); ok {
		enriched["nutrition_rows"] = usNutritionRows(nf)
	}

	for k, v := range usCategoryData(record) {
		enriched[k] = v
	}

	if mfr, ok := record.MapField("manufacturer"); ok {
		enriched["manufacturer_address"] = fmt.Sprintf("%s, %s %s",
			stringify(mfr["city"]), stringify(mfr["state"]), stringify(mfr["zip"]))
	}

	if record.BoolField("is_organic") {
		level, ok := record.StringField("organic_level")
		if !ok {
			level = "95_percent"
		}
		text, ok := usOrganicSealText[level]
		if !ok {
			text = "Organic"
		}
		enriched["organic_seal_text"] = text
	}

	return enriched
}

// formatUSIngredients joins ingredient entries in input order, wrapping any
// entry that matches an allergen keyword (or declares itself an allergen) in
// <strong> markup.
func formatUSIngredients(ingredients []any, allergens []any) string {
	keywords := extractAllergenKeywords(allergens)
	parts := make([]string, 0, len(ingredients))
	for _, item := range ingredients {
		var name string
		declared := false
		if entry, ok := item.(map[string]any); ok {
			name = stringify(entry["name"])
			declared, _ = entry["is_allergen"].(bool)
		} else {
			name = stringify(item)
		}
		if declared || matchesAllergen(name, keywords) {
			parts = append(parts, "<strong>"+name+"</strong>")
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// usNutritionRows flattens the Nutrition Facts map into display rows in FDA
// panel order. A nutrient stored as {"value": 17, "dv": 22} becomes a row
// with both the amount and the % daily value; a bare number has no DV.
func usNutritionRows(nutritionFacts map[string]any) []map[string]any {
	rows := make([]map[string]any, 0, len(usNutrientPanelOrder))
	for _, name := range usNutrientPanelOrder {
		raw, ok := nutritionFacts[name]
		if !ok {
			continue
		}
		row := map[string]any{"name": name}
		if entry, ok := raw.(map[string]any); ok {
			row["amount"] = stringify(entry["value"])
			if dv, ok := entry["dv"]; ok {
				row["dv"] = stringify(dv)
			}
		} else {
			row["amount"] = stringify(raw)
		}
		rows = append(rows, row)
	}
	return rows
}

func usCategoryData(record domain.ProductRecord) map[string]any {
	out := map[string]any{}
	category, _ := record.StringField("category")

	for _, flag := range usCategoryFlags[category] {
		out[flag] = true
	}

	switch category {
	case "dairy":
		if record.Has("milk_fat_percentage") {
			out["show_fat_percentage"] = true
		}
	case "beverage_alcoholic":
		out["show_sulfite_warning"] = record.BoolField("contains_sulfites")
	}

	if record.BoolField("is_organic") {
		out["show_usda_organic_seal"] = true
	}

	if record.BoolField("is_imported") {
		out["show_country_of_origin"] = true
	}

	return out
}
