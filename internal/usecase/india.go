package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/labelforge/backend/internal/domain"
)

// Rule tables for the FSSAI regime. Immutable after init.
var (
	indiaMandatoryFields = []string{
		"product_name", "category", "veg_status", "net_quantity",
		"ingredients", "nutrition_per_100g", "fssai_license",
		"manufacturer", "batch_number", "mfg_date", "mrp",
	}

	indiaCategories = []string{
		"packaged_processed_food", "dairy", "beverage_carbonated",
		"beverage_juice", "meat_fish_egg", "fresh_produce",
		"fortified", "organic", "frozen", "ready_to_eat", "imported",
	}

	indiaRequiredNutrients = []string{"energy_kcal", "protein", "carbohydrates", "fat"}

	// indiaCategoryFlags maps a category to the display flags the label
	// template always shows for it. Data-conditional flags are handled in
	// indiaCategoryData.
	indiaCategoryFlags = map[string][]string{
		"dairy":          {"show_fat_percentage", "show_milk_source"},
		"beverage_juice": {"show_fruit_percentage"},
		"meat_fish_egg":  {"show_use_by_date", "show_storage_temp"},
		"frozen":         {"show_storage_temp", "show_thawing_instructions"},
	}
)

// IndiaRules implements the FSSAI labeling regime.
type IndiaRules struct{}

// NewIndiaRules returns the FSSAI rule set.
func NewIndiaRules() *IndiaRules { return &IndiaRules{} }

func (*IndiaRules) Region() domain.Region { return domain.RegionIndia }

// Validate runs the FSSAI checklist in two phases: mandatory-field presence
// first, then structural checks only when every mandatory field is present.
// A record missing a mandatory field therefore never reports deep problems in
// the same pass; callers re-validate after fixing the missing fields.
func (*IndiaRules) Validate(record domain.ProductRecord) domain.ValidationResult {
	errs := []string{}

	for _, field := range indiaMandatoryFields {
		if !record.Has(field) {
			errs = append(errs, "Missing mandatory field: "+field)
		}
	}

	if len(errs) == 0 {
		if fssai := stringify(record["fssai_license"]); !isDigits(fssai) || len(fssai) != 14 {
			errs = append(errs, "FSSAI license must be exactly 14 digits")
		}

		if vs, _ := record.StringField("veg_status"); vs != "veg" && vs != "non-veg" {
			errs = append(errs, "veg_status must be 'veg' or 'non-veg'")
		}

		if category, _ := record.StringField("category"); !containsString(indiaCategories, category) {
			errs = append(errs, "Invalid category. Must be one of: "+strings.Join(indiaCategories, ", "))
		}

		if nq, ok := record.MapField("net_quantity"); !ok || !hasKeys(nq, "value", "unit") {
			errs = append(errs, "net_quantity must have 'value' and 'unit' (g, kg, ml, L)")
		}

		nutrition, _ := record.MapField("nutrition_per_100g")
		for _, nutrient := range indiaRequiredNutrients {
			if _, ok := nutrition[nutrient]; !ok {
				errs = append(errs, "Missing required nutrient: "+nutrient)
			}
		}

		if ingredients, ok := record.ListField("ingredients"); !ok || len(ingredients) == 0 {
			errs = append(errs, "ingredients must be a non-empty list")
		}

		if mfr, ok := record.MapField("manufacturer"); !ok || !hasKeys(mfr, "name", "address") {
			errs = append(errs, "manufacturer must have 'name' and 'address'")
		}
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Enrich computes the FSSAI display fields: best-before date, formatted
// manufacture date, ingredient and allergen strings, category flags, and the
// grouped license number.
func (*IndiaRules) Enrich(record domain.ProductRecord) domain.EnrichedRecord {
	enriched := record.Clone()

	// Best-before arithmetic. A "month" is exactly 30 days; calendar-month
	// arithmetic would shift dates already printed on labels.
	mfgRaw, _ := record.StringField("mfg_date")
	if mfg, err := time.Parse("2006-01-02", mfgRaw); err == nil {
		if months, ok := numberField(record, "best_before_months"); ok {
			enriched["best_before_date"] = mfg.AddDate(0, 0, int(months*30)).Format("2006-01-02")
		} else if days, ok := numberField(record, "best_before_days"); ok {
			enriched["best_before_date"] = mfg.AddDate(0, 0, int(days)).Format("2006-01-02")
		}
		enriched["mfg_date_display"] = mfg.Format("Jan 2006")
	}

	if ingredients, ok := record.ListField("ingredients"); ok {
		enriched["ingredients_formatted"] = formatIndiaIngredients(ingredients)
	}

	if allergens := allergenList(record); len(allergens) > 0 {
		upper := make([]string, 0, len(allergens))
		for _, a := range allergens {
			upper = append(upper, strings.ToUpper(stringify(a)))
		}
		enriched["allergens_formatted"] = strings.Join(upper, ", ")
	}

	for k, v := range indiaCategoryData(record) {
		enriched[k] = v
	}

	// 14-digit license re-grouped 2-4-4-4 for display.
	if fssai := stringify(record["fssai_license"]); len(fssai) == 14 {
		enriched["fssai_license_formatted"] = fmt.Sprintf("%s %s %s %s",
			fssai[:2], fssai[2:6], fssai[6:10], fssai[10:])
	}

	return enriched
}

// formatIndiaIngredients joins ingredient entries in input order, decorating
// each with its percentage, INS number, and functional class prefix.
func formatIndiaIngredients(ingredients []any) string {
	parts := make([]string, 0, len(ingredients))
	for _, item := range ingredients {
		entry, ok := item.(map[string]any)
		if !ok {
			parts = append(parts, stringify(item))
			continue
		}
		name := stringify(entry["name"])
		if p, ok := entry["percentage"]; ok {
			name = fmt.Sprintf("%s (%s%%)", name, stringify(p))
		}
		if ins, ok := entry["ins_number"]; ok {
			name = fmt.Sprintf("%s (INS %s)", name, stringify(ins))
		}
		if class, ok := entry["class_name"]; ok {
			name = fmt.Sprintf("%s (%s)", stringify(class), name)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func indiaCategoryData(record domain.ProductRecord) map[string]any {
	out := map[string]any{}
	category, _ := record.StringField("category")

	for _, flag := range indiaCategoryFlags[category] {
		out[flag] = true
	}

	if category == "beverage_carbonated" || category == "beverage_juice" {
		out["show_caffeine_warning"] = record.BoolField("contains_caffeine")
	}

	if record.BoolField("is_fortified") {
		out["show_fortified_logo"] = true
		out["fortification_details"] = stringify(record["fortification_details"])
	}

	if record.BoolField("is_organic") {
		out["show_organic_logo"] = true
		out["organic_certification"] = stringify(record["organic_certification"])
	}

	if record.BoolField("is_imported") {
		out["show_importer_details"] = true
		out["show_country_of_origin"] = true
	}

	return out
}
