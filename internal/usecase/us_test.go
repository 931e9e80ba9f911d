package usecase

import (
	"strings"
	"sync"
	"testing"

	"github.com/labelforge/backend/internal/domain"
)

func validUSRecord() domain.ProductRecord {
	return domain.ProductRecord{
		"product_name": "Organic Almond Butter",
		"category":     "packaged_food",
		"net_quantity": map[string]any{
			"us_value":     16.0,
			"us_unit":      "oz",
			"metric_value": 454.0,
			"metric_unit":  "g",
		},
		"nutrition_facts": map[string]any{
			"serving_size":           "2 tbsp (32g)",
			"servings_per_container": 14.0,
			"calories":               190.0,
			"total_fat":              map[string]any{"value": 17.0, "dv": 22.0},
			"saturated_fat":          map[string]any{"value": 1.5, "dv": 8.0},
			"trans_fat":              0.0,
			"cholesterol":            map[string]any{"value": 0.0, "dv": 0.0},
			"sodium":                 map[string]any{"value": 0.0, "dv": 0.0},
			"total_carb":             map[string]any{"value": 6.0, "dv": 2.0},
			"fiber":                  map[string]any{"value": 3.0, "dv": 11.0},
			"total_sugars":           2.0,
			"added_sugars":           map[string]any{"value": 0.0, "dv": 0.0},
			"protein":                7.0,
		},
		"ingredients": []any{"Organic Dry Roasted Almonds", "Sea Salt"},
		"allergens":   []any{"tree nuts (almonds)"},
		"manufacturer": map[string]any{
			"name":  "American Harvest Foods LLC",
			"city":  "Portland",
			"state": "OR",
			"zip":   "97201",
		},
	}
}

func TestUSValidate(t *testing.T) {
	rules := NewUSRules()

	t.Run("valid record passes", func(t *testing.T) {
		result := rules.Validate(validUSRecord())
		if !result.Valid {
			t.Fatalf("Valid = false, errors = %v", result.Errors)
		}
	})

	t.Run("missing mandatory fields reported together without deep errors", func(t *testing.T) {
		record := validUSRecord()
		delete(record, "manufacturer")
		delete(record, "nutrition_facts")
		record["category"] = "candy" // deep error that must not surface yet

		result := rules.Validate(record)
		if result.Valid {
			t.Fatal("Valid = true, want false")
		}
		if len(result.Errors) != 2 {
			t.Errorf("Errors = %v, want exactly the two missing-field messages", result.Errors)
		}
		for _, msg := range result.Errors {
			if !strings.HasPrefix(msg, "Missing mandatory field: ") {
				t.Errorf("unexpected deep error in phase-1 result: %q", msg)
			}
		}
	})

	t.Run("net quantity requires dual units", func(t *testing.T) {
		record := validUSRecord()
		record["net_quantity"] = map[string]any{"us_value": 16.0, "us_unit": "oz"}

		result := rules.Validate(record)
		for _, key := range []string{"metric_value", "metric_unit"} {
			if !containsString(result.Errors, "net_quantity missing required key: "+key) {
				t.Errorf("Errors = %v, want missing key %s", result.Errors, key)
			}
		}
	})

	t.Run("net quantity must be an object", func(t *testing.T) {
		record := validUSRecord()
		record["net_quantity"] = "16 oz"

		result := rules.Validate(record)
		if !containsString(result.Errors, "net_quantity must be a dictionary") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("supplement requires supplement facts instead of nutrition panel", func(t *testing.T) {
		record := validUSRecord()
		record["category"] = "dietary_supplement"
		record["nutrition_facts"] = map[string]any{} // ignored for supplements

		result := rules.Validate(record)
		if !containsString(result.Errors, "dietary_supplement category requires 'supplement_facts' field") {
			t.Errorf("Errors = %v", result.Errors)
		}
		for _, msg := range result.Errors {
			if strings.HasPrefix(msg, "Missing required nutrient:") {
				t.Errorf("nutrient check ran for supplement: %q", msg)
			}
		}

		record["supplement_facts"] = map[string]any{"serving_size": "1 capsule"}
		if result := rules.Validate(record); !result.Valid {
			t.Errorf("supplement record invalid: %v", result.Errors)
		}
	})

	t.Run("meat requires USDA fields", func(t *testing.T) {
		record := validUSRecord()
		record["category"] = "meat_poultry_egg"

		result := rules.Validate(record)
		if !containsString(result.Errors, "meat_poultry_egg requires 'usda_establishment_number'") {
			t.Errorf("Errors = %v", result.Errors)
		}
		if !containsString(result.Errors, "meat_poultry_egg requires 'safe_handling_instructions'") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("manufacturer locality keys", func(t *testing.T) {
		record := validUSRecord()
		record["manufacturer"] = map[string]any{"name": "X", "city": "Portland"}

		result := rules.Validate(record)
		for _, key := range []string{"state", "zip"} {
			if !containsString(result.Errors, "manufacturer missing required key: "+key) {
				t.Errorf("Errors = %v, want missing key %s", result.Errors, key)
			}
		}
	})
}

func TestUSEnrich(t *testing.T) {
	rules := NewUSRules()

	t.Run("net quantity combines US and metric units", func(t *testing.T) {
		enriched := rules.Enrich(validUSRecord())
		if got := enriched["net_quantity_display"]; got != "16 oz (454g)" {
			t.Errorf("net_quantity_display = %v, want 16 oz (454g)", got)
		}
	})

	t.Run("allergenic ingredient bolded by keyword substring", func(t *testing.T) {
		enriched := rules.Enrich(validUSRecord())
		got, _ := enriched["ingredients_formatted"].(string)
		// "almonds" from "tree nuts (almonds)" matches as a substring
		if !strings.Contains(got, "<strong>Organic Dry Roasted Almonds</strong>") {
			t.Errorf("ingredients_formatted = %q, want almonds bolded", got)
		}
		if strings.Contains(got, "<strong>Sea Salt</strong>") {
			t.Errorf("ingredients_formatted = %q, Sea Salt must not be bolded", got)
		}
	})

	t.Run("substring matching is deliberately permissive", func(t *testing.T) {
		record := validUSRecord()
		record["allergens"] = []any{"fish"}
		record["ingredients"] = []any{"Swordfish Chips", "Potato Starch"}

		enriched := rules.Enrich(record)
		got, _ := enriched["ingredients_formatted"].(string)
		// "fish" matches inside "Swordfish"; the false positive is the
		// documented behavior, not a bug to fix.
		if !strings.Contains(got, "<strong>Swordfish Chips</strong>") {
			t.Errorf("ingredients_formatted = %q, want Swordfish Chips bolded", got)
		}
		if strings.Contains(got, "<strong>Potato Starch</strong>") {
			t.Errorf("ingredients_formatted = %q, Potato Starch must not be bolded", got)
		}
	})

	t.Run("explicitly declared allergen is bolded without keyword match", func(t *testing.T) {
		record := validUSRecord()
		record["allergens"] = []any{}
		record["ingredients"] = []any{
			map[string]any{"name": "Whey Protein", "is_allergen": true},
		}

		enriched := rules.Enrich(record)
		if got := enriched["ingredients_formatted"]; got != "<strong>Whey Protein</strong>" {
			t.Errorf("ingredients_formatted = %v", got)
		}
	})

	t.Run("FALCPA contains statement", func(t *testing.T) {
		record := validUSRecord()
		record["allergens"] = []any{"tree nuts (almonds)", "soy"}

		enriched := rules.Enrich(record)
		if got := enriched["allergen_statement"]; got != "Contains: Tree Nuts (Almonds), Soy" {
			t.Errorf("allergen_statement = %v", got)
		}
	})

	t.Run("manufacturer address line", func(t *testing.T) {
		enriched := rules.Enrich(validUSRecord())
		if got := enriched["manufacturer_address"]; got != "Portland, OR 97201" {
			t.Errorf("manufacturer_address = %v", got)
		}
	})

	t.Run("organic seal text by level", func(t *testing.T) {
		tests := []struct {
			level string
			want  string
		}{
			{"100_percent", "100% Organic"},
			{"95_percent", "Organic"},
			{"70_percent", "Made with Organic Ingredients"},
			{"", "Organic"}, // default level when unset
		}
		for _, tt := range tests {
			record := validUSRecord()
			record["is_organic"] = true
			if tt.level != "" {
				record["organic_level"] = tt.level
			}
			enriched := rules.Enrich(record)
			if got := enriched["organic_seal_text"]; got != tt.want {
				t.Errorf("organic_seal_text(%q) = %v, want %v", tt.level, got, tt.want)
			}
			if enriched["show_usda_organic_seal"] != true {
				t.Error("show_usda_organic_seal not set")
			}
		}
	})

	t.Run("nutrition rows keep FDA panel order with daily values", func(t *testing.T) {
		enriched := rules.Enrich(validUSRecord())
		rows, ok := enriched["nutrition_rows"].([]map[string]any)
		if !ok || len(rows) == 0 {
			t.Fatalf("nutrition_rows = %v", enriched["nutrition_rows"])
		}
		if rows[0]["name"] != "total_fat" || rows[0]["amount"] != "17" || rows[0]["dv"] != "22" {
			t.Errorf("first row = %v", rows[0])
		}
		// bare numbers carry no dv
		for _, row := range rows {
			if row["name"] == "trans_fat" {
				if _, hasDV := row["dv"]; hasDV {
					t.Errorf("trans_fat row has dv: %v", row)
				}
			}
		}
	})

	t.Run("category flags", func(t *testing.T) {
		record := validUSRecord()
		record["category"] = "beverage_alcoholic"
		record["contains_sulfites"] = true

		enriched := rules.Enrich(record)
		if enriched["show_abv"] != true || enriched["show_surgeon_general_warning"] != true {
			t.Error("alcoholic beverage flags not set")
		}
		if enriched["show_sulfite_warning"] != true {
			t.Error("show_sulfite_warning not set")
		}
	})
}

// One rule-set instance serves all requests, so Enrich must be safe under
// parallel calls. Run with -race.
func TestUSEnrichConcurrent(t *testing.T) {
	rules := NewUSRules()
	record := validUSRecord()
	record["allergens"] = []any{"tree nuts (almonds)", "soy", "sesame"}

	want := rules.Enrich(record)["allergen_statement"]

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				enriched := rules.Enrich(record)
				if got := enriched["allergen_statement"]; got != want {
					t.Errorf("allergen_statement = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
