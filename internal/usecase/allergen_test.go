package usecase

import "testing"

func TestExtractAllergenKeywords(t *testing.T) {
	tests := []struct {
		name      string
		allergens []any
		want      []string
		absent    []string
	}{
		{
			name:      "plain label lower-cased",
			allergens: []any{"Milk"},
			want:      []string{"milk"},
		},
		{
			name:      "parenthesized label splits into base and qualifier",
			allergens: []any{"tree nuts (almonds)"},
			want:      []string{"tree nuts", "almonds", "almond"},
			absent:    []string{"tree nuts (almonds)"},
		},
		{
			name:      "multiple labels accumulate",
			allergens: []any{"fish", "soy", "gluten (oats)"},
			want:      []string{"fish", "soy", "gluten", "oats"},
		},
		{
			name:      "non-string entries ignored",
			allergens: []any{42.0, "sesame"},
			want:      []string{"sesame"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords := extractAllergenKeywords(tt.allergens)
			for _, kw := range tt.want {
				if _, ok := keywords[kw]; !ok {
					t.Errorf("keywords = %v, want %q present", keywords, kw)
				}
			}
			for _, kw := range tt.absent {
				if _, ok := keywords[kw]; ok {
					t.Errorf("keywords = %v, want %q absent", keywords, kw)
				}
			}
		})
	}
}

func TestMatchesAllergen(t *testing.T) {
	keywords := extractAllergenKeywords([]any{"fish", "tree nuts (almonds)"})

	tests := []struct {
		ingredient string
		want       bool
	}{
		{"Almond Butter", true},   // singular form of the "almonds" qualifier
		{"Almonds", true},         // direct qualifier match
		{"Swordfish Chips", true}, // permissive substring: "fish" inside "Swordfish"
		{"Sea Salt", false},
		{"Cashew Butter", false},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			if got := matchesAllergen(tt.ingredient, keywords); got != tt.want {
				t.Errorf("matchesAllergen(%q) = %v, want %v", tt.ingredient, got, tt.want)
			}
		})
	}
}
