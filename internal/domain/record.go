package domain

// Region identifies a regulatory regime supported by the service.
type Region string

const (
	RegionIndia Region = "india" // FSSAI
	RegionUS    Region = "us"    // FDA/USDA
	RegionEU    Region = "eu"    // Regulation 1169/2011
)

// Regions lists all supported regions in display order.
var Regions = []Region{RegionIndia, RegionUS, RegionEU}

// ParseRegion maps a route/CLI token to a Region.
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionIndia, RegionUS, RegionEU:
		return Region(s), true
	}
	return "", false
}

// ProductRecord is the semi-structured product payload submitted for label
// generation. Keys and shapes are region-dependent, so the record stays
// untyped here; region rule sets decide what is mandatory and what shape
// nested values must have.
type ProductRecord map[string]any

// EnrichedRecord is a ProductRecord plus computed display fields. Enrichment
// always copies the input record; the original is never mutated.
type EnrichedRecord map[string]any

// ValidationResult holds the outcome of validating a ProductRecord.
// Errors preserves the order in which checks ran.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Has reports whether key is present in the record, regardless of its value.
func (r ProductRecord) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// StringField returns the value under key if it is a string.
func (r ProductRecord) StringField(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// MapField returns the value under key if it is a JSON object.
func (r ProductRecord) MapField(key string) (map[string]any, bool) {
	m, ok := r[key].(map[string]any)
	return m, ok
}

// ListField returns the value under key if it is a JSON array.
func (r ProductRecord) ListField(key string) ([]any, bool) {
	l, ok := r[key].([]any)
	return l, ok
}

// BoolField returns the value under key coerced to bool; absent or
// non-boolean values read as false.
func (r ProductRecord) BoolField(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Clone returns a shallow copy of the record as an EnrichedRecord, ready to
// receive computed fields. Nested maps and slices are shared with the input,
// which is safe because enrichment only adds top-level keys.
func (r ProductRecord) Clone() EnrichedRecord {
	out := make(EnrichedRecord, len(r)+8)
	for k, v := range r {
		out[k] = v
	}
	return out
}
