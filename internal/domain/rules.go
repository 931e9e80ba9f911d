package domain

// RegionRules describes one regulatory regime: how to validate a raw product
// record and how to derive the display fields its label template consumes.
// Implementations are stateless and safe for concurrent use.
type RegionRules interface {
	// Region returns the regime this rule set implements.
	Region() Region

	// Validate checks the record against the regime's field checklist.
	// It never returns an error; problems are reported as messages in the
	// result, in check order.
	Validate(record ProductRecord) ValidationResult

	// Enrich computes the regime's derived display fields. The record is
	// assumed to have passed Validate; behavior on invalid input is
	// best-effort. The input record is never mutated.
	Enrich(record ProductRecord) EnrichedRecord
}

// LabelRenderer renders an enriched record through a named template and
// returns the resulting HTML. Template sourcing and the engine itself live
// behind this interface.
type LabelRenderer interface {
	Render(templateID string, data EnrichedRecord) (string, error)
}
