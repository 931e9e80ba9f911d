package usecase

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/labelforge/backend/internal/domain"
)

// LabelService orchestrates the validate -> enrich -> render pipeline for
// every supported region. It holds no mutable state, so a single instance
// serves concurrent requests without locking.
type LabelService struct {
	rules    map[domain.Region]domain.RegionRules
	renderer domain.LabelRenderer
	logger   zerolog.Logger
}

// NewLabelService wires the three regional rule sets to the injected
// template renderer.
func NewLabelService(renderer domain.LabelRenderer, logger zerolog.Logger) *LabelService {
	return &LabelService{
		rules: map[domain.Region]domain.RegionRules{
			domain.RegionIndia: NewIndiaRules(),
			domain.RegionUS:    NewUSRules(),
			domain.RegionEU:    NewEURules(),
		},
		renderer: renderer,
		logger:   logger,
	}
}

// Validate checks a record against the named region's checklist without
// generating anything.
func (s *LabelService) Validate(region domain.Region, record domain.ProductRecord) (domain.ValidationResult, error) {
	rules, ok := s.rules[region]
	if !ok {
		return domain.ValidationResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, region)
	}
	if len(record) == 0 {
		return domain.ValidationResult{}, domain.ErrEmptyRecord
	}
	return rules.Validate(record), nil
}

// Generate validates, enriches, and renders a record into label HTML.
// An invalid record fails with a *domain.ValidationError carrying the full
// message list; enrichment and rendering are never attempted for it.
func (s *LabelService) Generate(region domain.Region, record domain.ProductRecord) (string, error) {
	rules, ok := s.rules[region]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownRegion, region)
	}
	if len(record) == 0 {
		return "", domain.ErrEmptyRecord
	}

	result := rules.Validate(record)
	if !result.Valid {
		return "", domain.NewValidationError(region, result.Errors)
	}

	enriched := rules.Enrich(record)

	html, err := s.renderer.Render(string(region), enriched)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("region", string(region)).
			Str("product_name", stringify(record["product_name"])).
			Msg("label rendering failed")
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailure, err)
	}

	return html, nil
}
