package usecase

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/labelforge/backend/internal/domain"
)

// stubRenderer records the last Render call so tests can assert whether and
// with what the pipeline reached the rendering stage.
type stubRenderer struct {
	calls      int
	templateID string
	data       domain.EnrichedRecord
	html       string
	err        error
}

func (r *stubRenderer) Render(templateID string, data domain.EnrichedRecord) (string, error) {
	r.calls++
	r.templateID = templateID
	r.data = data
	return r.html, r.err
}

func TestLabelServiceValidate(t *testing.T) {
	svc := NewLabelService(&stubRenderer{}, zerolog.Nop())

	t.Run("unknown region", func(t *testing.T) {
		_, err := svc.Validate(domain.Region("mars"), validIndiaRecord())
		if !errors.Is(err, domain.ErrUnknownRegion) {
			t.Errorf("err = %v, want ErrUnknownRegion", err)
		}
	})

	t.Run("empty record", func(t *testing.T) {
		_, err := svc.Validate(domain.RegionIndia, domain.ProductRecord{})
		if !errors.Is(err, domain.ErrEmptyRecord) {
			t.Errorf("err = %v, want ErrEmptyRecord", err)
		}
	})

	t.Run("delegates to the region rules", func(t *testing.T) {
		record := validIndiaRecord()
		delete(record, "mrp")

		result, err := svc.Validate(domain.RegionIndia, record)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Valid {
			t.Fatal("Valid = true, want false")
		}
		if !containsString(result.Errors, "Missing mandatory field: mrp") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})
}

func TestLabelServiceGenerate(t *testing.T) {
	t.Run("renders the enriched record", func(t *testing.T) {
		renderer := &stubRenderer{html: "<html>label</html>"}
		svc := NewLabelService(renderer, zerolog.Nop())

		html, err := svc.Generate(domain.RegionIndia, validIndiaRecord())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if html != "<html>label</html>" {
			t.Errorf("html = %q", html)
		}
		if renderer.calls != 1 || renderer.templateID != "india" {
			t.Errorf("renderer called %d times with template %q", renderer.calls, renderer.templateID)
		}
		if _, ok := renderer.data["fssai_license_formatted"]; !ok {
			t.Error("renderer received unenriched data")
		}
	})

	t.Run("invalid record never reaches the renderer", func(t *testing.T) {
		renderer := &stubRenderer{}
		svc := NewLabelService(renderer, zerolog.Nop())

		record := validIndiaRecord()
		delete(record, "fssai_license")
		delete(record, "mrp")

		_, err := svc.Generate(domain.RegionIndia, record)
		verr, ok := domain.AsValidationError(err)
		if !ok {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if verr.Region != domain.RegionIndia {
			t.Errorf("Region = %v", verr.Region)
		}

		want, _ := svc.Validate(domain.RegionIndia, record)
		if !reflect.DeepEqual(verr.Errors, want.Errors) {
			t.Errorf("Errors = %v, want %v", verr.Errors, want.Errors)
		}
		if renderer.calls != 0 {
			t.Errorf("renderer called %d times for invalid record", renderer.calls)
		}
	})

	t.Run("render failure wraps the sentinel", func(t *testing.T) {
		renderer := &stubRenderer{err: errors.New("boom")}
		svc := NewLabelService(renderer, zerolog.Nop())

		_, err := svc.Generate(domain.RegionUS, validUSRecord())
		if !errors.Is(err, domain.ErrRenderFailure) {
			t.Errorf("err = %v, want ErrRenderFailure", err)
		}
	})

	t.Run("unknown region", func(t *testing.T) {
		renderer := &stubRenderer{}
		svc := NewLabelService(renderer, zerolog.Nop())

		_, err := svc.Generate(domain.Region("uk"), validEURecord())
		if !errors.Is(err, domain.ErrUnknownRegion) {
			t.Errorf("err = %v, want ErrUnknownRegion", err)
		}
		if renderer.calls != 0 {
			t.Error("renderer called for unknown region")
		}
	})

	t.Run("empty record", func(t *testing.T) {
		svc := NewLabelService(&stubRenderer{}, zerolog.Nop())

		_, err := svc.Generate(domain.RegionEU, nil)
		if !errors.Is(err, domain.ErrEmptyRecord) {
			t.Errorf("err = %v, want ErrEmptyRecord", err)
		}
	})
}

// renderFunc adapts a function to domain.LabelRenderer for stateless stubs.
type renderFunc func(string, domain.EnrichedRecord) (string, error)

func (f renderFunc) Render(templateID string, data domain.EnrichedRecord) (string, error) {
	return f(templateID, data)
}

// A single service instance serves every request, so Generate must be safe
// under parallel calls across regions. Run with -race.
func TestLabelServiceGenerateConcurrent(t *testing.T) {
	svc := NewLabelService(renderFunc(func(templateID string, _ domain.EnrichedRecord) (string, error) {
		return templateID, nil
	}), zerolog.Nop())

	records := map[domain.Region]domain.ProductRecord{
		domain.RegionIndia: validIndiaRecord(),
		domain.RegionUS:    validUSRecord(),
		domain.RegionEU:    validEURecord(),
	}

	var wg sync.WaitGroup
	for region, record := range records {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(region domain.Region, record domain.ProductRecord) {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					html, err := svc.Generate(region, record)
					if err != nil {
						t.Errorf("Generate(%s): %v", region, err)
						return
					}
					if html != string(region) {
						t.Errorf("Generate(%s) rendered template %q", region, html)
						return
					}
				}
			}(region, record)
		}
	}
	wg.Wait()
}
