// Package render implements the label template collaborator: a plain
// mapping-substitution engine over per-region template files.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/labelforge/backend/internal/domain"
)

// Default templates ship with the binary; a template directory in config can
// override any of them by file name.
//
//go:embed templates/*.html
var defaultTemplates embed.FS

// Renderer renders enriched records through named templates. Enriched fields
// such as ingredients_formatted carry inline <strong> emphasis that must pass
// through verbatim, so templates are text/template rather than html/template;
// all record content is producer-controlled label data, not untrusted input.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded default templates, one per region.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	entries, err := defaultTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}
	for _, entry := range entries {
		src, err := defaultTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", entry.Name(), err)
		}
		if err := r.add(entry.Name(), string(src)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewFromDir parses the embedded defaults, then overrides them with any
// .html files found in dir. Missing dir entries fall back to the defaults.
func NewFromDir(dir string) (*Renderer, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("scanning template dir %s: %w", dir, err)
	}
	for _, path := range matches {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		if err := r.add(filepath.Base(path), string(src)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) add(fileName, src string) error {
	id := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	tmpl, err := template.New(id).Parse(src)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", fileName, err)
	}
	r.templates[id] = tmpl
	return nil
}

// Render executes the named template against the enriched record.
func (r *Renderer) Render(templateID string, data domain.EnrichedRecord) (string, error) {
	tmpl, ok := r.templates[templateID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, templateID)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		return "", fmt.Errorf("executing template %s: %w", templateID, err)
	}
	return buf.String(), nil
}

// TemplateIDs returns the registered template names, for startup logging.
func (r *Renderer) TemplateIDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	return ids
}
