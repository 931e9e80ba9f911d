// Package dataset ships a small embedded catalogue of sample product records
// per region, used by tests and the samples API.
package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/labelforge/backend/internal/domain"
)

//go:embed samples/india/*.json samples/us/*.json samples/eu/*.json
var sampleFS embed.FS

// Names returns the sample names available for a region, sorted.
func Names(region domain.Region) ([]string, error) {
	entries, err := sampleFS.ReadDir(path.Join("samples", string(region)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, region)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads one sample record by region and name.
func Load(region domain.Region, name string) (domain.ProductRecord, error) {
	raw, err := sampleFS.ReadFile(path.Join("samples", string(region), name+".json"))
	if err != nil {
		return nil, fmt.Errorf("sample %s/%s not found", region, name)
	}
	var record domain.ProductRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding sample %s/%s: %w", region, name, err)
	}
	return record, nil
}

// LoadAll returns every sample record for a region keyed by name.
func LoadAll(region domain.Region) (map[string]domain.ProductRecord, error) {
	names, err := Names(region)
	if err != nil {
		return nil, err
	}
	records := make(map[string]domain.ProductRecord, len(names))
	for _, name := range names {
		record, err := Load(region, name)
		if err != nil {
			return nil, err
		}
		records[name] = record
	}
	return records, nil
}
