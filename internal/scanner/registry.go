package scannerService

import (
	"strings"

	scannermodels "github.com/RobsonDevCode/firmscan/internal/scanner/models"
)

// DependencyRegistry accumulates dependency records across discovery phases.
// Dedup key is the lower cased trimmed name, the first phase to report a
// name wins provenance and later adds for the same key are dropped.
type DependencyRegistry struct {
	records []scannermodels.DependencyRecord
	seen    map[string]struct{}
}

func NewDependencyRegistry() *DependencyRegistry {
	return &DependencyRegistry{
		seen: make(map[string]struct{}),
	}
}

func (r *DependencyRegistry) Add(records ...scannermodels.DependencyRecord) {
	for _, record := range records {
		key := normalizeKey(record.Name)
		if key == "" {
			continue
		}

		if _, exists := r.seen[key]; exists {
			continue
		}

		r.seen[key] = struct{}{}
		r.records = append(r.records, record)
	}
}

func (r *DependencyRegistry) Contains(name string) bool {
	_, exists := r.seen[normalizeKey(name)]
	return exists
}

// Names returns the discovered names in insertion order, fed back into
// source scan prompts so the extractor doesnt re-report them.
func (r *DependencyRegistry) Names() []string {
	names := make([]string, 0, len(r.records))
	for _, record := range r.records {
		names = append(names, record.Name)
	}

	return names
}

// Snapshot returns a copy, the registry keeps ownership of its backing slice.
func (r *DependencyRegistry) Snapshot() []scannermodels.DependencyRecord {
	snapshot := make([]scannermodels.DependencyRecord, len(r.records))
	copy(snapshot, r.records)

	return snapshot
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
