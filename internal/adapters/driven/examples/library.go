// Package examples bundles a small library of ready-made session
// documents so the application is usable before the user has any file
// of their own.
package examples

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

//go:embed data/*.json
var dataFS embed.FS

// manifestEntry is one line of the bundled manifest.
type manifestEntry struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// Ensure Library implements the interface.
var _ driven.ExampleLibrary = (*Library)(nil)

// Library resolves bundled example sessions by label.
type Library struct {
	entries []manifestEntry
	byLabel map[string]string
}

// NewLibrary loads the embedded manifest. It fails only if the bundled
// data is corrupt, which is a build defect.
func NewLibrary() (*Library, error) {
	raw, err := dataFS.ReadFile("data/manifest.json")
	if err != nil {
		return nil, fmt.Errorf("reading example manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing example manifest: %w", err)
	}

	byLabel := make(map[string]string, len(entries))
	for _, e := range entries {
		byLabel[e.Label] = e.File
	}
	return &Library{entries: entries, byLabel: byLabel}, nil
}

// List returns every bundled example in display order.
func (l *Library) List() []driven.Example {
	out := make([]driven.Example, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, driven.Example{Label: e.Label, Description: e.Description})
	}
	return out
}

// Load returns the raw JSON bytes of the example with the given label.
func (l *Library) Load(label string) ([]byte, error) {
	file, ok := l.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("example %q: %w", label, domain.ErrNotFound)
	}
	raw, err := dataFS.ReadFile("data/" + file)
	if err != nil {
		return nil, fmt.Errorf("reading example %q: %w", label, err)
	}
	return raw, nil
}
