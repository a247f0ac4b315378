package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// Defaults filled in for missing top-level document keys.
const (
	DefaultName        = "Sample"
	DefaultDescription = "Add a description ..."
)

// Importer turns external bytes into normalised documents. It is the
// only place raw payloads are parsed; every failure is mapped to the
// error taxonomy and never results in a partial document.
type Importer struct {
	fetcher  driven.Fetcher
	examples driven.ExampleLibrary
}

// NewImporter creates an importer. Fetcher and examples may be nil when
// the corresponding import paths are not wired (URL and example imports
// then fail with ErrNetwork / ErrNotFound).
func NewImporter(fetcher driven.Fetcher, examples driven.ExampleLibrary) *Importer {
	return &Importer{fetcher: fetcher, examples: examples}
}

// Normalize parses raw JSON into the canonical document: missing
// top-level keys are defaulted, unit-tagged scalars unwrap during
// decoding, internal-only keys are dropped by the typed schema, and
// entities without an ID get one. Applying Normalize to its own output
// yields the same document.
func (imp *Importer) Normalize(raw []byte) (*domain.Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}

	if _, ok := probe["name"]; !ok {
		doc.Name = DefaultName
	}
	if _, ok := probe["description"]; !ok {
		doc.Description = DefaultDescription
	}
	fillDocument(&doc)
	return &doc, nil
}

// fillDocument applies the structural defaults that do not depend on key
// presence: empty entity lists, index-aligned signal processors, default
// decompose mode and entity IDs.
func fillDocument(doc *domain.Document) {
	if doc.SpinSystems == nil {
		doc.SpinSystems = []domain.SpinSystem{}
	}
	if doc.Methods == nil {
		doc.Methods = []domain.Method{}
	}
	alignProcessors(doc)
	if doc.Config.DecomposeSpectrum == "" {
		doc.Config.DecomposeSpectrum = domain.DecomposeNone
	}
	for i := range doc.SpinSystems {
		if doc.SpinSystems[i].ID == "" {
			doc.SpinSystems[i].ID = uuid.NewString()
		}
	}
	for i := range doc.Methods {
		if doc.Methods[i].ID == "" {
			doc.Methods[i].ID = uuid.NewString()
		}
	}
}

// alignProcessors restores the one-processor-per-method invariant.
func alignProcessors(doc *domain.Document) {
	for len(doc.SignalProcessors) < len(doc.Methods) {
		doc.SignalProcessors = append(doc.SignalProcessors, domain.SignalProcessor{Operations: []domain.Operation{}})
	}
	if len(doc.SignalProcessors) > len(doc.Methods) {
		doc.SignalProcessors = doc.SignalProcessors[:len(doc.Methods)]
	}
}

// DecodeUpload strips the MIME-ish prefix from a browser upload payload
// and base64-decodes the remainder.
func DecodeUpload(contents string) ([]byte, error) {
	payload := contents
	if i := strings.IndexByte(contents, ','); i >= 0 {
		payload = contents[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return raw, nil
}

// FromUpload normalises an uploaded file payload.
func (imp *Importer) FromUpload(contents string) (*domain.Document, error) {
	raw, err := DecodeUpload(contents)
	if err != nil {
		return nil, err
	}
	return imp.Normalize(raw)
}

// FromURL fetches and normalises a remote document. An empty URL is a
// deliberate no-op.
func (imp *Importer) FromURL(ctx context.Context, url string) (*domain.Document, error) {
	if url == "" {
		return nil, domain.ErrSkipUpdate
	}
	if imp.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", domain.ErrNetwork)
	}
	logger.Debug("fetching document from %s", url)
	raw, err := imp.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return imp.Normalize(raw)
}

// FromExample normalises a bundled example. An empty label is a
// deliberate no-op.
func (imp *Importer) FromExample(label string) (*domain.Document, error) {
	if label == "" {
		return nil, domain.ErrSkipUpdate
	}
	if imp.examples == nil {
		return nil, fmt.Errorf("example %q: %w", label, domain.ErrNotFound)
	}
	raw, err := imp.examples.Load(label)
	if err != nil {
		return nil, err
	}
	return imp.Normalize(raw)
}
