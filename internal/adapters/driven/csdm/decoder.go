// Package csdm decodes core scientific dataset model (CSDM) documents,
// the JSON serialisation used for measured spectra. Only linear
// dimensions carry the geometry the application needs; the full decoded
// dictionary is kept for embedding as a method experiment.
package csdm

import (
	"encoding/json"
	"fmt"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.SpectrumDecoder = (*Decoder)(nil)

// Decoder parses serialized CSDM documents.
type Decoder struct{}

// NewDecoder creates a CSDM decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// csdmRoot mirrors the envelope of a CSDM file.
type csdmRoot struct {
	CSDM struct {
		Version    string          `json:"version"`
		Dimensions []csdmDimension `json:"dimensions"`
	} `json:"csdm"`
}

type csdmDimension struct {
	Type              string `json:"type"`
	Count             int    `json:"count"`
	Increment         string `json:"increment"`
	CoordinatesOffset string `json:"coordinates_offset"`
	OriginOffset      string `json:"origin_offset"`
}

// Decode parses a CSDM document. The returned spectrum carries the
// geometry of every linear dimension, in file order, plus the complete
// decoded dictionary.
func (d *Decoder) Decode(data []byte) (*driven.Spectrum, error) {
	var root csdmRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if root.CSDM.Version == "" {
		return nil, fmt.Errorf("%w: missing csdm envelope", domain.ErrParse)
	}

	var dict map[string]any
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	spectrum := &driven.Spectrum{Dict: dict}
	for i, dim := range root.CSDM.Dimensions {
		if dim.Type != "" && dim.Type != "linear" {
			continue
		}
		if dim.Count <= 0 {
			return nil, fmt.Errorf("dimension %d: %w: non-positive count", i, domain.ErrParse)
		}
		increment, err := hertz(dim.Increment)
		if err != nil {
			return nil, fmt.Errorf("dimension %d increment: %w", i, err)
		}
		offset, err := optionalHertz(dim.CoordinatesOffset)
		if err != nil {
			return nil, fmt.Errorf("dimension %d coordinates_offset: %w", i, err)
		}
		origin, err := optionalHertz(dim.OriginOffset)
		if err != nil {
			return nil, fmt.Errorf("dimension %d origin_offset: %w", i, err)
		}
		spectrum.Dimensions = append(spectrum.Dimensions, driven.SpectrumDimension{
			Count:               dim.Count,
			IncrementHz:         increment,
			CoordinatesOffsetHz: offset,
			OriginOffsetHz:      origin,
		})
	}

	if len(spectrum.Dimensions) == 0 {
		return nil, fmt.Errorf("%w: no linear dimensions", domain.ErrParse)
	}
	return spectrum, nil
}

func hertz(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing quantity", domain.ErrParse)
	}
	q, err := domain.ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	return float64(q), nil
}

func optionalHertz(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := domain.ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	return float64(q), nil
}
