package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// Derived-view builders. All of them are pure functions of the document:
// calling one twice with the same input yields identical output, so the
// session can skip any view the router did not flag.

// SystemOverview returns one row per spin system.
func SystemOverview(doc *domain.Document) []domain.SystemRow {
	rows := make([]domain.SystemRow, 0, len(doc.SpinSystems))
	for i, sys := range doc.SpinSystems {
		rows = append(rows, domain.SystemRow{
			Index:     i,
			Name:      sys.Name,
			Abundance: math.Round(sys.Abundance*1000) / 1000,
			SiteCount: len(sys.Sites),
			Isotopes:  joinIsotopes(sys.Isotopes()),
		})
	}
	return rows
}

// joinIsotopes de-duplicates in first-occurrence order and joins with
// "-". The order is fixed by the site order, never by map iteration, so
// repeated calls render byte-identical output.
func joinIsotopes(isotopes []domain.Isotope) string {
	seen := make(map[domain.Isotope]bool, len(isotopes))
	parts := make([]string, 0, len(isotopes))
	for _, iso := range isotopes {
		if seen[iso] {
			continue
		}
		seen[iso] = true
		parts = append(parts, string(iso))
	}
	return strings.Join(parts, "-")
}

// MethodOverview returns one row per method. B0 and the rotor frequency
// are read from the first spectral dimension's first event; rotor
// frequency is reported in kHz.
func MethodOverview(doc *domain.Document) []domain.MethodRow {
	rows := make([]domain.MethodRow, 0, len(doc.Methods))
	for i, mth := range doc.Methods {
		row := domain.MethodRow{
			Index:    i,
			Name:     mth.Name,
			Channels: joinIsotopes(mth.Channels),
		}
		if len(mth.SpectralDimensions) > 0 && len(mth.SpectralDimensions[0].Events) > 0 {
			ev := mth.SpectralDimensions[0].Events[0]
			row.FluxDensity = float64(ev.MagneticFluxDensity)
			row.RotorFrequency = float64(ev.RotorFrequency) / 1e3
		}
		rows = append(rows, row)
	}
	return rows
}

// SystemOptions returns the spin-system dropdown entries, labelled by
// index.
func SystemOptions(doc *domain.Document) []domain.Option {
	opts := make([]domain.Option, 0, len(doc.SpinSystems))
	for i := range doc.SpinSystems {
		opts = append(opts, domain.Option{Label: strconv.Itoa(i), Value: i})
	}
	return opts
}

// MethodOptions returns the method dropdown entries, labelled with the
// method index and its channels.
func MethodOptions(doc *domain.Document) []domain.Option {
	opts := make([]domain.Option, 0, len(doc.Methods))
	for i, mth := range doc.Methods {
		channels := make([]string, len(mth.Channels))
		for j, ch := range mth.Channels {
			channels[j] = string(ch)
		}
		opts = append(opts, domain.Option{
			Label: fmt.Sprintf("Method-%d (Channel-%s)", i, strings.Join(channels, ", ")),
			Value: i,
		})
	}
	return opts
}

// BuildSampleInfo returns the session header. An empty name displays as
// the default sample title.
func BuildSampleInfo(doc *domain.Document) domain.SampleInfo {
	name := doc.Name
	if name == "" {
		name = DefaultName
	}
	return domain.SampleInfo{
		Name:        name,
		Description: doc.Description,
		SystemCount: len(doc.SpinSystems),
		MethodCount: len(doc.Methods),
	}
}

// AllViews recomputes every derived view, the assemble path taken after
// whole-document replacement.
func AllViews(doc *domain.Document) domain.DerivedViews {
	return domain.DerivedViews{
		Systems:       domain.Update(SystemOverview(doc)),
		Methods:       domain.Update(MethodOverview(doc)),
		Sample:        domain.Update(BuildSampleInfo(doc)),
		SystemOptions: domain.Update(SystemOptions(doc)),
		MethodOptions: domain.Update(MethodOptions(doc)),
	}
}

// systemViews recomputes the views affected by a spin-system list
// change.
func systemViews(doc *domain.Document) domain.DerivedViews {
	return domain.DerivedViews{
		Systems:       domain.Update(SystemOverview(doc)),
		Sample:        domain.Update(BuildSampleInfo(doc)),
		SystemOptions: domain.Update(SystemOptions(doc)),
	}
}

// methodViews recomputes the views affected by a method list change.
func methodViews(doc *domain.Document) domain.DerivedViews {
	return domain.DerivedViews{
		Methods:       domain.Update(MethodOverview(doc)),
		Sample:        domain.Update(BuildSampleInfo(doc)),
		MethodOptions: domain.Update(MethodOptions(doc)),
	}
}
