package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

func TestSystemOverviewRoundsAbundance(t *testing.T) {
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{{
		Name:      "glycine",
		Abundance: 33.33333,
		Sites: []domain.Site{
			{Isotope: "13C"},
			{Isotope: "1H"},
			{Isotope: "13C"},
		},
	}}}

	rows := SystemOverview(doc)
	require.Len(t, rows, 1)
	assert.Equal(t, 33.333, rows[0].Abundance)
	assert.Equal(t, 3, rows[0].SiteCount)
	assert.Equal(t, "13C-1H", rows[0].Isotopes)
}

func TestSystemOverviewDeterministic(t *testing.T) {
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{
		{Abundance: 50, Sites: []domain.Site{{Isotope: "1H"}, {Isotope: "17O"}, {Isotope: "1H"}}},
		{Abundance: 50, Sites: []domain.Site{{Isotope: "27Al"}}},
	}}

	first := SystemOverview(doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SystemOverview(doc))
	}
}

func TestMethodOverviewReadsFirstEvent(t *testing.T) {
	doc := &domain.Document{Methods: []domain.Method{
		{
			Name:     "BlochDecaySpectrum",
			Channels: []domain.Isotope{"29Si"},
			SpectralDimensions: []domain.SpectralDimension{{
				Events: []domain.MethodEvent{
					{MagneticFluxDensity: 9.4, RotorFrequency: 14000},
					{MagneticFluxDensity: 18.8, RotorFrequency: 60000},
				},
			}},
		},
		{Name: "no events", Channels: []domain.Isotope{"1H"}},
	}}

	rows := MethodOverview(doc)
	require.Len(t, rows, 2)
	assert.Equal(t, 9.4, rows[0].FluxDensity)
	assert.Equal(t, 14.0, rows[0].RotorFrequency)
	assert.Equal(t, "29Si", rows[0].Channels)
	assert.Zero(t, rows[1].FluxDensity)
	assert.Zero(t, rows[1].RotorFrequency)
}

func TestMethodOptionsLabel(t *testing.T) {
	doc := &domain.Document{Methods: []domain.Method{
		{Channels: []domain.Isotope{"1H"}},
		{Channels: []domain.Isotope{"13C", "1H"}},
	}}

	opts := MethodOptions(doc)
	require.Len(t, opts, 2)
	assert.Equal(t, domain.Option{Label: "Method-0 (Channel-1H)", Value: 0}, opts[0])
	assert.Equal(t, domain.Option{Label: "Method-1 (Channel-13C, 1H)", Value: 1}, opts[1])
}

func TestBuildSampleInfoDefaultsEmptyName(t *testing.T) {
	info := BuildSampleInfo(&domain.Document{
		Description: "desc",
		SpinSystems: []domain.SpinSystem{{}, {}},
		Methods:     []domain.Method{{}},
	})

	assert.Equal(t, "Sample", info.Name)
	assert.Equal(t, "desc", info.Description)
	assert.Equal(t, 2, info.SystemCount)
	assert.Equal(t, 1, info.MethodCount)
}
