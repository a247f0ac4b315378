package simfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

func fitDoc() *domain.Document {
	return &domain.Document{
		SpinSystems: []domain.SpinSystem{
			{
				Abundance: 60,
				Sites: []domain.Site{{
					Isotope:                "29Si",
					IsotropicChemicalShift: "-89.0 ppm",
					ShieldingSymmetric: &domain.ShieldingSymmetric{
						Zeta: domain.Quantity(59.8).Ptr(),
						Eta:  domain.Quantity(0.62).Ptr(),
					},
				}},
			},
			{
				Abundance: 40,
				Sites: []domain.Site{{
					Isotope:                "17O",
					IsotropicChemicalShift: "29.0 ppm",
					Quadrupolar: &domain.Quadrupolar{
						Cq:  domain.Quantity(6.05e6).Ptr(),
						Eta: domain.Quantity(0.1).Ptr(),
					},
				}},
			},
		},
		Methods: []domain.Method{
			{
				SpectralDimensions: []domain.SpectralDimension{{
					Events: []domain.MethodEvent{{RotorFrequency: 14000}},
				}},
			},
			{
				SpectralDimensions: []domain.SpectralDimension{{
					Events: []domain.MethodEvent{{RotorFrequency: 1500}},
				}},
			},
		},
		SignalProcessors: []domain.SignalProcessor{
			{Operations: []domain.Operation{
				{Function: domain.FnIFFT, DimIndex: []int{0}},
				{Function: domain.FnApodization, Type: "Exponential", FWHM: "100 Hz"},
				{Function: domain.FnFFT, DimIndex: []int{0}},
			}},
			{Operations: []domain.Operation{}},
		},
	}
}

func TestBuildEmitsEntityOrderedNames(t *testing.T) {
	set, err := NewBuilder().Build(fitDoc(), map[string]bool{"rotor_frequency": true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sys_0_site_0_isotropic_chemical_shift",
		"sys_0_site_0_shielding_symmetric_zeta",
		"sys_0_site_0_shielding_symmetric_eta",
		"sys_0_abundance",
		"sys_1_site_0_isotropic_chemical_shift",
		"sys_1_site_0_quadrupolar_Cq",
		"sys_1_site_0_quadrupolar_eta",
		"sys_1_abundance",
		"mth_0_rotor_frequency",
		"mth_1_rotor_frequency",
		"SP_0_operation_1_Exponential_FWHM",
	}, set.Names())
}

func TestBuildParameterValues(t *testing.T) {
	set, err := NewBuilder().Build(fitDoc(), map[string]bool{"rotor_frequency": true})
	require.NoError(t, err)

	shift, ok := set.Get("sys_0_site_0_isotropic_chemical_shift")
	require.True(t, ok)
	assert.Equal(t, -89.0, shift.Value)
	assert.True(t, shift.Vary)

	eta, ok := set.Get("sys_0_site_0_shielding_symmetric_eta")
	require.True(t, ok)
	assert.Equal(t, 0.0, eta.Min)
	assert.Equal(t, 1.0, eta.Max)

	rotor, ok := set.Get("mth_0_rotor_frequency")
	require.True(t, ok)
	assert.Equal(t, 14000.0, rotor.Value)
	assert.False(t, rotor.Vary)

	fwhm, ok := set.Get("SP_0_operation_1_Exponential_FWHM")
	require.True(t, ok)
	assert.Equal(t, 100.0, fwhm.Value)
	assert.Equal(t, 0.0, fwhm.Min)
}

func TestBuildConstrainsLastAbundance(t *testing.T) {
	set, err := NewBuilder().Build(fitDoc(), nil)
	require.NoError(t, err)

	first, ok := set.Get("sys_0_abundance")
	require.True(t, ok)
	assert.True(t, first.Vary)
	assert.Empty(t, first.Expr)

	last, ok := set.Get("sys_1_abundance")
	require.True(t, ok)
	assert.False(t, last.Vary)
	assert.Equal(t, "100-sys_0_abundance", last.Expr)
}

func TestBuildSingleSystemAbundanceFixed(t *testing.T) {
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{{Abundance: 100}}}
	set, err := NewBuilder().Build(doc, nil)
	require.NoError(t, err)

	p, ok := set.Get("sys_0_abundance")
	require.True(t, ok)
	assert.False(t, p.Vary)
	assert.Empty(t, p.Expr)
}

func TestBuildWithoutRotorFrequencyInclude(t *testing.T) {
	set, err := NewBuilder().Build(fitDoc(), nil)
	require.NoError(t, err)

	_, ok := set.Get("mth_0_rotor_frequency")
	assert.False(t, ok)
}

func TestBuildNilDocument(t *testing.T) {
	_, err := NewBuilder().Build(nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestBuildGroupsMatchDisplayScenario(t *testing.T) {
	set, err := NewBuilder().Build(fitDoc(), map[string]bool{"rotor_frequency": true})
	require.NoError(t, err)

	sys, mth := set.Group()
	require.Len(t, sys, 2)
	assert.Equal(t, "Spin System 0", sys[0].Title)
	require.Len(t, mth, 2)
	assert.Equal(t, "Method 0", mth[0].Title)
	// The processor parameter lands in its method's group.
	assert.Contains(t, mth[0].Names, "SP_0_operation_1_Exponential_FWHM")
}

