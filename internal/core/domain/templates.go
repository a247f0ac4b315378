package domain

// MethodTemplates returns the named method presets offered by the add
// flow, in menu order. Each call returns fresh values so callers can
// mutate the result freely.
func MethodTemplates() []Method {
	return []Method{
		{
			Name:     "BlochDecaySpectrum",
			Channels: []Isotope{"1H"},
			SpectralDimensions: []SpectralDimension{{
				Count:         2048,
				SpectralWidth: 25000,
				Events: []MethodEvent{{
					MagneticFluxDensity: 9.4,
					RotorFrequency:      0,
				}},
			}},
		},
		{
			Name:     "BlochDecayCTSpectrum",
			Channels: []Isotope{"27Al"},
			SpectralDimensions: []SpectralDimension{{
				Count:         2048,
				SpectralWidth: 25000,
				Events: []MethodEvent{{
					MagneticFluxDensity: 9.4,
					RotorFrequency:      0,
					// Central transition only.
					TransitionQueries: []MapList{
						{"ch1": map[string]any{"P": []any{-1.0}, "D": []any{0.0}}},
					},
				}},
			}},
		},
	}
}
