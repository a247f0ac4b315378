package domain

// SystemRow is one row of the spin-system overview table.
type SystemRow struct {
	Index int
	Name  string
	// Abundance is rounded to 3 decimals for display.
	Abundance float64
	SiteCount int
	// Isotopes is the de-duplicated site isotopes joined by "-", in
	// first-occurrence order.
	Isotopes string
}

// MethodRow is one row of the method overview table.
type MethodRow struct {
	Index    int
	Name     string
	Channels string
	// FluxDensity is B0 in T, from the first spectral dimension's first
	// event.
	FluxDensity float64
	// RotorFrequency is in kHz, from the same event.
	RotorFrequency float64
}

// Option is one dropdown entry.
type Option struct {
	Label string
	Value int
}

// SampleInfo is the read-only session header.
type SampleInfo struct {
	Name        string
	Description string
	SystemCount int
	MethodCount int
}

// DerivedViews bundles every read-only summary recomputed after a
// mutation. Each member is a Patch: unset means the previous rendering
// stands.
type DerivedViews struct {
	Systems       Patch[[]SystemRow]
	Methods       Patch[[]MethodRow]
	Sample        Patch[SampleInfo]
	SystemOptions Patch[[]Option]
	MethodOptions Patch[[]Option]
}
