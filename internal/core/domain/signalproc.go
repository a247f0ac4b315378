package domain

// SignalProcessor is the ordered list of post-simulation transform
// operations applied to one method's simulated signal.
type SignalProcessor struct {
	Operations []Operation `json:"operations"`
}

// Clone returns a deep copy of the processor.
func (sp SignalProcessor) Clone() SignalProcessor {
	out := SignalProcessor{Operations: make([]Operation, len(sp.Operations))}
	for i, op := range sp.Operations {
		c := op
		c.DimIndex = append([]int(nil), op.DimIndex...)
		c.DVIndex = append([]int(nil), op.DVIndex...)
		out.Operations[i] = c
	}
	return out
}

// Operation function names. IFFT and FFT bracket every user pipeline so
// apodizations run in the time domain.
const (
	FnIFFT        = "IFFT"
	FnFFT         = "FFT"
	FnApodization = "apodization"
	FnScale       = "Scale"
)

// Operation is one signal-processing step. Only the attributes relevant
// to its function are set.
type Operation struct {
	Function string `json:"function"`

	// DimIndex selects the spectral dimensions the operation spans.
	DimIndex []int `json:"dim_index,omitempty"`

	// DVIndex selects dependent variables (per-spin-system traces) for
	// apodizations; empty means all.
	DVIndex []int `json:"dv_index,omitempty"`

	// Type names the apodization window, e.g. "Exponential" or
	// "Gaussian".
	Type string `json:"type,omitempty"`

	// FWHM is the apodization width as a quantity string, e.g. "100 Hz".
	FWHM string `json:"FWHM,omitempty"`

	// Factor is the amplitude multiplier for Scale operations.
	Factor *float64 `json:"factor,omitempty"`
}

// OperationWidget is the read-back state of one operation editor in the
// UI, keyed by (Function, Index). Duplicate keys may appear when the
// widget set re-renders; assembly processes each key once.
type OperationWidget struct {
	Function string
	Index    int
	Op       Operation
}
