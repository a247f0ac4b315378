package driven

// Spectrum is a decoded scientific-data-model (CSDM) document: the
// dimension geometry the application needs, plus the full dictionary for
// embedding as a method experiment. Offsets and increments are converted
// to Hz by the decoder.
type Spectrum struct {
	Dimensions []SpectrumDimension

	// Dict is the complete decoded document, stored verbatim under
	// method.experiment.
	Dict map[string]any
}

// SpectrumDimension is the geometry of one decoded dimension.
type SpectrumDimension struct {
	Count               int
	IncrementHz         float64
	CoordinatesOffsetHz float64
	OriginOffsetHz      float64
}

// SpectrumDecoder parses a serialized CSDM document. Malformed input
// maps to domain.ErrParse.
type SpectrumDecoder interface {
	Decode(data []byte) (*Spectrum, error)
}
