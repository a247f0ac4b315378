package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Isotope is a nuclear isotope symbol, e.g. "1H" or "27Al".
//
// Exchange formats sometimes wrap the symbol in a unit-tagged object,
// {"symbol": "13C"}. Decoding accepts both forms and always stores the
// bare symbol, which keeps normalisation idempotent.
type Isotope string

// UnmarshalJSON accepts either a bare string or a {"symbol": ...} object.
func (i *Isotope) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = Isotope(s)
		return nil
	}

	var tagged struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(b, &tagged); err != nil {
		return fmt.Errorf("isotope: %w", err)
	}
	if tagged.Symbol == "" {
		return fmt.Errorf("isotope: %w", ErrSchema)
	}
	*i = Isotope(tagged.Symbol)
	return nil
}

// Quantity is a unit-bearing scalar stored in the attribute's canonical
// unit. JSON decoding accepts a bare number or a "value unit" string;
// frequency units are converted to Hz, any other unit keeps the numeric
// value unchanged (the canonical unit is fixed per attribute).
type Quantity float64

// frequencyScale maps frequency unit symbols to their factor in Hz.
var frequencyScale = map[string]float64{
	"Hz":  1,
	"kHz": 1e3,
	"MHz": 1e6,
	"GHz": 1e9,
}

// UnmarshalJSON accepts 12.5, "12.5" or "12.5 kHz".
func (q *Quantity) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*q = Quantity(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	parsed, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuantity parses a "value" or "value unit" string.
func ParseQuantity(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("quantity %q: %w", s, ErrParse)
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", s, ErrParse)
	}
	if len(fields) > 1 {
		if scale, ok := frequencyScale[fields[1]]; ok {
			f *= scale
		}
	}
	return Quantity(f), nil
}

// Ptr returns a pointer to q, for optional tensor attributes.
func (q Quantity) Ptr() *Quantity { return &q }

// Document is the canonical root of a simulation session. It is the
// single shared-state object every mutation event operates on.
type Document struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	SpinSystems []SpinSystem `json:"spin_systems"`
	Methods     []Method     `json:"methods"`

	// SignalProcessors holds one processor per method, index aligned.
	SignalProcessors []SignalProcessor `json:"signal_processors,omitempty"`

	Config SessionConfig `json:"config"`
}

// SessionConfig is the per-document display configuration. It travels
// with the document JSON; the per-mutation delta does not (see
// MutationDelta).
type SessionConfig struct {
	DecomposeSpectrum DecomposeMode `json:"decompose_spectrum,omitempty"`
}

// DecomposeMode selects whether the simulated spectrum is shown summed
// or as one trace per spin system.
type DecomposeMode string

const (
	// DecomposeNone shows a single summed spectrum.
	DecomposeNone DecomposeMode = "none"
	// DecomposeSpinSystem shows per-spin-system traces.
	DecomposeSpinSystem DecomposeMode = "spin_system"
)

// SpinSystem is a set of nuclear sites with a shared abundance, the basic
// simulated physical entity.
type SpinSystem struct {
	// ID is a synthetic identifier assigned at creation. Events address
	// entities by position; the ID exists so stores and reordering have a
	// stable handle.
	ID string `json:"id,omitempty"`

	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Abundance   float64 `json:"abundance"`
	Sites       []Site  `json:"sites"`
}

// Isotopes returns the isotope of every site, in site order, duplicates
// included.
func (s SpinSystem) Isotopes() []Isotope {
	out := make([]Isotope, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = site.Isotope
	}
	return out
}

// Site is one nucleus within a spin system.
type Site struct {
	Isotope                Isotope `json:"isotope"`
	IsotropicChemicalShift string  `json:"isotropic_chemical_shift,omitempty"`

	ShieldingSymmetric *ShieldingSymmetric `json:"shielding_symmetric,omitempty"`
	Quadrupolar        *Quadrupolar        `json:"quadrupolar,omitempty"`
}

// ShieldingSymmetric is the symmetric part of the nuclear shielding
// tensor. Zeta and Eta come both-or-neither; the Euler angles are an
// independent optional triple.
type ShieldingSymmetric struct {
	Zeta  *Quantity `json:"zeta,omitempty"`
	Eta   *Quantity `json:"eta,omitempty"`
	Alpha *Quantity `json:"alpha,omitempty"`
	Beta  *Quantity `json:"beta,omitempty"`
	Gamma *Quantity `json:"gamma,omitempty"`
}

// IsEmpty reports whether no attribute is set.
func (t *ShieldingSymmetric) IsEmpty() bool {
	return t == nil || (t.Zeta == nil && t.Eta == nil && t.Alpha == nil && t.Beta == nil && t.Gamma == nil)
}

// Quadrupolar is the electric quadrupolar coupling tensor. Cq and Eta
// come both-or-neither; the Euler angles are an independent optional
// triple.
type Quadrupolar struct {
	Cq    *Quantity `json:"Cq,omitempty"`
	Eta   *Quantity `json:"eta,omitempty"`
	Alpha *Quantity `json:"alpha,omitempty"`
	Beta  *Quantity `json:"beta,omitempty"`
	Gamma *Quantity `json:"gamma,omitempty"`
}

// IsEmpty reports whether no attribute is set.
func (t *Quadrupolar) IsEmpty() bool {
	return t == nil || (t.Cq == nil && t.Eta == nil && t.Alpha == nil && t.Beta == nil && t.Gamma == nil)
}

// Method describes an NMR measurement: its channels, spectral dimensions
// and acquisition events. Experiment holds an attached measured spectrum
// (a CSDM dictionary) when one has been imported for comparison.
type Method struct {
	ID string `json:"id,omitempty"`

	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Channels    []Isotope `json:"channels"`

	SpectralDimensions []SpectralDimension `json:"spectral_dimensions"`

	Experiment map[string]any `json:"experiment,omitempty"`
}

// SpectralDimension is one spectral dimension of a method. Frequencies
// are stored in Hz.
type SpectralDimension struct {
	Count           int      `json:"count"`
	SpectralWidth   Quantity `json:"spectral_width"`
	ReferenceOffset Quantity `json:"reference_offset"`
	OriginOffset    Quantity `json:"origin_offset,omitempty"`
	Label           string   `json:"label,omitempty"`

	Events []MethodEvent `json:"events,omitempty"`
}

// MethodEvent is one acquisition event within a spectral dimension.
// MagneticFluxDensity is in T, RotorFrequency in Hz, RotorAngle in rad.
type MethodEvent struct {
	MagneticFluxDensity Quantity  `json:"magnetic_flux_density,omitempty"`
	RotorFrequency      Quantity  `json:"rotor_frequency,omitempty"`
	RotorAngle          Quantity  `json:"rotor_angle,omitempty"`
	TransitionQueries   []MapList `json:"transition_queries,omitempty"`
}

// MapList keeps untyped nested structure for pass-through attributes the
// application never edits.
type MapList = map[string]any

// Clone returns a deep copy of the document. Handlers treat the prior
// document as immutable input; the router clones before mutating so no
// view can observe a half-applied change.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.SpinSystems = make([]SpinSystem, len(d.SpinSystems))
	for i := range d.SpinSystems {
		out.SpinSystems[i] = d.SpinSystems[i].Clone()
	}
	out.Methods = make([]Method, len(d.Methods))
	for i := range d.Methods {
		out.Methods[i] = d.Methods[i].Clone()
	}
	out.SignalProcessors = make([]SignalProcessor, len(d.SignalProcessors))
	for i := range d.SignalProcessors {
		out.SignalProcessors[i] = d.SignalProcessors[i].Clone()
	}
	return &out
}

// Clone returns a deep copy of the spin system.
func (s SpinSystem) Clone() SpinSystem {
	out := s
	out.Sites = make([]Site, len(s.Sites))
	for i := range s.Sites {
		out.Sites[i] = s.Sites[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the site.
func (s Site) Clone() Site {
	out := s
	if s.ShieldingSymmetric != nil {
		t := ShieldingSymmetric{
			Zeta:  cloneQuantity(s.ShieldingSymmetric.Zeta),
			Eta:   cloneQuantity(s.ShieldingSymmetric.Eta),
			Alpha: cloneQuantity(s.ShieldingSymmetric.Alpha),
			Beta:  cloneQuantity(s.ShieldingSymmetric.Beta),
			Gamma: cloneQuantity(s.ShieldingSymmetric.Gamma),
		}
		out.ShieldingSymmetric = &t
	}
	if s.Quadrupolar != nil {
		t := Quadrupolar{
			Cq:    cloneQuantity(s.Quadrupolar.Cq),
			Eta:   cloneQuantity(s.Quadrupolar.Eta),
			Alpha: cloneQuantity(s.Quadrupolar.Alpha),
			Beta:  cloneQuantity(s.Quadrupolar.Beta),
			Gamma: cloneQuantity(s.Quadrupolar.Gamma),
		}
		out.Quadrupolar = &t
	}
	return out
}

// Clone returns a deep copy of the method.
func (m Method) Clone() Method {
	out := m
	out.Channels = append([]Isotope(nil), m.Channels...)
	out.SpectralDimensions = make([]SpectralDimension, len(m.SpectralDimensions))
	for i, dim := range m.SpectralDimensions {
		c := dim
		c.Events = make([]MethodEvent, len(dim.Events))
		copy(c.Events, dim.Events)
		out.SpectralDimensions[i] = c
	}
	if m.Experiment != nil {
		out.Experiment = cloneMap(m.Experiment)
	}
	return out
}

func cloneQuantity(q *Quantity) *Quantity {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = cloneMap(val)
		case []any:
			cp := make([]any, len(val))
			for i, item := range val {
				if sub, ok := item.(map[string]any); ok {
					cp[i] = cloneMap(sub)
				} else {
					cp[i] = item
				}
			}
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
