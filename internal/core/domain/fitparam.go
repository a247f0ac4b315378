package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter is one scalar exposed to the external nonlinear fitter.
type Parameter struct {
	Value float64
	Vary  bool
	Min   float64
	Max   float64
	Expr  string
}

// ParamKind is the prefix of a fit-parameter name identifying the owning
// entity family.
type ParamKind string

const (
	// KindSys marks spin-system parameters ("sys").
	KindSys ParamKind = "sys"
	// KindMth marks method parameters ("mth").
	KindMth ParamKind = "mth"
	// KindSP marks signal-processor parameters ("SP"), grouped with
	// methods.
	KindSP ParamKind = "SP"
)

// GroupKind is the display family of a parameter group.
type GroupKind int

const (
	// GroupSpinSystem groups sys-prefixed parameters.
	GroupSpinSystem GroupKind = iota
	// GroupMethod groups mth- and SP-prefixed parameters.
	GroupMethod
)

// Title returns the display title prefix for the group kind.
func (g GroupKind) Title() string {
	if g == GroupMethod {
		return "Method"
	}
	return "Spin System"
}

// ParamName is the structured form of a fit-parameter name such as
// "sys_0_site_0_isotropic_chemical_shift" or "mth_1_rotor_frequency":
// entity kind, entity index, attribute path.
type ParamName struct {
	Kind        ParamKind
	EntityIndex int
	Attr        string
}

// GroupKind returns the display family the name belongs to.
func (n ParamName) GroupKind() GroupKind {
	if n.Kind == KindSys {
		return GroupSpinSystem
	}
	return GroupMethod
}

// String renders the flat wire name.
func (n ParamName) String() string {
	return fmt.Sprintf("%s_%d_%s", n.Kind, n.EntityIndex, n.Attr)
}

// ParseParamName parses a flat wire name into its structured form.
func ParseParamName(s string) (ParamName, error) {
	parts := strings.SplitN(s, "_", 3)
	if len(parts) < 3 {
		return ParamName{}, fmt.Errorf("param name %q: %w", s, ErrParse)
	}
	kind := ParamKind(parts[0])
	switch kind {
	case KindSys, KindMth, KindSP:
	default:
		return ParamName{}, fmt.Errorf("param name %q: unknown kind: %w", s, ErrParse)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return ParamName{}, fmt.Errorf("param name %q: %w", s, ErrParse)
	}
	return ParamName{Kind: kind, EntityIndex: index, Attr: parts[2]}, nil
}

// FitParameterSet is an insertion-ordered mapping from parameter name to
// Parameter. It is derived from a document on demand and serialised
// independently; it is never stored inside the document.
type FitParameterSet struct {
	names  []string
	params map[string]Parameter
}

// NewFitParameterSet returns an empty set.
func NewFitParameterSet() *FitParameterSet {
	return &FitParameterSet{params: make(map[string]Parameter)}
}

// Set adds or replaces a parameter. New names keep insertion order.
func (ps *FitParameterSet) Set(name string, p Parameter) {
	if _, ok := ps.params[name]; !ok {
		ps.names = append(ps.names, name)
	}
	ps.params[name] = p
}

// Get returns the parameter by name.
func (ps *FitParameterSet) Get(name string) (Parameter, bool) {
	p, ok := ps.params[name]
	return p, ok
}

// Remove deletes exactly one parameter. It returns ErrNotFound when the
// name is absent; every other entry is left untouched.
func (ps *FitParameterSet) Remove(name string) error {
	if _, ok := ps.params[name]; !ok {
		return fmt.Errorf("parameter %q: %w", name, ErrNotFound)
	}
	delete(ps.params, name)
	for i, n := range ps.names {
		if n == name {
			ps.names = append(ps.names[:i], ps.names[i+1:]...)
			break
		}
	}
	return nil
}

// Names returns the parameter names in insertion order.
func (ps *FitParameterSet) Names() []string {
	return append([]string(nil), ps.names...)
}

// Len returns the number of parameters.
func (ps *FitParameterSet) Len() int { return len(ps.names) }

// ParamRow is one display row of the fit table.
type ParamRow struct {
	Name  string
	Value float64
	Vary  bool
	Min   float64
	Max   float64
	Expr  string
}

// FlatRows returns one row per parameter in insertion order. Builders
// emit parameters ordered by owning entity then attribute, so insertion
// order is display order.
func (ps *FitParameterSet) FlatRows() []ParamRow {
	rows := make([]ParamRow, 0, len(ps.names))
	for _, name := range ps.names {
		p := ps.params[name]
		rows = append(rows, ParamRow{
			Name: name, Value: p.Value, Vary: p.Vary,
			Min: p.Min, Max: p.Max, Expr: p.Expr,
		})
	}
	return rows
}

// ParamGroup is one display group of parameters sharing an owning entity.
type ParamGroup struct {
	// Kind is the display family.
	Kind GroupKind
	// DisplayIndex is zero-based within the family.
	DisplayIndex int
	// TableIndex is the position across both families, spin-system
	// groups first.
	TableIndex int
	// Title is e.g. "Spin System 0" or "Method 1".
	Title string
	// Names holds the member parameter names in insertion order.
	Names []string
}

// Group partitions the set into spin-system and method groups. Members
// are sub-grouped by their embedded entity index; display indices are
// assigned zero-based in first-appearance order, which is stable as long
// as the underlying index sequence is monotonic within each family.
func (ps *FitParameterSet) Group() (sys, mth []ParamGroup) {
	sysIdx := make(map[int]int)
	mthIdx := make(map[int]int)

	for _, name := range ps.names {
		parsed, err := ParseParamName(name)
		if err != nil {
			continue
		}
		switch parsed.GroupKind() {
		case GroupSpinSystem:
			pos, ok := sysIdx[parsed.EntityIndex]
			if !ok {
				pos = len(sys)
				sysIdx[parsed.EntityIndex] = pos
				sys = append(sys, ParamGroup{
					Kind:         GroupSpinSystem,
					DisplayIndex: pos,
					Title:        fmt.Sprintf("Spin System %d", pos),
				})
			}
			sys[pos].Names = append(sys[pos].Names, name)
		case GroupMethod:
			pos, ok := mthIdx[parsed.EntityIndex]
			if !ok {
				pos = len(mth)
				mthIdx[parsed.EntityIndex] = pos
				mth = append(mth, ParamGroup{
					Kind:         GroupMethod,
					DisplayIndex: pos,
					Title:        fmt.Sprintf("Method %d", pos),
				})
			}
			mth[pos].Names = append(mth[pos].Names, name)
		}
	}

	for i := range sys {
		sys[i].TableIndex = i
	}
	for i := range mth {
		mth[i].TableIndex = len(sys) + i
	}
	return sys, mth
}

// serializedParams is the wire form the external fitting routine
// consumes: a list of [name, value, vary, min, max, expr] tuples.
type serializedParams struct {
	Params [][]any `json:"params"`
}

// MarshalJSON renders the fitter wire form.
func (ps *FitParameterSet) MarshalJSON() ([]byte, error) {
	out := serializedParams{Params: make([][]any, 0, len(ps.names))}
	for _, name := range ps.names {
		p := ps.params[name]
		var expr any
		if p.Expr != "" {
			expr = p.Expr
		}
		out.Params = append(out.Params, []any{
			name, p.Value, p.Vary, jsonFloat(p.Min), jsonFloat(p.Max), expr,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the fitter wire form back into an ordered set.
func (ps *FitParameterSet) UnmarshalJSON(b []byte) error {
	var in serializedParams
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("parameter set: %w", err)
	}
	ps.names = nil
	ps.params = make(map[string]Parameter, len(in.Params))
	for _, tuple := range in.Params {
		if len(tuple) < 3 {
			return fmt.Errorf("parameter tuple too short: %w", ErrSchema)
		}
		name, ok := tuple[0].(string)
		if !ok {
			return fmt.Errorf("parameter name: %w", ErrSchema)
		}
		p := Parameter{Min: math.Inf(-1), Max: math.Inf(1)}
		if v, ok := tuple[1].(float64); ok {
			p.Value = v
		}
		if v, ok := tuple[2].(bool); ok {
			p.Vary = v
		}
		if len(tuple) > 3 {
			p.Min = parseBound(tuple[3], math.Inf(-1))
		}
		if len(tuple) > 4 {
			p.Max = parseBound(tuple[4], math.Inf(1))
		}
		if len(tuple) > 5 {
			if e, ok := tuple[5].(string); ok {
				p.Expr = e
			}
		}
		ps.Set(name, p)
	}
	return nil
}

// jsonFloat keeps infinities round-trippable: JSON has no Inf literal, so
// the wire form uses the strings "-inf" and "inf".
func jsonFloat(f float64) any {
	switch {
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsInf(f, 1):
		return "inf"
	default:
		return f
	}
}

func parseBound(v any, fallback float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if val == "-inf" {
			return math.Inf(-1)
		}
		if val == "inf" {
			return math.Inf(1)
		}
	}
	return fallback
}
