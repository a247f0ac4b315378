// Package simfit seeds least-squares fit parameters from a session
// document. Parameter names follow the {kind}_{index}_{attribute}
// convention consumed by the external fitting routine, e.g.
// "sys_0_site_0_isotropic_chemical_shift" or "mth_1_rotor_frequency".
package simfit

import (
	"fmt"
	"math"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

// Ensure Builder implements the interface.
var _ driven.ParamBuilder = (*Builder)(nil)

// Builder enumerates the fittable attributes of a document.
type Builder struct{}

// NewBuilder creates a parameter builder.
func NewBuilder() *Builder { return &Builder{} }

// Build derives a parameter set from the document. Parameters are
// emitted entity by entity, sites in order, so insertion order matches
// display order. Include selects optional families by name; currently
// only "rotor_frequency" is recognised.
func (b *Builder) Build(doc *domain.Document, include map[string]bool) (*domain.FitParameterSet, error) {
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	set := domain.NewFitParameterSet()

	for i, sys := range doc.SpinSystems {
		for j, site := range sys.Sites {
			b.siteParams(set, i, j, site)
		}
		b.abundanceParam(set, i, len(doc.SpinSystems), doc.SpinSystems)
	}

	if include["rotor_frequency"] {
		for i, mth := range doc.Methods {
			if freq, ok := firstRotorFrequency(mth); ok {
				set.Set(fmt.Sprintf("mth_%d_rotor_frequency", i), domain.Parameter{
					Value: freq,
					Vary:  false,
					Min:   math.Inf(-1),
					Max:   math.Inf(1),
				})
			}
		}
	}

	for i, sp := range doc.SignalProcessors {
		b.processorParams(set, i, sp)
	}

	return set, nil
}

func (b *Builder) siteParams(set *domain.FitParameterSet, sys, site int, s domain.Site) {
	prefix := fmt.Sprintf("sys_%d_site_%d", sys, site)

	if s.IsotropicChemicalShift != "" {
		if q, err := domain.ParseQuantity(s.IsotropicChemicalShift); err == nil {
			set.Set(prefix+"_isotropic_chemical_shift", varying(float64(q)))
		}
	}

	if t := s.ShieldingSymmetric; t != nil {
		tensorParams(set, prefix+"_shielding_symmetric", t.Zeta, t.Eta, t.Alpha, t.Beta, t.Gamma, "zeta")
	}
	if t := s.Quadrupolar; t != nil {
		tensorParams(set, prefix+"_quadrupolar", t.Cq, t.Eta, t.Alpha, t.Beta, t.Gamma, "Cq")
	}
}

// tensorParams emits the set attributes of one tensor group. Eta is
// bounded to its physical range.
func tensorParams(set *domain.FitParameterSet, prefix string, magnitude, eta, alpha, beta, gamma *domain.Quantity, magnitudeName string) {
	if magnitude != nil {
		set.Set(prefix+"_"+magnitudeName, varying(float64(*magnitude)))
	}
	if eta != nil {
		set.Set(prefix+"_eta", domain.Parameter{Value: float64(*eta), Vary: true, Min: 0, Max: 1})
	}
	eulers := []struct {
		name string
		q    *domain.Quantity
	}{{"alpha", alpha}, {"beta", beta}, {"gamma", gamma}}
	for _, e := range eulers {
		if e.q != nil {
			set.Set(prefix+"_"+e.name, domain.Parameter{Value: float64(*e.q), Vary: false, Min: 0, Max: 2 * math.Pi})
		}
	}
}

// abundanceParam emits one abundance per spin system, bounded to
// percent. The last system's abundance is constrained by expression so
// the total stays at 100.
func (b *Builder) abundanceParam(set *domain.FitParameterSet, index, total int, systems []domain.SpinSystem) {
	name := fmt.Sprintf("sys_%d_abundance", index)
	if total > 1 && index == total-1 {
		expr := "100"
		for i := 0; i < total-1; i++ {
			expr += fmt.Sprintf("-sys_%d_abundance", i)
		}
		set.Set(name, domain.Parameter{
			Value: systems[index].Abundance,
			Vary:  false,
			Min:   0,
			Max:   100,
			Expr:  expr,
		})
		return
	}
	set.Set(name, domain.Parameter{Value: systems[index].Abundance, Vary: total > 1, Min: 0, Max: 100})
}

func (b *Builder) processorParams(set *domain.FitParameterSet, index int, sp domain.SignalProcessor) {
	for j, op := range sp.Operations {
		switch op.Function {
		case domain.FnApodization:
			if op.FWHM == "" {
				continue
			}
			q, err := domain.ParseQuantity(op.FWHM)
			if err != nil {
				continue
			}
			name := fmt.Sprintf("SP_%d_operation_%d_%s_FWHM", index, j, op.Type)
			set.Set(name, domain.Parameter{Value: float64(q), Vary: true, Min: 0, Max: math.Inf(1)})
		case domain.FnScale:
			if op.Factor == nil {
				continue
			}
			name := fmt.Sprintf("SP_%d_operation_%d_Scale_factor", index, j)
			set.Set(name, varying(*op.Factor))
		}
	}
}

func varying(value float64) domain.Parameter {
	return domain.Parameter{Value: value, Vary: true, Min: math.Inf(-1), Max: math.Inf(1)}
}

func firstRotorFrequency(m domain.Method) (float64, bool) {
	if len(m.SpectralDimensions) == 0 || len(m.SpectralDimensions[0].Events) == 0 {
		return 0, false
	}
	return float64(m.SpectralDimensions[0].Events[0].RotorFrequency), true
}
