package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

var _ driving.FieldSyncService = (*FieldSync)(nil)

// FieldSync owns the mapping between the flat site-editor fields and the
// nested subtree of the selected spin system. Both directions suppress
// redundant work: unfolding skips when the fields are hidden, folding
// skips unchanged values and partially specified tensor groups.
type FieldSync struct {
	mu       sync.Mutex
	session  driving.SessionService
	selected int
	mode     driving.EditorMode
}

// NewFieldSync creates the service with no selection.
func NewFieldSync(session driving.SessionService) *FieldSync {
	return &FieldSync{session: session, selected: domain.NoIndex}
}

// Select sets the active spin-system index.
func (f *FieldSync) Select(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 {
		f.selected = domain.NoIndex
		return
	}
	f.selected = index
}

// Selected returns the active index, or domain.NoIndex.
func (f *FieldSync) Selected() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// SetMode switches between form and raw-JSON editing.
func (f *FieldSync) SetMode(mode driving.EditorMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = mode
}

// Mode returns the active editor mode.
func (f *FieldSync) Mode() driving.EditorMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// FieldValues flattens the selected system's sites into the fixed form
// layout. Absent document keys surface as nil values so the form can
// show them blank.
func (f *FieldSync) FieldValues() ([]driving.FieldValue, error) {
	f.mu.Lock()
	mode, selected := f.mode, f.selected
	f.mu.Unlock()

	if mode == driving.ModeRawJSON || selected == domain.NoIndex {
		return nil, domain.ErrSkipUpdate
	}
	system, err := f.selectedSystem(selected)
	if err != nil {
		return nil, err
	}

	out := make([]driving.FieldValue, 0, len(system.Sites)*domain.AttrsPerSite)
	for i, site := range system.Sites {
		for _, key := range domain.SiteFieldKeys(i) {
			out = append(out, driving.FieldValue{Key: key, Value: siteValue(site, key)})
		}
	}
	return out, nil
}

// Apply folds one changed field back into the document. The form
// snapshot supplies sibling values; the changed value overrides its own
// entry. Suppressed writes return domain.ErrSkipUpdate.
func (f *FieldSync) Apply(key domain.FieldKey, value any, form map[domain.FieldKey]any) (domain.Outcome, error) {
	f.mu.Lock()
	selected := f.selected
	f.mu.Unlock()

	if selected == domain.NoIndex {
		return domain.NoOp(), domain.ErrSkipUpdate
	}
	system, err := f.selectedSystem(selected)
	if err != nil {
		return domain.NoOp(), err
	}
	if key.Site < 0 || key.Site >= len(system.Sites) {
		return domain.NoOp(), fmt.Errorf("site %d: %w", key.Site, domain.ErrIndexOutOfRange)
	}

	current := siteValue(system.Sites[key.Site], key)
	if valuesEqual(current, value) {
		return domain.NoOp(), domain.ErrSkipUpdate
	}
	if current == nil && emptyValue(value) {
		return domain.NoOp(), domain.ErrSkipUpdate
	}

	overlay := make(map[domain.FieldKey]any, len(form)+1)
	for k, v := range form {
		overlay[k] = v
	}
	overlay[key] = value

	if err := checkGroupConsistency(key, overlay); err != nil {
		return domain.NoOp(), err
	}

	site, keep, err := foldSite(key.Site, overlay)
	if err != nil {
		return domain.NoOp(), err
	}
	if keep {
		system.Sites[key.Site] = site
	} else {
		// An emptied isotope removes the site.
		system.Sites = append(system.Sites[:key.Site], system.Sites[key.Site+1:]...)
	}

	return f.session.Dispatch(context.Background(), domain.SystemModified{
		Index:  selected,
		System: system,
	})
}

// EditorJSON renders the selected system for the raw editor.
func (f *FieldSync) EditorJSON() (string, error) {
	f.mu.Lock()
	selected := f.selected
	f.mu.Unlock()

	system, err := f.selectedSystem(selected)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(system, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render system: %w", err)
	}
	return string(out), nil
}

func (f *FieldSync) selectedSystem(index int) (domain.SpinSystem, error) {
	if index == domain.NoIndex {
		return domain.SpinSystem{}, domain.ErrSkipUpdate
	}
	doc := f.session.Document()
	if doc == nil {
		return domain.SpinSystem{}, domain.ErrNoDocument
	}
	if index < 0 || index >= len(doc.SpinSystems) {
		return domain.SpinSystem{}, fmt.Errorf("spin system %d: %w", index, domain.ErrIndexOutOfRange)
	}
	return doc.SpinSystems[index], nil
}

// siteValue reads the value at a field key, nil when the key is absent.
func siteValue(site domain.Site, key domain.FieldKey) any {
	switch key.Group {
	case domain.GroupNone:
		switch key.Attr {
		case "isotope":
			if site.Isotope == "" {
				return nil
			}
			return string(site.Isotope)
		case "isotropic_chemical_shift":
			if site.IsotropicChemicalShift == "" {
				return nil
			}
			return site.IsotropicChemicalShift
		}
	case domain.GroupShielding:
		return quantityValue(shieldingAttr(site.ShieldingSymmetric, key.Attr))
	case domain.GroupQuadrupolar:
		return quantityValue(quadrupolarAttr(site.Quadrupolar, key.Attr))
	}
	return nil
}

func quantityValue(q *domain.Quantity) any {
	if q == nil {
		return nil
	}
	return float64(*q)
}

func shieldingAttr(t *domain.ShieldingSymmetric, attr string) *domain.Quantity {
	if t == nil {
		return nil
	}
	switch attr {
	case "zeta":
		return t.Zeta
	case "eta":
		return t.Eta
	case "alpha":
		return t.Alpha
	case "beta":
		return t.Beta
	case "gamma":
		return t.Gamma
	}
	return nil
}

func quadrupolarAttr(t *domain.Quadrupolar, attr string) *domain.Quantity {
	if t == nil {
		return nil
	}
	switch attr {
	case "Cq":
		return t.Cq
	case "eta":
		return t.Eta
	case "alpha":
		return t.Alpha
	case "beta":
		return t.Beta
	case "gamma":
		return t.Gamma
	}
	return nil
}

// checkGroupConsistency rejects writes that would leave the changed
// tensor group partially specified. Euler angles form an all-or-none
// triple; the magnitude and eta form a both-or-neither pair.
func checkGroupConsistency(key domain.FieldKey, form map[domain.FieldKey]any) error {
	if key.Group == domain.GroupNone {
		return nil
	}

	isEuler := false
	for _, attr := range domain.EulerAttrs {
		if key.Attr == attr {
			isEuler = true
			break
		}
	}

	if isEuler {
		present := 0
		for _, attr := range domain.EulerAttrs {
			if !emptyValue(form[domain.FieldKey{Site: key.Site, Group: key.Group, Attr: attr}]) {
				present++
			}
		}
		if present != 0 && present != len(domain.EulerAttrs) {
			return fmt.Errorf("euler angles incomplete: %w", domain.ErrSkipUpdate)
		}
		return nil
	}

	magnitude := !emptyValue(form[domain.FieldKey{Site: key.Site, Group: key.Group, Attr: key.Group.MagnitudeAttr()}])
	eta := !emptyValue(form[domain.FieldKey{Site: key.Site, Group: key.Group, Attr: "eta"}])
	if magnitude != eta {
		return fmt.Errorf("tensor magnitude and eta incomplete: %w", domain.ErrSkipUpdate)
	}
	return nil
}

// foldSite builds a site from the form snapshot for one site index. The
// second return is false when the site should be dropped entirely.
func foldSite(index int, form map[domain.FieldKey]any) (domain.Site, bool, error) {
	var site domain.Site

	isotope, err := formString(form[domain.FieldKey{Site: index, Attr: "isotope"}])
	if err != nil {
		return site, false, err
	}
	if isotope == "" {
		return site, false, nil
	}
	site.Isotope = domain.Isotope(isotope)

	shift, err := formString(form[domain.FieldKey{Site: index, Attr: "isotropic_chemical_shift"}])
	if err != nil {
		return site, false, err
	}
	site.IsotropicChemicalShift = shift

	shielding := &domain.ShieldingSymmetric{}
	for _, attr := range []string{"zeta", "eta", "alpha", "beta", "gamma"} {
		q, err := formQuantity(form[domain.FieldKey{Site: index, Group: domain.GroupShielding, Attr: attr}])
		if err != nil {
			return site, false, err
		}
		switch attr {
		case "zeta":
			shielding.Zeta = q
		case "eta":
			shielding.Eta = q
		case "alpha":
			shielding.Alpha = q
		case "beta":
			shielding.Beta = q
		case "gamma":
			shielding.Gamma = q
		}
	}
	if !shielding.IsEmpty() {
		site.ShieldingSymmetric = shielding
	}

	quad := &domain.Quadrupolar{}
	for _, attr := range []string{"Cq", "eta", "alpha", "beta", "gamma"} {
		q, err := formQuantity(form[domain.FieldKey{Site: index, Group: domain.GroupQuadrupolar, Attr: attr}])
		if err != nil {
			return site, false, err
		}
		switch attr {
		case "Cq":
			quad.Cq = q
		case "eta":
			quad.Eta = q
		case "alpha":
			quad.Alpha = q
		case "beta":
			quad.Beta = q
		case "gamma":
			quad.Gamma = q
		}
	}
	if !quad.IsEmpty() {
		site.Quadrupolar = quad
	}

	return site, true, nil
}

func formString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("field value %v: %w", v, domain.ErrParse)
	}
}

func formQuantity(v any) (*domain.Quantity, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return domain.Quantity(val).Ptr(), nil
	case int:
		return domain.Quantity(val).Ptr(), nil
	case string:
		if val == "" {
			return nil, nil
		}
		q, err := domain.ParseQuantity(val)
		if err != nil {
			return nil, err
		}
		return q.Ptr(), nil
	default:
		return nil, fmt.Errorf("field value %v: %w", v, domain.ErrParse)
	}
}

func emptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	fa, aok := asFloat(a)
	fb, bok := asFloat(b)
	if aok && bok {
		return fa == fb
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return sa == sb
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case domain.Quantity:
		return float64(val), true
	}
	return 0, false
}
