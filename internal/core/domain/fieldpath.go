package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TensorGroup identifies the nested tensor a site field belongs to.
type TensorGroup int

const (
	// GroupNone marks a top-level site attribute.
	GroupNone TensorGroup = iota
	// GroupShielding marks a shielding_symmetric attribute.
	GroupShielding
	// GroupQuadrupolar marks a quadrupolar attribute.
	GroupQuadrupolar
)

// String returns the JSON key of the group, or "" for GroupNone.
func (g TensorGroup) String() string {
	switch g {
	case GroupShielding:
		return "shielding_symmetric"
	case GroupQuadrupolar:
		return "quadrupolar"
	default:
		return ""
	}
}

// FieldKey is the structured address of one form field: which site, which
// tensor group (if any) and which attribute. It replaces the stringly
// `site-group-attr` keys of the wire form with a typed path.
type FieldKey struct {
	Site  int
	Group TensorGroup
	Attr  string
}

// String renders the canonical wire form, e.g. "0-shielding_symmetric-zeta"
// or "0-isotope".
func (k FieldKey) String() string {
	if k.Group == GroupNone {
		return fmt.Sprintf("%d-%s", k.Site, k.Attr)
	}
	return fmt.Sprintf("%d-%s-%s", k.Site, k.Group, k.Attr)
}

// ParseFieldKey parses the canonical wire form back into a FieldKey.
func ParseFieldKey(s string) (FieldKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return FieldKey{}, fmt.Errorf("field key %q: %w", s, ErrParse)
	}
	site, err := strconv.Atoi(parts[0])
	if err != nil {
		return FieldKey{}, fmt.Errorf("field key %q: %w", s, ErrParse)
	}
	key := FieldKey{Site: site}
	if len(parts) == 2 {
		key.Attr = parts[1]
		return key, nil
	}
	switch parts[1] {
	case "shielding_symmetric":
		key.Group = GroupShielding
	case "quadrupolar":
		key.Group = GroupQuadrupolar
	default:
		return FieldKey{}, fmt.Errorf("field key %q: unknown group: %w", s, ErrParse)
	}
	key.Attr = parts[2]
	return key, nil
}

// EulerAttrs are the Euler-angle attributes of either tensor group.
var EulerAttrs = []string{"alpha", "beta", "gamma"}

// MagnitudeAttr returns the primary magnitude attribute of a tensor
// group: zeta for shielding, Cq for quadrupolar.
func (g TensorGroup) MagnitudeAttr() string {
	if g == GroupQuadrupolar {
		return "Cq"
	}
	return "zeta"
}

// SiteFieldKeys returns the fixed, ordered list of form-field keys for
// the site at the given index. The order is the canonical layout of the
// site editor and must not change: isotope, isotropic shift, the five
// shielding attributes, the five quadrupolar attributes.
func SiteFieldKeys(site int) []FieldKey {
	keys := []FieldKey{
		{Site: site, Attr: "isotope"},
		{Site: site, Attr: "isotropic_chemical_shift"},
	}
	for _, attr := range []string{"zeta", "eta", "alpha", "beta", "gamma"} {
		keys = append(keys, FieldKey{Site: site, Group: GroupShielding, Attr: attr})
	}
	for _, attr := range []string{"Cq", "eta", "alpha", "beta", "gamma"} {
		keys = append(keys, FieldKey{Site: site, Group: GroupQuadrupolar, Attr: attr})
	}
	return keys
}

// AttrsPerSite is the number of editable attributes per site.
const AttrsPerSite = 12
