package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

func fieldSyncFixture(t *testing.T) (*Session, *FieldSync) {
	t.Helper()
	s := newTestSession(nil)
	system := domain.SpinSystem{
		Abundance: 100,
		Sites: []domain.Site{{
			Isotope:                "13C",
			IsotropicChemicalShift: "10 ppm",
			ShieldingSymmetric: &domain.ShieldingSymmetric{
				Zeta: domain.Quantity(5).Ptr(),
				Eta:  domain.Quantity(0.2).Ptr(),
			},
		}},
	}
	_, err := s.Dispatch(context.Background(), domain.SystemAdded{System: system})
	require.NoError(t, err)

	fs := NewFieldSync(s)
	fs.Select(0)
	return s, fs
}

func formSnapshot(t *testing.T, fs *FieldSync) map[domain.FieldKey]any {
	t.Helper()
	values, err := fs.FieldValues()
	require.NoError(t, err)
	form := make(map[domain.FieldKey]any, len(values))
	for _, fv := range values {
		form[fv.Key] = fv.Value
	}
	return form
}

func TestFieldValuesFlattenSite(t *testing.T) {
	_, fs := fieldSyncFixture(t)

	values, err := fs.FieldValues()
	require.NoError(t, err)
	require.Len(t, values, domain.AttrsPerSite)

	byKey := make(map[string]any, len(values))
	for _, fv := range values {
		byKey[fv.Key.String()] = fv.Value
	}
	assert.Equal(t, "13C", byKey["0-isotope"])
	assert.Equal(t, "10 ppm", byKey["0-isotropic_chemical_shift"])
	assert.Equal(t, 5.0, byKey["0-shielding_symmetric-zeta"])
	assert.Equal(t, 0.2, byKey["0-shielding_symmetric-eta"])
	// Absent attributes surface as nil so the form shows them blank.
	assert.Nil(t, byKey["0-shielding_symmetric-alpha"])
	assert.Nil(t, byKey["0-quadrupolar-Cq"])
}

func TestFieldValuesHiddenInRawMode(t *testing.T) {
	_, fs := fieldSyncFixture(t)

	fs.SetMode(driving.ModeRawJSON)
	_, err := fs.FieldValues()
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)

	fs.SetMode(driving.ModeForm)
	_, err = fs.FieldValues()
	assert.NoError(t, err)
}

func TestFieldValuesNoSelection(t *testing.T) {
	s := newTestSession(nil)
	fs := NewFieldSync(s)

	_, err := fs.FieldValues()
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)
}

func TestApplyWritesChangedValue(t *testing.T) {
	s, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "zeta"}
	out, err := fs.Apply(key, 7.5, form)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	doc := s.Document()
	site := doc.SpinSystems[0].Sites[0]
	require.NotNil(t, site.ShieldingSymmetric)
	assert.Equal(t, domain.Quantity(7.5), *site.ShieldingSymmetric.Zeta)
	assert.Equal(t, domain.Quantity(0.2), *site.ShieldingSymmetric.Eta)
}

func TestApplyUnchangedValueIsSkipped(t *testing.T) {
	_, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "zeta"}
	_, err := fs.Apply(key, 5.0, form)
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)
}

func TestApplyAbsentKeyEmptyValueIsSkipped(t *testing.T) {
	_, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Group: domain.GroupQuadrupolar, Attr: "Cq"}
	_, err := fs.Apply(key, "", form)
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)
}

func TestApplyPartialEulerTripleIsSuppressed(t *testing.T) {
	s, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "alpha"}
	_, err := fs.Apply(key, 0.5, form)
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)

	// Completing the triple goes through.
	form[domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "beta"}] = 0.1
	form[domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "gamma"}] = 0.2
	out, err := fs.Apply(key, 0.5, form)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	site := s.Document().SpinSystems[0].Sites[0]
	require.NotNil(t, site.ShieldingSymmetric.Alpha)
	assert.Equal(t, domain.Quantity(0.5), *site.ShieldingSymmetric.Alpha)
}

func TestApplyMagnitudeWithoutEtaIsSuppressed(t *testing.T) {
	s := newTestSession(nil)
	_, err := s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("27Al")})
	require.NoError(t, err)
	fs := NewFieldSync(s)
	fs.Select(0)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Group: domain.GroupQuadrupolar, Attr: "Cq"}
	_, err = fs.Apply(key, 3.2e6, form)
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)

	form[domain.FieldKey{Site: 0, Group: domain.GroupQuadrupolar, Attr: "eta"}] = 0.1
	out, err := fs.Apply(key, 3.2e6, form)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	site := s.Document().SpinSystems[0].Sites[0]
	require.NotNil(t, site.Quadrupolar)
	assert.Equal(t, domain.Quantity(3.2e6), *site.Quadrupolar.Cq)
}

func TestApplyEmptyIsotopeDropsSite(t *testing.T) {
	s, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	key := domain.FieldKey{Site: 0, Attr: "isotope"}
	out, err := fs.Apply(key, "", form)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	doc := s.Document()
	assert.Empty(t, doc.SpinSystems[0].Sites)
}

func TestApplyClearingPairPrunesGroup(t *testing.T) {
	s, fs := fieldSyncFixture(t)
	form := formSnapshot(t, fs)

	// Empty both members of the pair; group ends up removed entirely.
	form[domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "eta"}] = ""
	key := domain.FieldKey{Site: 0, Group: domain.GroupShielding, Attr: "zeta"}
	out, err := fs.Apply(key, "", form)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	site := s.Document().SpinSystems[0].Sites[0]
	assert.Nil(t, site.ShieldingSymmetric)
}

func TestEditorJSONRendersSelection(t *testing.T) {
	_, fs := fieldSyncFixture(t)

	text, err := fs.EditorJSON()
	require.NoError(t, err)
	assert.Contains(t, text, `"isotope": "13C"`)

	fs.Select(domain.NoIndex)
	_, err = fs.EditorJSON()
	assert.ErrorIs(t, err, domain.ErrSkipUpdate)
}
