package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

func newTestRouter() *Router {
	return NewRouter(NewImporter(nil, nil), nil)
}

func singleSiteSystem(isotope string) domain.SpinSystem {
	return domain.SpinSystem{
		Abundance: 100,
		Sites:     []domain.Site{{Isotope: domain.Isotope(isotope)}},
	}
}

func blochDecayMethod(channel string) domain.Method {
	return domain.Method{
		Name:     "BlochDecaySpectrum",
		Channels: []domain.Isotope{domain.Isotope(channel)},
		SpectralDimensions: []domain.SpectralDimension{{
			Count:           2048,
			SpectralWidth:   25000,
			ReferenceOffset: 0,
			Events: []domain.MethodEvent{{
				MagneticFluxDensity: 9.4,
				RotorFrequency:      14000,
			}},
		}},
	}
}

func TestReduceImportFileReplacesDocument(t *testing.T) {
	r := newTestRouter()
	payload := uploadPayload(t, `{"name": "glycine", "spin_systems": [], "methods": []}`)

	out, err := r.Reduce(context.Background(), domain.ImportFile{Contents: payload}, nil)
	require.NoError(t, err)
	assert.False(t, out.Failed())

	doc, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Equal(t, "glycine", doc.Name)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.True(t, delta.IsNewData)
	assert.Equal(t, 0, delta.IndexLastModified)

	// A whole-document replace refreshes every view.
	assert.True(t, out.Views.Systems.IsSet())
	assert.True(t, out.Views.Methods.IsSet())
	assert.True(t, out.Views.Sample.IsSet())
	assert.True(t, out.Views.SystemOptions.IsSet())
	assert.True(t, out.Views.MethodOptions.IsSet())
}

func TestReduceImportFileBadPayloadKeepsDocument(t *testing.T) {
	r := newTestRouter()

	out, err := r.Reduce(context.Background(), domain.ImportFile{Contents: "not-base64!!"}, nil)
	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Equal(t, "Error reading session file.", out.Message)
	assert.False(t, out.Doc.IsSet())
	assert.False(t, out.Delta.IsSet())
}

func TestReduceAddSystemOnEmptyWorkspace(t *testing.T) {
	r := newTestRouter()

	out, err := r.Reduce(context.Background(), domain.SystemAdded{System: singleSiteSystem("13C")}, nil)
	require.NoError(t, err)

	doc, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, doc.SpinSystems, 1)
	assert.NotEmpty(t, doc.SpinSystems[0].ID)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.True(t, delta.LengthChanged)
	assert.Equal(t, 0, delta.IndexLastModified)
	assert.Equal(t, []domain.Isotope{"13C"}, delta.Added)

	rows, ok := out.Views.Systems.Get()
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.SystemRow{Index: 0, Name: "", Abundance: 100.0, SiteCount: 1, Isotopes: "13C"}, rows[0])

	opts, ok := out.Views.SystemOptions.Get()
	require.True(t, ok)
	assert.Equal(t, []domain.Option{{Label: "0", Value: 0}}, opts)
}

func TestReduceDeleteSystemReportsRemovedIsotopes(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{
		SpinSystems: []domain.SpinSystem{
			singleSiteSystem("1H"),
			singleSiteSystem("27Al"),
			singleSiteSystem("13C"),
		},
	}

	out, err := r.Reduce(context.Background(), domain.SystemDeleted{Index: 1}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, next.SpinSystems, 2)
	assert.Equal(t, domain.Isotope("1H"), next.SpinSystems[0].Sites[0].Isotope)
	assert.Equal(t, domain.Isotope("13C"), next.SpinSystems[1].Sites[0].Isotope)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.True(t, delta.LengthChanged)
	assert.Equal(t, 1, delta.IndexLastModified)
	assert.Equal(t, []domain.Isotope{"27Al"}, delta.Removed)

	// The input document is not mutated.
	assert.Len(t, doc.SpinSystems, 3)
}

func TestReduceDeleteSystemOutOfRange(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{singleSiteSystem("1H")}}

	_, err := r.Reduce(context.Background(), domain.SystemDeleted{Index: 5}, doc)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestReduceEntityEventsWithoutDocumentAreNoOps(t *testing.T) {
	r := newTestRouter()

	for _, ev := range []domain.Event{
		domain.SystemModified{Index: 0, System: singleSiteSystem("1H")},
		domain.SystemDeleted{Index: 0},
		domain.SystemDuplicated{Index: 0},
		domain.MethodModified{Index: 0},
		domain.MethodDeleted{Index: 0},
		domain.MethodDuplicated{Index: 0},
		domain.ClearSystems{},
		domain.ClearMethods{},
		domain.SetDecompose{Mode: domain.DecomposeSpinSystem},
		domain.SetSampleInfo{Name: "x"},
	} {
		t.Run(ev.EventName(), func(t *testing.T) {
			out, err := r.Reduce(context.Background(), ev, nil)
			require.NoError(t, err)
			assert.False(t, out.Doc.IsSet())
			assert.False(t, out.Failed())
		})
	}
}

func TestReduceModifySystemPreservesID(t *testing.T) {
	r := newTestRouter()
	system := singleSiteSystem("1H")
	system.ID = "keep-me"
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{system}}

	edited := singleSiteSystem("1H")
	edited.Name = "renamed"
	out, err := r.Reduce(context.Background(), domain.SystemModified{Index: 0, System: edited}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Equal(t, "keep-me", next.SpinSystems[0].ID)
	assert.Equal(t, "renamed", next.SpinSystems[0].Name)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.False(t, delta.LengthChanged)
	assert.Equal(t, 0, delta.IndexLastModified)

	// Only the overview table refreshes on a targeted edit.
	assert.True(t, out.Views.Systems.IsSet())
	assert.False(t, out.Views.SystemOptions.IsSet())
	assert.False(t, out.Views.Sample.IsSet())
}

func TestReduceDuplicateSystemGetsFreshID(t *testing.T) {
	r := newTestRouter()
	system := singleSiteSystem("13C")
	system.ID = "original"
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{system}}

	out, err := r.Reduce(context.Background(), domain.SystemDuplicated{Index: 0}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, next.SpinSystems, 2)
	assert.NotEqual(t, "original", next.SpinSystems[1].ID)
	assert.NotEmpty(t, next.SpinSystems[1].ID)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.Equal(t, []domain.Isotope{"13C"}, delta.Added)
}

func TestReduceAddMethodAlignsProcessors(t *testing.T) {
	r := newTestRouter()

	out, err := r.Reduce(context.Background(), domain.MethodAdded{Method: blochDecayMethod("29Si")}, nil)
	require.NoError(t, err)

	doc, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, doc.Methods, 1)
	assert.Len(t, doc.SignalProcessors, 1)

	rows, ok := out.Views.Methods.Get()
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, 9.4, rows[0].FluxDensity)
	assert.Equal(t, 14.0, rows[0].RotorFrequency)

	opts, ok := out.Views.MethodOptions.Get()
	require.True(t, ok)
	assert.Equal(t, "Method-0 (Channel-29Si)", opts[0].Label)
}

func TestReduceDeleteMethodRemovesProcessor(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{
		Methods: []domain.Method{blochDecayMethod("1H"), blochDecayMethod("13C")},
		SignalProcessors: []domain.SignalProcessor{
			{Operations: []domain.Operation{{Function: domain.FnScale}}},
			{Operations: []domain.Operation{}},
		},
	}

	out, err := r.Reduce(context.Background(), domain.MethodDeleted{Index: 0}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, next.Methods, 1)
	require.Len(t, next.SignalProcessors, 1)
	assert.Empty(t, next.SignalProcessors[0].Operations)
}

func TestReduceModifyMethodKeepsExperiment(t *testing.T) {
	r := newTestRouter()
	method := blochDecayMethod("1H")
	method.ID = "mth-keep"
	method.Experiment = map[string]any{"csdm": map[string]any{"version": "1.0"}}
	doc := &domain.Document{Methods: []domain.Method{method}}

	edited := blochDecayMethod("1H")
	edited.Name = "edited"
	out, err := r.Reduce(context.Background(), domain.MethodModified{Index: 0, Method: edited}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Equal(t, "mth-keep", next.Methods[0].ID)
	assert.Equal(t, "edited", next.Methods[0].Name)
	assert.NotNil(t, next.Methods[0].Experiment)
}

func TestReduceClearMethodsEmptiesProcessors(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{
		Methods:          []domain.Method{blochDecayMethod("1H")},
		SignalProcessors: []domain.SignalProcessor{{Operations: []domain.Operation{}}},
	}

	out, err := r.Reduce(context.Background(), domain.ClearMethods{}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Empty(t, next.Methods)
	assert.Empty(t, next.SignalProcessors)

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.True(t, delta.IsNewData)
}

func TestReduceSetDecomposeTouchesConfigOnly(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{Name: "x"}

	out, err := r.Reduce(context.Background(), domain.SetDecompose{Mode: domain.DecomposeSpinSystem}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Equal(t, domain.DecomposeSpinSystem, next.Config.DecomposeSpectrum)
	assert.False(t, out.Delta.IsSet())
	assert.False(t, out.Views.Systems.IsSet())
	assert.False(t, out.Views.Sample.IsSet())
}

func TestReduceSetSampleInfo(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{Name: "old", Description: "old desc"}

	out, err := r.Reduce(context.Background(), domain.SetSampleInfo{Name: "new", Description: "new desc"}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	assert.Equal(t, "new", next.Name)

	info, ok := out.Views.Sample.Get()
	require.True(t, ok)
	assert.Equal(t, "new", info.Name)
	assert.Equal(t, "new desc", info.Description)
}

func TestReduceImportAddSystemsAppends(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{SpinSystems: []domain.SpinSystem{singleSiteSystem("1H")}}
	payload := uploadPayload(t, `{"spin_systems": [{"abundance": 100, "sites": [{"isotope": "13C"}]}]}`)

	out, err := r.Reduce(context.Background(), domain.ImportAddSystems{Contents: payload}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, next.SpinSystems, 2)
	assert.Equal(t, domain.Isotope("13C"), next.SpinSystems[1].Sites[0].Isotope)
}

type stubDecoder struct {
	spectrum *driven.Spectrum
	err      error
}

func (s stubDecoder) Decode(_ []byte) (*driven.Spectrum, error) {
	return s.spectrum, s.err
}

func TestReduceAttachExperimentOverwritesDimensions(t *testing.T) {
	decoder := stubDecoder{spectrum: &driven.Spectrum{
		Dimensions: []driven.SpectrumDimension{{
			Count:               4096,
			IncrementHz:         10,
			CoordinatesOffsetHz: -5000,
			OriginOffsetHz:      4e8,
		}},
		Dict: map[string]any{"csdm": map[string]any{"version": "1.0"}},
	}}
	r := NewRouter(NewImporter(nil, nil), decoder)
	doc := &domain.Document{Methods: []domain.Method{blochDecayMethod("1H")}}

	payload := uploadPayload(t, `{"csdm": {}}`)
	out, err := r.Reduce(context.Background(), domain.AttachExperiment{MethodIndex: 0, Contents: payload}, doc)
	require.NoError(t, err)
	assert.False(t, out.Failed())

	next, ok := out.Doc.Get()
	require.True(t, ok)
	method := next.Methods[0]
	assert.NotNil(t, method.Experiment)

	dim := method.SpectralDimensions[0]
	assert.Equal(t, 4096, dim.Count)
	assert.Equal(t, domain.Quantity(40960), dim.SpectralWidth)
	assert.Equal(t, domain.Quantity(-5000), dim.ReferenceOffset)
	assert.Equal(t, domain.Quantity(4e8), dim.OriginOffset)
}

func TestReduceAttachExperimentBadSpectrum(t *testing.T) {
	decoder := stubDecoder{err: domain.ErrParse}
	r := NewRouter(NewImporter(nil, nil), decoder)
	doc := &domain.Document{Methods: []domain.Method{blochDecayMethod("1H")}}

	payload := uploadPayload(t, `garbage`)
	out, err := r.Reduce(context.Background(), domain.AttachExperiment{MethodIndex: 0, Contents: payload}, doc)
	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Contains(t, out.Message, "Error reading file.")
	assert.False(t, out.Doc.IsSet())
}

func TestReduceSubmitProcessor(t *testing.T) {
	r := newTestRouter()
	doc := &domain.Document{Methods: []domain.Method{blochDecayMethod("1H")}}

	widgets := []domain.OperationWidget{{
		Function: domain.FnApodization,
		Index:    0,
		Op:       domain.Operation{Type: "Exponential", FWHM: "100 Hz"},
	}}
	out, err := r.Reduce(context.Background(), domain.SubmitProcessor{MethodIndex: 0, Widgets: widgets}, doc)
	require.NoError(t, err)

	next, ok := out.Doc.Get()
	require.True(t, ok)
	require.Len(t, next.SignalProcessors, 1)
	ops := next.SignalProcessors[0].Operations
	require.Len(t, ops, 3)
	assert.Equal(t, domain.FnIFFT, ops[0].Function)
	assert.Equal(t, domain.FnApodization, ops[1].Function)
	assert.Equal(t, domain.FnFFT, ops[2].Function)

	// Processor submission redraws nothing; only the delta moves.
	assert.False(t, out.Views.Methods.IsSet())
	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.Equal(t, 0, delta.IndexLastModified)
}
