package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// User-visible messages for caught import failures. The document is
// always left at its previous value when one of these is reported.
const (
	msgBadSession  = "Error reading session file."
	msgBadURL      = "Error reading the file."
	msgBadSpectrum = "Error reading file."
)

// Router selects exactly one mutation handler per event and returns the
// new document plus a delta describing what changed. Handlers never
// mutate their input: the previous document is cloned before any write,
// so no reader can observe a half-applied change.
type Router struct {
	importer *Importer
	decoder  driven.SpectrumDecoder
}

// NewRouter creates a router. The decoder may be nil when experiment
// attachment is not wired.
func NewRouter(importer *Importer, decoder driven.SpectrumDecoder) *Router {
	return &Router{importer: importer, decoder: decoder}
}

// Reduce routes one event against the current document. Events that need
// a document when none is loaded reduce to a no-op outcome. Caught
// import failures return an outcome carrying a user-visible message and
// no document patch. Errors are reserved for programming mistakes such
// as an out-of-range index.
func (r *Router) Reduce(ctx context.Context, ev domain.Event, doc *domain.Document) (domain.Outcome, error) {
	logger.Debug("reduce %s", ev.EventName())

	switch ev := ev.(type) {
	case domain.ImportFile:
		next, err := r.importer.FromUpload(ev.Contents)
		if err != nil {
			return caught(msgBadSession, err), nil
		}
		return Replace(next), nil

	case domain.ImportURL:
		next, err := r.importer.FromURL(ctx, ev.URL)
		if domain.IsSkip(err) {
			return domain.NoOp(), nil
		}
		if err != nil {
			return caught(msgBadURL, err), nil
		}
		return Replace(next), nil

	case domain.ImportExample:
		next, err := r.importer.FromExample(ev.Label)
		if domain.IsSkip(err) {
			return domain.NoOp(), nil
		}
		if err != nil {
			return caught(msgBadURL, err), nil
		}
		return Replace(next), nil

	case domain.ImportAddSystems:
		parsed, err := r.importer.FromUpload(ev.Contents)
		if err != nil {
			return caught(msgBadSession, err), nil
		}
		next := ensureDocument(doc)
		next.SpinSystems = append(next.SpinSystems, parsed.SpinSystems...)
		return Replace(next), nil

	case domain.SystemModified:
		return r.modifySystem(doc, ev)

	case domain.SystemAdded:
		return r.addSystem(doc, ev.System, true)

	case domain.SystemDuplicated:
		if doc == nil {
			return domain.NoOp(), nil
		}
		if ev.Index < 0 || ev.Index >= len(doc.SpinSystems) {
			return domain.NoOp(), fmt.Errorf("duplicate spin system %d: %w", ev.Index, domain.ErrIndexOutOfRange)
		}
		copied := doc.SpinSystems[ev.Index].Clone()
		copied.ID = uuid.NewString()
		return r.addSystem(doc, copied, false)

	case domain.SystemDeleted:
		return r.deleteSystem(doc, ev.Index)

	case domain.MethodModified:
		return r.modifyMethod(doc, ev)

	case domain.MethodAdded:
		return r.addMethod(doc, ev.Method, true)

	case domain.MethodDuplicated:
		if doc == nil {
			return domain.NoOp(), nil
		}
		if ev.Index < 0 || ev.Index >= len(doc.Methods) {
			return domain.NoOp(), fmt.Errorf("duplicate method %d: %w", ev.Index, domain.ErrIndexOutOfRange)
		}
		copied := doc.Methods[ev.Index].Clone()
		copied.ID = uuid.NewString()
		next := doc.Clone()
		next.Methods = append(next.Methods, copied)
		if ev.Index < len(next.SignalProcessors) {
			next.SignalProcessors = append(next.SignalProcessors, next.SignalProcessors[ev.Index].Clone())
		}
		alignProcessors(next)
		delta := domain.NewDelta()
		delta.LengthChanged = true
		delta.IndexLastModified = len(next.Methods) - 1
		return methodOutcome(next, delta), nil

	case domain.MethodDeleted:
		return r.deleteMethod(doc, ev.Index)

	case domain.ClearSystems:
		if doc == nil {
			return domain.NoOp(), nil
		}
		next := doc.Clone()
		next.SpinSystems = []domain.SpinSystem{}
		return Replace(next), nil

	case domain.ClearMethods:
		if doc == nil {
			return domain.NoOp(), nil
		}
		next := doc.Clone()
		next.Methods = []domain.Method{}
		next.SignalProcessors = []domain.SignalProcessor{}
		return Replace(next), nil

	case domain.AttachExperiment:
		return r.attachExperiment(doc, ev)

	case domain.SetDecompose:
		if doc == nil {
			return domain.NoOp(), nil
		}
		next := doc.Clone()
		next.Config.DecomposeSpectrum = ev.Mode
		return domain.Outcome{Doc: domain.Update(next)}, nil

	case domain.SetSampleInfo:
		if doc == nil {
			return domain.NoOp(), nil
		}
		next := doc.Clone()
		next.Name = ev.Name
		next.Description = ev.Description
		return domain.Outcome{
			Doc:   domain.Update(next),
			Views: domain.DerivedViews{Sample: domain.Update(BuildSampleInfo(next))},
		}, nil

	case domain.SubmitProcessor:
		return r.submitProcessor(doc, ev)

	default:
		return domain.NoOp(), fmt.Errorf("%T: %w", ev, domain.ErrUnknownEvent)
	}
}

// Replace is the assemble path: the whole document was swapped out, every
// derived view refreshes and the delta marks new data.
func Replace(doc *domain.Document) domain.Outcome {
	return domain.Outcome{
		Doc:   domain.Update(doc),
		Delta: domain.Update(domain.AssembledDelta()),
		Views: AllViews(doc),
	}
}

// caught converts a handled failure into a user-visible message with no
// document patch.
func caught(msg string, err error) domain.Outcome {
	logger.Warn("import rejected: %v", err)
	return domain.Outcome{Message: msg}
}

// ensureDocument returns a clone of doc, or a fresh default document
// when none is loaded yet.
func ensureDocument(doc *domain.Document) *domain.Document {
	if doc == nil {
		fresh := &domain.Document{Name: "", Description: ""}
		fillDocument(fresh)
		return fresh
	}
	return doc.Clone()
}

func (r *Router) modifySystem(doc *domain.Document, ev domain.SystemModified) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	next := doc.Clone()
	if ev.Index < 0 || ev.Index >= len(next.SpinSystems) {
		return domain.NoOp(), fmt.Errorf("modify spin system %d: %w", ev.Index, domain.ErrIndexOutOfRange)
	}
	system := ev.System
	if system.ID == "" {
		system.ID = next.SpinSystems[ev.Index].ID
	}
	next.SpinSystems[ev.Index] = system

	delta := domain.NewDelta()
	delta.IndexLastModified = ev.Index
	return domain.Outcome{
		Doc:   domain.Update(next),
		Delta: domain.Update(delta),
		Views: domain.DerivedViews{Systems: domain.Update(SystemOverview(next))},
	}, nil
}

func (r *Router) addSystem(doc *domain.Document, system domain.SpinSystem, fresh bool) (domain.Outcome, error) {
	next := ensureDocument(doc)
	if fresh && system.ID == "" {
		system.ID = uuid.NewString()
	}
	next.SpinSystems = append(next.SpinSystems, system)

	delta := domain.NewDelta()
	delta.LengthChanged = true
	delta.Added = system.Isotopes()
	delta.IndexLastModified = len(next.SpinSystems) - 1
	return systemOutcome(next, delta), nil
}

func (r *Router) deleteSystem(doc *domain.Document, index int) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	if index < 0 || index >= len(doc.SpinSystems) {
		return domain.NoOp(), fmt.Errorf("delete spin system %d: %w", index, domain.ErrIndexOutOfRange)
	}
	next := doc.Clone()

	delta := domain.NewDelta()
	delta.LengthChanged = true
	delta.Removed = next.SpinSystems[index].Isotopes()
	delta.IndexLastModified = index

	next.SpinSystems = append(next.SpinSystems[:index], next.SpinSystems[index+1:]...)
	return systemOutcome(next, delta), nil
}

func (r *Router) modifyMethod(doc *domain.Document, ev domain.MethodModified) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	next := doc.Clone()
	if ev.Index < 0 || ev.Index >= len(next.Methods) {
		return domain.NoOp(), fmt.Errorf("modify method %d: %w", ev.Index, domain.ErrIndexOutOfRange)
	}
	method := ev.Method
	prev := next.Methods[ev.Index]
	if method.ID == "" {
		method.ID = prev.ID
	}
	// A previously attached measurement survives a form edit.
	if method.Experiment == nil && prev.Experiment != nil {
		method.Experiment = prev.Experiment
	}
	next.Methods[ev.Index] = method

	delta := domain.NewDelta()
	delta.IndexLastModified = ev.Index
	return domain.Outcome{
		Doc:   domain.Update(next),
		Delta: domain.Update(delta),
		Views: domain.DerivedViews{Methods: domain.Update(MethodOverview(next))},
	}, nil
}

func (r *Router) addMethod(doc *domain.Document, method domain.Method, fresh bool) (domain.Outcome, error) {
	next := ensureDocument(doc)
	if fresh && method.ID == "" {
		method.ID = uuid.NewString()
	}
	next.Methods = append(next.Methods, method)
	alignProcessors(next)

	delta := domain.NewDelta()
	delta.LengthChanged = true
	delta.IndexLastModified = len(next.Methods) - 1
	return methodOutcome(next, delta), nil
}

func (r *Router) deleteMethod(doc *domain.Document, index int) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	if index < 0 || index >= len(doc.Methods) {
		return domain.NoOp(), fmt.Errorf("delete method %d: %w", index, domain.ErrIndexOutOfRange)
	}
	next := doc.Clone()
	next.Methods = append(next.Methods[:index], next.Methods[index+1:]...)
	if index < len(next.SignalProcessors) {
		next.SignalProcessors = append(next.SignalProcessors[:index], next.SignalProcessors[index+1:]...)
	}
	alignProcessors(next)

	delta := domain.NewDelta()
	delta.LengthChanged = true
	delta.IndexLastModified = index
	return methodOutcome(next, delta), nil
}

func (r *Router) attachExperiment(doc *domain.Document, ev domain.AttachExperiment) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	if ev.MethodIndex < 0 || ev.MethodIndex >= len(doc.Methods) {
		return domain.NoOp(), fmt.Errorf("attach experiment to method %d: %w", ev.MethodIndex, domain.ErrIndexOutOfRange)
	}
	if r.decoder == nil {
		return caught(msgBadSpectrum, fmt.Errorf("no spectrum decoder configured")), nil
	}

	raw, err := DecodeUpload(ev.Contents)
	if err != nil {
		return caught(fmt.Sprintf("%s %v", msgBadSpectrum, err), err), nil
	}
	spectrum, err := r.decoder.Decode(raw)
	if err != nil {
		return caught(fmt.Sprintf("%s %v", msgBadSpectrum, err), err), nil
	}

	next := doc.Clone()
	method := &next.Methods[ev.MethodIndex]
	method.Experiment = spectrum.Dict
	for i, dim := range spectrum.Dimensions {
		if i >= len(method.SpectralDimensions) {
			break
		}
		sd := &method.SpectralDimensions[i]
		sd.Count = dim.Count
		sd.SpectralWidth = domain.Quantity(float64(dim.Count) * dim.IncrementHz)
		sd.ReferenceOffset = domain.Quantity(dim.CoordinatesOffsetHz)
		sd.OriginOffset = domain.Quantity(dim.OriginOffsetHz)
	}

	delta := domain.NewDelta()
	delta.IndexLastModified = ev.MethodIndex
	return domain.Outcome{
		Doc:   domain.Update(next),
		Delta: domain.Update(delta),
		Views: domain.DerivedViews{Methods: domain.Update(MethodOverview(next))},
	}, nil
}

func (r *Router) submitProcessor(doc *domain.Document, ev domain.SubmitProcessor) (domain.Outcome, error) {
	if doc == nil {
		return domain.NoOp(), nil
	}
	if ev.MethodIndex < 0 || ev.MethodIndex >= len(doc.Methods) {
		return domain.NoOp(), fmt.Errorf("submit processor for method %d: %w", ev.MethodIndex, domain.ErrIndexOutOfRange)
	}
	next := doc.Clone()
	alignProcessors(next)
	nDims := len(next.Methods[ev.MethodIndex].SpectralDimensions)
	next.SignalProcessors[ev.MethodIndex] = AssembleProcessor(nDims, ev.Widgets)

	delta := domain.NewDelta()
	delta.IndexLastModified = ev.MethodIndex
	return domain.Outcome{
		Doc:   domain.Update(next),
		Delta: domain.Update(delta),
	}, nil
}

func systemOutcome(doc *domain.Document, delta domain.MutationDelta) domain.Outcome {
	return domain.Outcome{
		Doc:   domain.Update(doc),
		Delta: domain.Update(delta),
		Views: systemViews(doc),
	}
}

func methodOutcome(doc *domain.Document, delta domain.MutationDelta) domain.Outcome {
	return domain.Outcome{
		Doc:   domain.Update(doc),
		Delta: domain.Update(delta),
		Views: methodViews(doc),
	}
}
