package domain

// Event is the closed set of mutations a session document accepts.
// Exactly one event is processed per UI frame; concurrent triggers are
// not supported. Each kind carries its own typed payload.
type Event interface {
	// EventName identifies the kind for logging and dispatch tables.
	EventName() string
}

// ImportFile replaces the whole document with an uploaded file. Contents
// is the browser-style upload payload: a MIME-ish prefix, a comma, then
// base64-encoded JSON.
type ImportFile struct {
	Contents string
}

// ImportAddSystems parses an upload like ImportFile but appends its spin
// systems to the current document instead of replacing it.
type ImportAddSystems struct {
	Contents string
}

// ImportURL replaces the whole document with JSON fetched from a URL.
type ImportURL struct {
	URL string
}

// ImportExample replaces the whole document with a bundled example.
type ImportExample struct {
	Label string
}

// SystemModified replaces the spin system at Index.
type SystemModified struct {
	Index  int
	System SpinSystem
}

// SystemAdded appends a spin system.
type SystemAdded struct {
	System SpinSystem
}

// SystemDuplicated appends a copy of the spin system at Index.
type SystemDuplicated struct {
	Index int
}

// SystemDeleted removes the spin system at Index; subsequent indices
// shift down by one.
type SystemDeleted struct {
	Index int
}

// MethodModified replaces the method at Index. An attached experiment on
// the previous value is preserved.
type MethodModified struct {
	Index  int
	Method Method
}

// MethodAdded appends a method and an empty signal processor.
type MethodAdded struct {
	Method Method
}

// MethodDuplicated appends a copy of the method at Index and of its
// signal processor.
type MethodDuplicated struct {
	Index int
}

// MethodDeleted removes the method at Index and its signal processor.
type MethodDeleted struct {
	Index int
}

// ClearSystems empties the spin-system list.
type ClearSystems struct{}

// ClearMethods empties the method list and the signal processors.
type ClearMethods struct{}

// AttachExperiment decodes an uploaded spectrum and merges it into the
// method at MethodIndex, overwriting that method's spectral dimensions
// from the decoded data.
type AttachExperiment struct {
	MethodIndex int
	Contents    string
}

// SetDecompose updates the decompose display flag only.
type SetDecompose struct {
	Mode DecomposeMode
}

// SetSampleInfo updates the document name and description.
type SetSampleInfo struct {
	Name        string
	Description string
}

// SubmitProcessor replaces the signal processor of the method at
// MethodIndex with one assembled from the given operation widgets.
type SubmitProcessor struct {
	MethodIndex int
	Widgets     []OperationWidget
}

func (ImportFile) EventName() string       { return "import-file" }
func (ImportAddSystems) EventName() string { return "import-add-systems" }
func (ImportURL) EventName() string        { return "import-url" }
func (ImportExample) EventName() string    { return "import-example" }
func (SystemModified) EventName() string   { return "system-modified" }
func (SystemAdded) EventName() string      { return "system-added" }
func (SystemDuplicated) EventName() string { return "system-duplicated" }
func (SystemDeleted) EventName() string    { return "system-deleted" }
func (MethodModified) EventName() string   { return "method-modified" }
func (MethodAdded) EventName() string      { return "method-added" }
func (MethodDuplicated) EventName() string { return "method-duplicated" }
func (MethodDeleted) EventName() string    { return "method-deleted" }
func (ClearSystems) EventName() string     { return "clear-systems" }
func (ClearMethods) EventName() string     { return "clear-methods" }
func (AttachExperiment) EventName() string { return "attach-experiment" }
func (SetDecompose) EventName() string     { return "set-decompose" }
func (SetSampleInfo) EventName() string    { return "set-sample-info" }
func (SubmitProcessor) EventName() string  { return "submit-processor" }
