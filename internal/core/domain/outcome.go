package domain

// Outcome is what one routed event produced. Every output channel is a
// Patch so "leave this untouched" is explicit rather than a sentinel
// convention. Message carries a user-visible error when a handler caught
// a failure and left the document unchanged.
type Outcome struct {
	Doc     Patch[*Document]
	Delta   Patch[MutationDelta]
	Views   DerivedViews
	Message string
}

// NoOp is the outcome equivalent to skipping the frame: nothing updates.
func NoOp() Outcome { return Outcome{} }

// Failed reports whether the event was rejected with a user-visible
// message.
func (o Outcome) Failed() bool { return o.Message != "" }
