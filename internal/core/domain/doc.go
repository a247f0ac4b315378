// Package domain defines the core entities of spindraft: the simulation
// session document (spin systems, methods, signal processors), the closed
// set of mutation events that may change it, the per-mutation delta, and
// the fit-parameter model.
//
// The document is the single shared-state root of a session. Everything
// else in this package is either a substructure owned by the document or
// an ephemeral value computed from it.
package domain
