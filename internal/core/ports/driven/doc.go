// Package driven defines the interfaces the core requires from
// infrastructure: remote fetching, bundled examples, spectrum decoding,
// persistence and the external fitting collaborators. Adapters implement
// these; the core never imports an adapter.
package driven
