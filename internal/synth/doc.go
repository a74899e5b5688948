// Package synth builds regular expressions for display templates.
//
// Patterns are trees of nodes held in an Arena and referenced by index:
// literals, variant tags, slot captures, the lazy fallback, capability hints,
// rewritten raw fragments, sequences, optional and delimited repeats, and
// self scopes. Emission walks the tree once and produces a single pattern
// for Go's regexp package.
//
// Raw fragments supplied by the caller are parsed with regexp/syntax and
// rewritten by a pure tree walk: named groups become slot groups "v<N>" (or
// literal variant tags), and unnamed groups become non-capturing.
package synth
