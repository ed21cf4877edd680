// Package cell provides the two value-holder primitives used around
// stabilized observations.
//
// Cell is a plain mutable holder with an owner-controlled lifetime. Writing
// a Cell triggers nothing: no notification, no re-computation, no timer. It
// is the right home for state that participates in resolution (cursors,
// counters, collaborator handles) without being an input to it.
//
// Signal is the opposite: an equality-gated observable value. Setting a
// Signal to a different value bumps its version and notifies watchers;
// setting it to an equal value does nothing. Signals are the usual input
// source for a stabilizer, attached via settle.Bind.
package cell
