// Package events provides the scheduled-event table that is the binary
// contract between an ABC-SMC inference engine and its stochastic-simulator
// collaborator.
//
// An EventTable is a normalized, validated, strictly time-ordered set of
// Rows plus two auxiliary matrices:
//
//   - Select (E): a non-negative compartments×selectors matrix naming which
//     compartments an event draws individuals from.
//   - Shift (N): an integer compartments×shifts matrix naming the
//     per-compartment offsets a transfer event applies.
//
// Construction is strict: every field is range-checked, rows are sorted
// into execution order (time, kind, select), and calendar-date times are
// normalized to an integer offset from a caller-supplied origin day. All of
// this metadata — the date origin, whether event kinds arrived as strings
// or integers — is retained explicitly on the EventTable so that ToRows can
// render the table back in its original shape; nothing is inferred from
// hidden state on read.
//
// See NewEventTable for the full construction contract and RowLess for the
// exact ordering rule.
package events
