// Package codes holds the stable, user-facing error codes the builder's
// structured violation descriptors translate to, the way
// user-facing-errors/src/common.rs attaches a UserFacingError::ERROR_CODE
// to a descriptor struct. This package never renders message text — that
// remains an external renderer's job (spec §6, Non-goal: rendering).
package codes

import "github.com/entquery/nestedwrite/querygraph"

const (
	// P2025 MissingRelatedRecord: a read/update that was expected to
	// produce at least one row produced none.
	P2025 = "P2025"
	// P2014 RelationViolation: a write would orphan a required side of a
	// relation.
	P2014 = "P2014"
	// P2016 QueryInterpretationError: a malformed expectation reached the
	// translator (should not happen for a correctly built graph; kept as
	// the catch-all the Rust engine also falls back to).
	P2016 = "P2016"
)

// Translate maps a violated expectation to one of the three stable codes.
// The Violation itself carries no code-selection information today — it is
// threaded through so a future connector-specific renderer can distinguish
// e.g. a to-one relation's P2025 from a unique-constraint P2025 — but the
// kind alone determines the code for every expectation this builder emits.
func Translate(v querygraph.Violation, expectationKind querygraph.ExpectationKind) string {
	switch expectationKind {
	case querygraph.NonEmptyRows:
		return P2025
	case querygraph.EmptyRows:
		return P2014
	default:
		return P2016
	}
}
