package querygraph

import "github.com/entquery/nestedwrite/schema"

// ExpectationKind is a row-count assertion attached to a data-carrying edge
// (spec §3, §7).
type ExpectationKind int

const (
	NonEmptyRows ExpectationKind = iota
	EmptyRows
)

func (k ExpectationKind) String() string {
	if k == EmptyRows {
		return "EmptyRows"
	}
	return "NonEmptyRows"
}

// Violation is a descriptor carrying the model, relation, dependent
// operation and parent operation names used to render a user-facing error.
// The builder never renders the message itself (spec §6, §10 of
// SPEC_FULL.md) — only this structured payload.
type Violation struct {
	Model              *schema.Model
	Relation           *schema.Relation
	DependentOperation string
	ParentOperation    string
}

// Expectation pairs a row-count assertion with the Violation it produces
// when the assertion fails at executor time.
type Expectation struct {
	Kind      ExpectationKind
	Violation Violation
}

// NonEmptyExpectation builds a NonEmptyRows expectation.
func NonEmptyExpectation(v Violation) *Expectation {
	return &Expectation{Kind: NonEmptyRows, Violation: v}
}

// EmptyExpectation builds an EmptyRows expectation.
func EmptyExpectation(v Violation) *Expectation {
	return &Expectation{Kind: EmptyRows, Violation: v}
}
