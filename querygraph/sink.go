package querygraph

import "github.com/entquery/nestedwrite/schema"

// Named sink slots, mirroring the Rust inputs::{IfInput, ReturnInput,
// LeftSideDiffInput, RightSideDiffInput, UpdateManyRecordsSelectorsInput,
// UpdateOrCreateArgsInput} unit-struct tags used throughout
// connect_or_create_nested.rs.
const (
	SlotIfInput                    = "IfInput"
	SlotReturnInput                = "ReturnInput"
	SlotLeftSideDiffInput          = "LeftSideDiffInput"
	SlotRightSideDiffInput         = "RightSideDiffInput"
	SlotUpdateManyRecordsSelectors = "UpdateManyRecordsSelectorsInput"
	SlotUpdateOrCreateArgs         = "UpdateOrCreateArgsInput"
)

// SinkKind is how a target node absorbs projected rows (spec §3).
type SinkKind int

const (
	SinkAll SinkKind = iota
	SinkExactlyOne
	SinkAtMostOne
	SinkExactlyOneWriteArgs
)

// Sink describes the target side of a ProjectedDataSinkDependency edge.
type Sink struct {
	Kind SinkKind
	Slot string

	// LinkingFields names the write-arg columns an ExactlyOneWriteArgs sink
	// binds the one projected row's values under. Empty for every other
	// Kind.
	LinkingFields []*schema.Field
}

// All builds an All(slot) sink: every projected row is appended.
func All(slot string) Sink { return Sink{Kind: SinkAll, Slot: slot} }

// ExactlyOne builds an ExactlyOne(slot) sink: exactly one row, else an
// expectation violation.
func ExactlyOne(slot string) Sink { return Sink{Kind: SinkExactlyOne, Slot: slot} }

// AtMostOne builds an AtMostOne(slot) sink: zero or one row.
func AtMostOne(slot string) Sink { return Sink{Kind: SinkAtMostOne, Slot: slot} }

// ExactlyOneWriteArgs builds a sink that binds the one projected row's
// values as write arguments under linkingFields on the target write node.
func ExactlyOneWriteArgs(linkingFields []*schema.Field, slot string) Sink {
	return Sink{Kind: SinkExactlyOneWriteArgs, Slot: slot, LinkingFields: linkingFields}
}
