package check

import (
	"fmt"
	"strings"

	"github.com/rainbowlang/rainbow/src/parse"
	"github.com/rainbowlang/rainbow/src/types"
)

// Code classifies a type error. Scripts with any error are rejected whole;
// codes let hosts and tests distinguish why.
type Code string

const (
	// UnknownIdentifier is a variable whose first segment has no binding.
	UnknownIdentifier Code = "UnknownIdentifier"
	// UnknownFunction is a call whose dispatch name has no signature.
	UnknownFunction Code = "UnknownFunction"
	// FieldMissing is a record navigation through an absent field.
	FieldMissing Code = "FieldMissing"
	// ElementTypeMismatch is a list literal whose elements disagree.
	ElementTypeMismatch Code = "ElementTypeMismatch"
	// ArityMismatch is a call with missing, repeated or unknown keywords.
	ArityMismatch Code = "ArityMismatch"
	// Mismatch is an argument or block body of the wrong type.
	Mismatch Code = "Mismatch"
	// BlockArityMismatch is a block declaring more parameters than its
	// context supplies inputs.
	BlockArityMismatch Code = "BlockArityMismatch"
	// UnhandledPartiality is a partial call outside a try arm.
	UnhandledPartiality Code = "UnhandledPartiality"
	// BranchTypeDivergence is a try/or whose arms do not mutually satisfy.
	BranchTypeDivergence Code = "BranchTypeDivergence"
)

// Error is one accumulated type error. Expected and Found are nil when the
// code carries no type pair, for example UnknownFunction.
type Error struct {
	Code     Code
	At       parse.LineInfo
	Expected types.Type
	Found    types.Type
	Detail   string
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type Error: %v: %v", e.At, e.Code)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Expected != nil && e.Found != nil {
		fmt.Fprintf(&sb, ": expected %v but found %v", e.Expected, e.Found)
	} else if e.Expected != nil {
		fmt.Fprintf(&sb, ": expected %v", e.Expected)
	} else if e.Found != nil {
		fmt.Fprintf(&sb, ": found %v", e.Found)
	}
	return sb.String()
}
