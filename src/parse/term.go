package parse

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Term is the closed sum of rainbow syntax tree nodes. Terms are
	// immutable once parsed; the coercion resolver builds new trees rather
	// than rewriting in place.
	Term interface {
		fmt.Stringer
		Loc() LineInfo
		isTerm()
	}
	// Arg is one keyword/term pair of an application.
	Arg struct {
		Keyword     string
		KeywordInfo LineInfo
		Value       Term
	}
	// Apply is a function call written as a chain of keyword/term pairs;
	// dispatch uses only the first keyword.
	Apply struct {
		LineInfo
		Args []Arg
	}
	// Variable is a dotted path; the first segment resolves against the
	// binding scope, the rest are record field lookups.
	Variable struct {
		LineInfo
		Path []string
	}
	// Entry is one name/term pair of a record literal.
	Entry struct {
		Name     string
		NameInfo LineInfo
		Value    Term
	}
	// RecordLit is a record literal with unique entry names.
	RecordLit struct {
		LineInfo
		Entries []Entry
	}
	// ListLit is a list literal.
	ListLit struct {
		LineInfo
		Elems []Term
	}
	// StringLit is a string literal.
	StringLit struct {
		LineInfo
		Val string
	}
	// NumberLit is a number literal.
	NumberLit struct {
		LineInfo
		Val float64
	}
	// BoolLit is a boolean literal.
	BoolLit struct {
		LineInfo
		Val bool
	}
	// BlockLit is a quoted term with zero or more named parameters.
	BlockLit struct {
		LineInfo
		Params []string
		Body   Term
	}
)

func (t *Apply) isTerm()     {}
func (t *Variable) isTerm()  {}
func (t *RecordLit) isTerm() {}
func (t *ListLit) isTerm()   {}
func (t *StringLit) isTerm() {}
func (t *NumberLit) isTerm() {}
func (t *BoolLit) isTerm()   {}
func (t *BlockLit) isTerm()  {}

// Name returns the dispatch name of the call.
func (t *Apply) Name() string { return t.Args[0].Keyword }

// Arg returns the first argument with the given keyword.
func (t *Apply) Arg(keyword string) (Arg, bool) {
	for _, arg := range t.Args {
		if arg.Keyword == keyword {
			return arg, true
		}
	}
	return Arg{}, false
}

// Entry returns the record entry with the given name.
func (t *RecordLit) Entry(name string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (t *Apply) String() string {
	parts := make([]string, len(t.Args))
	for i, arg := range t.Args {
		parts[i] = fmt.Sprintf("%s: %s", arg.Keyword, arg.Value)
	}
	return strings.Join(parts, " ")
}

func (t *Variable) String() string { return strings.Join(t.Path, ".") }

func (t *RecordLit) String() string {
	if len(t.Entries) == 0 {
		return "[=]"
	}
	parts := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		parts[i] = fmt.Sprintf("%s=%s", e.Name, e.Value)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (t *ListLit) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (t *StringLit) String() string { return strconv.Quote(t.Val) }
func (t *NumberLit) String() string { return strconv.FormatFloat(t.Val, 'g', -1, 64) }

func (t *BoolLit) String() string {
	if t.Val {
		return "true"
	}
	return "false"
}

func (t *BlockLit) String() string {
	if len(t.Params) == 0 {
		return fmt.Sprintf("{ %s }", t.Body)
	}
	return fmt.Sprintf("{ %s => %s }", strings.Join(t.Params, " "), t.Body)
}
