// Package types contains the five type shapes of the rainbow language and
// the structural satisfaction relation between them. Satisfaction is read as
// "a value declared as the right type may be used where the left type is
// expected". All type values are finite trees built once and never mutated,
// so the relation always terminates.
package types

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// Kind names one of the primitive types.
	Kind string
	// Type is the closed sum of all rainbow type shapes. Every consumer
	// switches exhaustively over the concrete shapes; adding a shape is a
	// compile-time obligation at each switch.
	Type interface {
		fmt.Stringer
		isType()
	}
	// Primitive is a primitive type; primitives only satisfy themselves.
	Primitive struct{ Kind Kind }
	// List is a homogeneously typed list; the element is covariant.
	List struct{ Elem Type }
	// Field is one record field. The field set of a record is fixed once
	// constructed.
	Field struct {
		Name     string
		Type     Type
		Optional bool
	}
	// Record maps a fixed set of field names to types; satisfaction is by
	// width subtyping over the required fields of the expected side.
	Record struct{ Fields []Field }
	// Block is a quoted term typed by its ordered inputs and its output.
	Block struct {
		Inputs []Type
		Output Type
	}
	// Param is one keyword parameter of a host function.
	Param struct {
		Name     string
		Type     Type
		Variadic bool
		Optional bool
	}
	// Function is the type of a host-registered function. Only the signature
	// table produces Function values; functions are not first class and no
	// satisfaction relation is defined over them.
	Function struct {
		Name    string
		Params  []Param
		Output  Type
		Partial bool
		Effects EffectSet
	}
	neverType struct{}
)

const (
	// KindNumber is the number primitive.
	KindNumber Kind = "number"
	// KindString is the string primitive.
	KindString Kind = "string"
	// KindBoolean is the boolean primitive.
	KindBoolean Kind = "boolean"
	// KindTime is the time primitive.
	KindTime Kind = "time"
)

var (
	// Number is the number primitive type.
	Number = &Primitive{Kind: KindNumber}
	// String is the string primitive type.
	String = &Primitive{Kind: KindString}
	// Boolean is the boolean primitive type.
	Boolean = &Primitive{Kind: KindBoolean}
	// Time is the time primitive type.
	Time = &Primitive{Kind: KindTime}
	// Never is the bottom type. It is the element type of an empty list
	// literal: it satisfies every expectation and is satisfied by nothing
	// but itself.
	Never Type = &neverType{}
)

func (t *Primitive) isType() {}
func (t *List) isType()      {}
func (t *Record) isType()    {}
func (t *Block) isType()     {}
func (t *Function) isType()  {}
func (t *neverType) isType() {}

// ListOf builds a list type with the given element type.
func ListOf(elem Type) *List { return &List{Elem: elem} }

// Quoted builds a zero-input block type producing the given type.
func Quoted(out Type) *Block { return &Block{Output: out} }

// BlockOf builds a block type from input types to an output type.
func BlockOf(out Type, inputs ...Type) *Block { return &Block{Inputs: inputs, Output: out} }

// RecordOf builds a record type from fields. Duplicate names keep the first
// occurrence.
func RecordOf(fields ...Field) *Record {
	rec := &Record{}
	for _, f := range fields {
		if _, ok := rec.Field(f.Name); !ok {
			rec.Fields = append(rec.Fields, f)
		}
	}
	return rec
}

// Field looks up a field by name.
func (t *Record) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Param looks up a parameter by keyword name.
func (t *Function) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Satisfies reports whether a value declared as right may be used where left
// is expected. The relation is structural and performs no coercion; block
// coercion is a syntactic rewrite that happens before any satisfaction check.
func Satisfies(left, right Type) bool {
	if _, bottom := right.(*neverType); bottom {
		return true
	}
	switch l := left.(type) {
	case *neverType:
		return false
	case *Primitive:
		r, ok := right.(*Primitive)
		return ok && l.Kind == r.Kind
	case *List:
		r, ok := right.(*List)
		return ok && Satisfies(l.Elem, r.Elem)
	case *Record:
		r, ok := right.(*Record)
		if !ok {
			return false
		}
		for _, f := range l.Fields {
			if f.Optional {
				continue
			}
			rf, present := r.Field(f.Name)
			if !present || rf.Optional || !Satisfies(f.Type, rf.Type) {
				return false
			}
		}
		return true
	case *Block:
		// A block needing fewer inputs may stand in for one expecting more.
		// The input direction below is the language's definition, not classic
		// contravariance.
		r, ok := right.(*Block)
		if !ok || len(r.Inputs) > len(l.Inputs) {
			return false
		}
		for i, in := range r.Inputs {
			if !Satisfies(l.Inputs[i], in) {
				return false
			}
		}
		return Satisfies(l.Output, r.Output)
	case *Function:
		return false
	default:
		return false
	}
}

func (t *Primitive) String() string { return string(t.Kind) }
func (t *neverType) String() string { return "never" }
func (t *List) String() string      { return fmt.Sprintf("[ %s... ]", t.Elem) }

func (t *Record) String() string {
	if len(t.Fields) == 0 {
		return "[=]"
	}
	fields := make([]Field, len(t.Fields))
	copy(fields, t.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Optional != fields[j].Optional {
			return !fields[i].Optional
		}
		return fields[i].Name < fields[j].Name
	})
	var sb strings.Builder
	sb.WriteString("[")
	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		if f.Optional {
			sb.WriteString("?")
		}
		sb.WriteString("=")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString(" ]")
	return sb.String()
}

func (t *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, in := range t.Inputs {
		sb.WriteString(in.String())
		sb.WriteString(" ")
	}
	if len(t.Inputs) > 0 {
		sb.WriteString("=> ")
	}
	sb.WriteString(t.Output.String())
	sb.WriteString(" }")
	return sb.String()
}

func (t *Function) String() string {
	var sb strings.Builder
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		if p.Variadic {
			sb.WriteString("[")
			sb.WriteString(p.Name)
			sb.WriteString("]")
		} else {
			sb.WriteString(p.Name)
		}
		if p.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(" :: ")
	sb.WriteString(t.Output.String())
	if t.Partial {
		sb.WriteString(" partial")
	}
	if t.Effects.Len() > 0 {
		sb.WriteString(" ")
		sb.WriteString(t.Effects.String())
	}
	return sb.String()
}
