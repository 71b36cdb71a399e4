// Package runtime is a tree-walking evaluator for checked scripts. It trusts
// the checker: shape assertions on values never carry user-facing recovery,
// and the only anticipated runtime failures are the declared ones of partial
// functions, caught by try/or.
package runtime

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rainbowlang/rainbow/src/check"
	"github.com/rainbowlang/rainbow/src/parse"
	"github.com/rainbowlang/rainbow/src/registry"
	"github.com/rainbowlang/rainbow/src/rerrors"
	"github.com/rainbowlang/rainbow/src/types"
)

// Effector performs calls to functions the host declared but did not
// implement in Go, typically signatures loaded from YAML. The effector
// decides what each declared effect tag means.
type Effector interface {
	Perform(fn *types.Function, call *Call) (any, error)
}

// Interp owns one signature table and the session bindings built on it. The
// table freezes on the first Check or Run; Define and SetGlobal are rejected
// after that.
type Interp struct {
	reg      *registry.Registry
	impls    map[string]Impl
	effector Effector
	stdout   io.Writer
	globals  *frame
	gtypes   map[string]types.Type
	frozen   sync.Once
}

// Option configures a new interpreter.
type Option func(*Interp)

// WithEffector routes unimplemented functions to the given effector.
func WithEffector(e Effector) Option {
	return func(in *Interp) { in.effector = e }
}

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(in *Interp) { in.stdout = w }
}

// New builds an interpreter with the prelude registered.
func New(opts ...Option) (*Interp, error) {
	in := &Interp{
		reg:    registry.New(),
		impls:  map[string]Impl{},
		stdout: os.Stdout,
		gtypes: map[string]types.Type{},
	}
	for _, opt := range opts {
		opt(in)
	}
	if err := registerPrelude(in); err != nil {
		return nil, err
	}
	return in, nil
}

// Registry exposes the signature table, for loading host signatures before
// the first script runs.
func (in *Interp) Registry() *registry.Registry { return in.reg }

// Define registers a signature together with its Go implementation.
func (in *Interp) Define(fn *types.Function, impl Impl) error {
	if err := in.reg.Register(fn); err != nil {
		return err
	}
	in.impls[fn.Name] = impl
	return nil
}

// SetGlobal binds a host value into scope under a name, typed by its shape.
func (in *Interp) SetGlobal(name string, val any) error {
	ty, err := TypeOf(val)
	if err != nil {
		return &rerrors.Error{Kind: rerrors.ConfigErr, Err: fmt.Errorf("global %q: %w", name, err)}
	}
	in.globals = in.globals.bind(name, val)
	in.gtypes[name] = ty
	return nil
}

// Globals returns a snapshot of the current session bindings and their types.
func (in *Interp) Globals() map[string]types.Type {
	globals := make(map[string]types.Type, len(in.gtypes))
	for name, ty := range in.gtypes {
		globals[name] = ty
	}
	return globals
}

// Freeze closes the signature table. Check and Run freeze implicitly.
func (in *Interp) Freeze() { in.frozen.Do(in.reg.Freeze) }

// Check parses and type checks a script without evaluating it.
func (in *Interp) Check(filename, src string) (*check.Result, error) {
	in.Freeze()
	terms, err := parse.ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	return check.Script(in.reg, terms, in.gtypes), nil
}

// Run parses, checks and evaluates a script. A script with type errors is
// refused whole; the check result is still returned so hosts can report the
// inferred effects alongside the errors.
func (in *Interp) Run(filename, src string) (any, *check.Result, error) {
	in.Freeze()
	terms, err := parse.ParseString(filename, src)
	if err != nil {
		return nil, nil, err
	}
	res := check.Script(in.reg, terms, in.gtypes)
	if !res.Ok() {
		return nil, res, res.Err()
	}
	var out any
	for _, term := range terms {
		if out, err = in.eval(check.ResolveBlocks(in.reg, term), in.globals); err != nil {
			return nil, res, err
		}
	}
	return out, res, nil
}

func runtimeErr(at parse.LineInfo, msg string, data ...any) error {
	return &rerrors.Error{
		Kind:   rerrors.RuntimeErr,
		Line:   at.Line,
		Column: at.Column,
		Err:    fmt.Errorf(msg, data...),
	}
}

func (in *Interp) eval(term parse.Term, env *frame) (any, error) {
	switch t := term.(type) {
	case *parse.NumberLit:
		return t.Val, nil
	case *parse.StringLit:
		return t.Val, nil
	case *parse.BoolLit:
		return t.Val, nil
	case *parse.ListLit:
		list := make([]any, 0, len(t.Elems))
		for _, elem := range t.Elems {
			val, err := in.eval(elem, env)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case *parse.RecordLit:
		rec := make(map[string]any, len(t.Entries))
		for _, entry := range t.Entries {
			val, err := in.eval(entry.Value, env)
			if err != nil {
				return nil, err
			}
			rec[entry.Name] = val
		}
		return rec, nil
	case *parse.Variable:
		return in.evalVariable(t, env)
	case *parse.BlockLit:
		return &Block{params: t.Params, body: t.Body, env: env}, nil
	case *parse.Apply:
		if t.Name() == "try" {
			return in.evalTryOr(t, env)
		}
		return in.apply(t, env)
	default:
		return nil, runtimeErr(term.Loc(), "cannot evaluate %v", term)
	}
}

func (in *Interp) evalVariable(t *parse.Variable, env *frame) (any, error) {
	val, ok := env.lookup(t.Path[0])
	if !ok {
		return nil, runtimeErr(t.LineInfo, "nothing named %q in scope", t.Path[0])
	}
	for _, seg := range t.Path[1:] {
		rec, isRec := val.(map[string]any)
		if !isRec {
			return nil, runtimeErr(t.LineInfo, "cannot take field %q of a %s", seg, TypeName(val))
		}
		if val, ok = rec[seg]; !ok {
			return nil, runtimeErr(t.LineInfo, "no field named %q", seg)
		}
	}
	return val, nil
}

func (in *Interp) apply(t *parse.Apply, env *frame) (any, error) {
	fn, ok := in.reg.Lookup(t.Name())
	if !ok {
		return nil, runtimeErr(t.LineInfo, "no function named %q", t.Name())
	}
	call := &Call{interp: in, fn: fn, args: map[string][]any{}}
	for _, arg := range t.Args {
		val, err := in.eval(arg.Value, env)
		if err != nil {
			return nil, err
		}
		call.args[arg.Keyword] = append(call.args[arg.Keyword], val)
	}
	if impl, ok := in.impls[fn.Name]; ok {
		return impl(call)
	}
	if in.effector != nil {
		return in.effector.Perform(fn, call)
	}
	return nil, runtimeErr(t.LineInfo, "no implementation or effector for %q", fn.Name)
}

// evalTryOr runs the try arm and falls back to the or arm only on a declared
// failure. Any other error aborts the script.
func (in *Interp) evalTryOr(t *parse.Apply, env *frame) (any, error) {
	tryArg, ok := t.Arg("try")
	if !ok {
		return nil, runtimeErr(t.LineInfo, "try/or without a try arm")
	}
	orArg, ok := t.Arg("or")
	if !ok {
		return nil, runtimeErr(t.LineInfo, "try/or without an or arm")
	}
	val, err := in.evalArm(tryArg.Value, env)
	if err == nil || !IsFailure(err) {
		return val, err
	}
	return in.evalArm(orArg.Value, env)
}

func (in *Interp) evalArm(arm parse.Term, env *frame) (any, error) {
	if blk, ok := arm.(*parse.BlockLit); ok && len(blk.Params) == 0 {
		return in.eval(blk.Body, env)
	}
	return in.eval(arm, env)
}
