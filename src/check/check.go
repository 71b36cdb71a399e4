// Package check implements the static pass over parsed scripts: implicit
// block resolution, type inference and checking, the partiality guard and
// effect aggregation. Checking never evaluates anything; a script that checks
// clean cannot fail at runtime except inside functions declared partial.
package check

import (
	"errors"
	"fmt"

	"github.com/rainbowlang/rainbow/src/conf"
	"github.com/rainbowlang/rainbow/src/parse"
	"github.com/rainbowlang/rainbow/src/registry"
	"github.com/rainbowlang/rainbow/src/types"
)

const (
	tryName = "try"
	orName  = "or"
)

// Result is the outcome of checking one script.
type Result struct {
	// Output is the type of the script's final term, nil when that term
	// failed to check.
	Output types.Type
	// Effects is the union of the declared effects of every call in the
	// script, a static upper bound on what evaluation may perform.
	Effects types.EffectSet
	// Errors holds every accumulated type error, capped at conf.MAXERRORS.
	Errors []*Error
}

// Ok reports whether the script checked without errors.
func (r *Result) Ok() bool { return len(r.Errors) == 0 }

// Err joins every accumulated error, or nil for a clean script.
func (r *Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, err := range r.Errors {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// Script resolves implicit blocks in every term, then checks them in order.
// Globals are the host-provided bindings visible to the whole script. Errors
// are accumulated best effort: a failed subterm yields no type but its
// siblings are still checked.
func Script(reg *registry.Registry, terms []parse.Term, globals map[string]types.Type) *Result {
	c := &checker{reg: reg, effects: types.Effects()}
	var env *scope
	for name, ty := range globals {
		env = env.bind(name, ty)
	}
	var last types.Type
	for _, term := range terms {
		last = c.check(ResolveBlocks(reg, term), env, false)
	}
	return &Result{Output: last, Effects: c.effects, Errors: c.errs}
}

type checker struct {
	reg     *registry.Registry
	effects types.EffectSet
	errs    []*Error
}

func (c *checker) report(err *Error) {
	if len(c.errs) < conf.MAXERRORS {
		c.errs = append(c.errs, err)
	}
}

func (c *checker) errorf(code Code, at parse.LineInfo, msg string, data ...any) {
	c.report(&Error{Code: code, At: at, Detail: fmt.Sprintf(msg, data...)})
}

func (c *checker) mismatch(at parse.LineInfo, expected, found types.Type) {
	c.report(&Error{Code: Mismatch, At: at, Expected: expected, Found: found})
}

// check returns the type of a term, or nil when an error was reported for it.
// guarded is true only for the direct try arm of a try/or, where a partial
// call is allowed.
func (c *checker) check(term parse.Term, env *scope, guarded bool) types.Type {
	switch t := term.(type) {
	case *parse.NumberLit:
		return types.Number
	case *parse.StringLit:
		return types.String
	case *parse.BoolLit:
		return types.Boolean
	case *parse.ListLit:
		return c.checkList(t, env)
	case *parse.RecordLit:
		return c.checkRecord(t, env)
	case *parse.Variable:
		return c.checkVariable(t, env)
	case *parse.BlockLit:
		return c.checkBlock(t, env)
	case *parse.Apply:
		if t.Name() == tryName {
			return c.checkTryOr(t, env)
		}
		return c.checkApply(t, env, guarded)
	default:
		c.errorf(Mismatch, term.Loc(), "unsupported term %v", term)
		return nil
	}
}

// checkList takes the first element as representative and requires every
// other element to satisfy it. An empty literal is a list of never, which any
// list expectation accepts.
func (c *checker) checkList(t *parse.ListLit, env *scope) types.Type {
	var elem types.Type
	for _, el := range t.Elems {
		ty := c.check(el, env, false)
		if ty == nil {
			continue
		}
		if elem == nil {
			elem = ty
			continue
		}
		if !types.Satisfies(elem, ty) {
			c.report(&Error{Code: ElementTypeMismatch, At: el.Loc(), Expected: elem, Found: ty})
		}
	}
	if elem == nil && len(t.Elems) > 0 {
		return nil
	}
	if elem == nil {
		elem = types.Never
	}
	return types.ListOf(elem)
}

// checkRecord types every entry; all literal fields are required.
func (c *checker) checkRecord(t *parse.RecordLit, env *scope) types.Type {
	fields := make([]types.Field, 0, len(t.Entries))
	failed := false
	for _, entry := range t.Entries {
		ty := c.check(entry.Value, env, false)
		if ty == nil {
			failed = true
			continue
		}
		fields = append(fields, types.Field{Name: entry.Name, Type: ty})
	}
	if failed {
		return nil
	}
	return types.RecordOf(fields...)
}

// checkVariable resolves the head against the scope and walks the remaining
// segments as record fields.
func (c *checker) checkVariable(t *parse.Variable, env *scope) types.Type {
	ty, ok := env.lookup(t.Path[0])
	if !ok {
		c.errorf(UnknownIdentifier, t.LineInfo, "nothing named %q in scope", t.Path[0])
		return nil
	}
	for _, seg := range t.Path[1:] {
		rec, isRec := ty.(*types.Record)
		if !isRec {
			c.report(&Error{Code: Mismatch, At: t.LineInfo, Found: ty,
				Detail: fmt.Sprintf("cannot take field %q of a non-record", seg)})
			return nil
		}
		// Optional fields cannot be navigated; their value may be absent.
		field, present := rec.Field(seg)
		if !present || field.Optional {
			c.report(&Error{Code: FieldMissing, At: t.LineInfo, Found: ty,
				Detail: fmt.Sprintf("no required field named %q", seg)})
			return nil
		}
		ty = field.Type
	}
	return ty
}

// checkBlock handles a block in value position, with no expectation to bind
// its parameters against. Only parameterless blocks have a type there.
func (c *checker) checkBlock(t *parse.BlockLit, env *scope) types.Type {
	if len(t.Params) > 0 {
		c.errorf(Mismatch, t.LineInfo, "a block with parameters needs a context that supplies its inputs")
		return nil
	}
	out := c.check(t.Body, env, false)
	if out == nil {
		return nil
	}
	return types.Quoted(out)
}

// checkBlockArg checks a block literal against the block type its position
// expects, binding its parameters to the expected inputs in order.
func (c *checker) checkBlockArg(t *parse.BlockLit, expected *types.Block, env *scope) types.Type {
	if len(t.Params) > len(expected.Inputs) {
		c.report(&Error{Code: BlockArityMismatch, At: t.LineInfo, Expected: expected,
			Detail: fmt.Sprintf("block declares %d parameters but at most %d inputs are supplied",
				len(t.Params), len(expected.Inputs))})
		return nil
	}
	inner := env
	for i, name := range t.Params {
		inner = inner.bind(name, expected.Inputs[i])
	}
	out := c.check(t.Body, inner, false)
	if out == nil {
		return nil
	}
	if !types.Satisfies(expected.Output, out) {
		c.mismatch(t.Body.Loc(), expected.Output, out)
		return nil
	}
	inputs := make([]types.Type, len(t.Params))
	copy(inputs, expected.Inputs[:len(t.Params)])
	return types.BlockOf(out, inputs...)
}

// checkApply matches keywords to the signature's parameters by name, checks
// each argument against the parameter type, and folds the signature's effects
// into the script's set.
func (c *checker) checkApply(t *parse.Apply, env *scope, guarded bool) types.Type {
	fn, known := c.reg.Lookup(t.Name())
	if !known {
		c.errorf(UnknownFunction, t.LineInfo, "no function named %q", t.Name())
		for _, arg := range t.Args {
			c.check(arg.Value, env, false)
		}
		return nil
	}
	c.effects.Union(fn.Effects)
	failed := false
	seen := map[string]bool{}
	for _, arg := range t.Args {
		param, ok := fn.Param(arg.Keyword)
		if !ok {
			c.errorf(ArityMismatch, arg.KeywordInfo, "%q takes no keyword %q", fn.Name, arg.Keyword)
			c.check(arg.Value, env, false)
			failed = true
			continue
		}
		if seen[param.Name] && !param.Variadic {
			c.errorf(ArityMismatch, arg.KeywordInfo, "keyword %q given more than once", arg.Keyword)
			failed = true
			continue
		}
		seen[param.Name] = true
		if c.checkArg(arg.Value, param.Type, env) == nil {
			failed = true
		}
	}
	for _, param := range fn.Params {
		if !param.Optional && !seen[param.Name] {
			c.errorf(ArityMismatch, t.LineInfo, "%q is missing keyword %q", fn.Name, param.Name)
			failed = true
		}
	}
	if fn.Partial && !guarded {
		c.errorf(UnhandledPartiality, t.LineInfo, "%q can fail and must be the try arm of a try/or", fn.Name)
		failed = true
	}
	if failed {
		return nil
	}
	return fn.Output
}

func (c *checker) checkArg(val parse.Term, expected types.Type, env *scope) types.Type {
	if expBlk, isBlk := expected.(*types.Block); isBlk {
		if blk, ok := val.(*parse.BlockLit); ok {
			return c.checkBlockArg(blk, expBlk, env)
		}
	}
	ty := c.check(val, env, false)
	if ty == nil {
		return nil
	}
	if !types.Satisfies(expected, ty) {
		c.mismatch(val.Loc(), expected, ty)
		return nil
	}
	return ty
}

// checkTryOr checks the built-in partiality handler. Both arms arrive as
// zero-input blocks after coercion; the try arm body may call one partial
// function directly, the fallback must be total. The whole expression has the
// try arm's type, and the fallback must mutually satisfy it.
func (c *checker) checkTryOr(t *parse.Apply, env *scope) types.Type {
	var tryArm, orArm parse.Term
	ok := true
	for _, arg := range t.Args {
		switch {
		case arg.Keyword == tryName && tryArm == nil:
			tryArm = arg.Value
		case arg.Keyword == orName && orArm == nil:
			orArm = arg.Value
		default:
			c.errorf(ArityMismatch, arg.KeywordInfo, "try/or takes no keyword %q", arg.Keyword)
			ok = false
		}
	}
	if orArm == nil {
		c.errorf(ArityMismatch, t.LineInfo, "try/or is missing keyword %q", orName)
		ok = false
	}
	tryTy := c.checkArm(tryArm, env, true)
	orTy := c.checkArm(orArm, env, false)
	if !ok || tryTy == nil || orTy == nil {
		return nil
	}
	if !types.Satisfies(tryTy, orTy) || !types.Satisfies(orTy, tryTy) {
		c.report(&Error{Code: BranchTypeDivergence, At: t.LineInfo, Expected: tryTy, Found: orTy})
		return nil
	}
	return tryTy
}

func (c *checker) checkArm(arm parse.Term, env *scope, guarded bool) types.Type {
	if arm == nil {
		return nil
	}
	blk, ok := arm.(*parse.BlockLit)
	if !ok {
		// Coercion wraps everything but explicit blocks; an explicit block
		// with parameters lands here via checkBlock's arity error.
		return c.check(arm, env, guarded)
	}
	if len(blk.Params) > 0 {
		c.report(&Error{Code: BlockArityMismatch, At: blk.LineInfo, Expected: armExpectation,
			Detail: "try/or arms take no inputs"})
		return nil
	}
	return c.check(blk.Body, env, guarded)
}
