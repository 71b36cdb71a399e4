// Package rainbow embeds the rainbow scripting language: a total, statically
// typed language for end-user scripts. Hosts register function signatures,
// check scripts against them, inspect the inferred effects, and only then
// evaluate. The facade covers the common one-shot cases; use runtime.New
// directly to configure signatures, globals and effectors.
package rainbow

import (
	"github.com/rainbowlang/rainbow/src/check"
	"github.com/rainbowlang/rainbow/src/runtime"
	"github.com/rainbowlang/rainbow/src/types"
)

// Check type checks source against the prelude and reports the script's type
// and its inferred effect set.
func Check(label, src string) (types.Type, types.EffectSet, error) {
	in, err := runtime.New()
	if err != nil {
		return nil, nil, err
	}
	res, err := in.Check(label, src)
	if err != nil {
		return nil, nil, err
	}
	if !res.Ok() {
		return nil, res.Effects, res.Err()
	}
	return res.Output, res.Effects, nil
}

// String checks and evaluates source against the prelude.
func String(label, src string) (any, error) {
	in, err := runtime.New()
	if err != nil {
		return nil, err
	}
	val, _, err := in.Run(label, src)
	return val, err
}

// New builds a full interpreter for hosts that need to register their own
// signatures, implementations or globals.
func New(opts ...runtime.Option) (*runtime.Interp, error) {
	return runtime.New(opts...)
}

// Errors reports the individual type errors of a failed Check or String.
func Errors(err error) []*check.Error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []*check.Error
		for _, one := range joined.Unwrap() {
			if cerr, ok := one.(*check.Error); ok {
				errs = append(errs, cerr)
			}
		}
		return errs
	}
	if cerr, ok := err.(*check.Error); ok {
		return []*check.Error{cerr}
	}
	return nil
}
