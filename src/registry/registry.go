// Package registry holds the host signature table: the set of function
// signatures a script may call. The host fills the table before any script is
// checked, then freezes it; the checker and the coercion resolver only ever
// read from a frozen table.
package registry

import (
	"fmt"
	"sort"

	"github.com/rainbowlang/rainbow/src/rerrors"
	"github.com/rainbowlang/rainbow/src/types"
)

// Registry maps dispatch names to function signatures.
type Registry struct {
	frozen bool
	funcs  map[string]*types.Function
}

// New returns an empty, unfrozen registry.
func New() *Registry {
	return &Registry{funcs: map[string]*types.Function{}}
}

func confErr(msg string, data ...any) error {
	return &rerrors.Error{Kind: rerrors.ConfigErr, Err: fmt.Errorf(msg, data...)}
}

// Register adds a signature to the table. The first parameter is the dispatch
// name: its keyword must equal the function name and it is always required.
func (r *Registry) Register(fn *types.Function) error {
	if r.frozen {
		return confErr("cannot register %q in a frozen registry", fn.Name)
	}
	if fn.Name == "" {
		return confErr("function signature has no name")
	}
	if fn.Name == "try" || fn.Name == "or" {
		return confErr("%q is reserved for the partiality handler", fn.Name)
	}
	if _, ok := r.funcs[fn.Name]; ok {
		return confErr("function %q is already registered", fn.Name)
	}
	if len(fn.Params) == 0 {
		return confErr("function %q has no parameters", fn.Name)
	}
	if first := fn.Params[0]; first.Name != fn.Name {
		return confErr("function %q must take its first argument under its own name, not %q", fn.Name, first.Name)
	} else if first.Optional {
		return confErr("the dispatch argument of %q cannot be optional", fn.Name)
	}
	seen := map[string]bool{}
	for _, param := range fn.Params {
		if seen[param.Name] {
			return confErr("function %q declares parameter %q twice", fn.Name, param.Name)
		}
		seen[param.Name] = true
		if param.Type == nil {
			return confErr("parameter %q of %q has no type", param.Name, fn.Name)
		}
	}
	if fn.Output == nil {
		return confErr("function %q has no output type", fn.Name)
	}
	if fn.Effects == nil {
		fn.Effects = types.Effects()
	}
	r.funcs[fn.Name] = fn
	return nil
}

// Freeze closes the table for registration. Freezing twice is a no-op.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether the table is closed.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup returns the signature registered under the dispatch name.
func (r *Registry) Lookup(name string) (*types.Function, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns all registered dispatch names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
