package registry

import "github.com/rainbowlang/rainbow/src/types"

// Builder assembles a function signature one keyword at a time. The dispatch
// argument is fixed by Func; further calls append parameters in declaration
// order, which is also the canonical rendering order.
type Builder struct{ fn *types.Function }

// Func starts a signature whose dispatch argument has the given type.
func Func(name string, ty types.Type) *Builder {
	return &Builder{fn: &types.Function{
		Name:    name,
		Params:  []types.Param{{Name: name, Type: ty}},
		Effects: types.Effects(),
	}}
}

// Arg appends a required keyword parameter.
func (b *Builder) Arg(name string, ty types.Type) *Builder {
	b.fn.Params = append(b.fn.Params, types.Param{Name: name, Type: ty})
	return b
}

// OptArg appends a keyword parameter that callers may omit.
func (b *Builder) OptArg(name string, ty types.Type) *Builder {
	b.fn.Params = append(b.fn.Params, types.Param{Name: name, Type: ty, Optional: true})
	return b
}

// VarArg appends a keyword parameter that callers may repeat. A variadic
// keyword is also optional.
func (b *Builder) VarArg(name string, ty types.Type) *Builder {
	b.fn.Params = append(b.fn.Params, types.Param{Name: name, Type: ty, Variadic: true, Optional: true})
	return b
}

// Returns sets the output type.
func (b *Builder) Returns(ty types.Type) *Builder {
	b.fn.Output = ty
	return b
}

// Partial marks the function as able to fail at runtime. Callers must handle
// partial calls with try/or.
func (b *Builder) Partial() *Builder {
	b.fn.Partial = true
	return b
}

// Effects adds declared effect tags to the signature.
func (b *Builder) Effects(tags ...types.EffectTag) *Builder {
	for _, tag := range tags {
		b.fn.Effects.Add(tag)
	}
	return b
}

// Signature returns the assembled function type. Register validates it.
func (b *Builder) Signature() *types.Function { return b.fn }
