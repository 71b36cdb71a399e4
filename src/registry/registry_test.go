package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainbowlang/rainbow/src/types"
)

func TestBuilder(t *testing.T) {
	t.Parallel()
	fn := Func("calc", types.Number).
		VarArg("plus", types.Number).
		OptArg("round", types.Boolean).
		Returns(types.Number).
		Partial().
		Effects("Output").
		Signature()
	assert.Equal(t, "calc", fn.Name)
	require.Len(t, fn.Params, 3)
	assert.Equal(t, "calc", fn.Params[0].Name)
	assert.False(t, fn.Params[0].Optional)
	assert.True(t, fn.Params[1].Variadic)
	assert.True(t, fn.Params[1].Optional, "variadic keywords may be omitted")
	assert.True(t, fn.Params[2].Optional)
	assert.True(t, fn.Partial)
	assert.True(t, fn.Effects.Has("Output"))
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()
	reg := New()
	require.NoError(t, reg.Register(Func("sum", types.ListOf(types.Number)).Returns(types.Number).Signature()))
	require.NoError(t, reg.Register(Func("not", types.Boolean).Returns(types.Boolean).Signature()))
	fn, ok := reg.Lookup("sum")
	require.True(t, ok)
	assert.Equal(t, "number", fn.Output.String())
	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"not", "sum"}, reg.Names())
}

func TestRegisterRejectsBadSignatures(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		fn   *types.Function
	}{
		{"no name", &types.Function{Output: types.Number}},
		{"reserved try", Func("try", types.Number).Returns(types.Number).Signature()},
		{"reserved or", Func("or", types.Number).Returns(types.Number).Signature()},
		{"no params", &types.Function{Name: "f", Output: types.Number}},
		{"dispatch name mismatch", &types.Function{
			Name:   "f",
			Params: []types.Param{{Name: "g", Type: types.Number}},
			Output: types.Number,
		}},
		{"optional dispatch", &types.Function{
			Name:   "f",
			Params: []types.Param{{Name: "f", Type: types.Number, Optional: true}},
			Output: types.Number,
		}},
		{"duplicate keyword", Func("f", types.Number).Arg("x", types.Number).Arg("x", types.Number).Returns(types.Number).Signature()},
		{"untyped keyword", &types.Function{
			Name:   "f",
			Params: []types.Param{{Name: "f"}},
			Output: types.Number,
		}},
		{"no output", Func("f", types.Number).Signature()},
	}
	for _, tc := range cases {
		reg := New()
		assert.Error(t, reg.Register(tc.fn), tc.name)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	reg := New()
	sig := func() *types.Function { return Func("f", types.Number).Returns(types.Number).Signature() }
	require.NoError(t, reg.Register(sig()))
	assert.Error(t, reg.Register(sig()))
}

func TestFreeze(t *testing.T) {
	t.Parallel()
	reg := New()
	require.NoError(t, reg.Register(Func("f", types.Number).Returns(types.Number).Signature()))
	assert.False(t, reg.Frozen())
	reg.Freeze()
	assert.True(t, reg.Frozen())
	err := reg.Register(Func("g", types.Number).Returns(types.Number).Signature())
	require.Error(t, err)
	assert.ErrorContains(t, err, "frozen")
	_, ok := reg.Lookup("f")
	assert.True(t, ok, "lookups still work after freezing")
}

const testSignatureYAML = `
functions:
  - name: fetch
    partial: true
    effects: [Network]
    output: "[ body=string status=number ]"
    params:
      - name: fetch
        type: string
      - name: timeout
        type: number
        optional: true
  - name: store
    effects: [Disk]
    output: boolean
    params:
      - name: store
        type: "[ key=string value=string ]"
      - name: tags
        type: "[ string... ]"
        variadic: true
`

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	reg := New()
	require.NoError(t, reg.Load(strings.NewReader(testSignatureYAML)))

	fetch, ok := reg.Lookup("fetch")
	require.True(t, ok)
	assert.True(t, fetch.Partial)
	assert.True(t, fetch.Effects.Has("Network"))
	assert.Equal(t, "[ body=string status=number ]", fetch.Output.String())
	timeout, ok := fetch.Param("timeout")
	require.True(t, ok)
	assert.True(t, timeout.Optional)

	store, ok := reg.Lookup("store")
	require.True(t, ok)
	assert.False(t, store.Partial)
	tags, ok := store.Param("tags")
	require.True(t, ok)
	assert.True(t, tags.Variadic)
	assert.True(t, tags.Optional, "variadic implies optional")
	assert.Equal(t, "[ string... ]", tags.Type.String())
}

func TestLoadYAMLErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		doc  string
	}{
		{"not yaml", ":"},
		{"bad notation", "functions:\n  - name: f\n    output: float\n    params:\n      - name: f\n        type: number\n"},
		{"missing output", "functions:\n  - name: f\n    params:\n      - name: f\n        type: number\n"},
		{"dispatch mismatch", "functions:\n  - name: f\n    output: number\n    params:\n      - name: g\n        type: number\n"},
	}
	for _, tc := range cases {
		reg := New()
		assert.Error(t, reg.Load(strings.NewReader(tc.doc)), tc.name)
	}
}
