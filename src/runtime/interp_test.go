package runtime

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainbowlang/rainbow/src/registry"
	"github.com/rainbowlang/rainbow/src/types"
)

func run(t *testing.T, src string) any {
	t.Helper()
	in, err := New()
	require.NoError(t, err)
	val, _, err := in.Run("test", src)
	require.NoError(t, err)
	return val
}

func TestRunLiterals(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 42.0, run(t, "42"))
	assert.Equal(t, "hi", run(t, `"hi"`))
	assert.Equal(t, true, run(t, "true"))
	assert.Equal(t, []any{1.0, 2.0, 3.0}, run(t, "[1 2 3]"))
	assert.Equal(t, map[string]any{"a": 1.0, "b": "x"}, run(t, `[a=1 b="x"]`))
	assert.Equal(t, map[string]any{}, run(t, "[=]"))
}

func TestRunCalc(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 10.0, run(t, "try: { calc: 2 plus: 3 times: 2 } or: 0"))
	assert.Equal(t, 1.5, run(t, "try: { calc: 6 minus: 3 dividedBy: 2 } or: 0"))
	assert.Equal(t, 4.0, run(t, "try: { calc: 1 plus: 2 minus: 3 plus: 4 } or: 0"),
		"variadic keywords may interleave")
	assert.Equal(t, 7.0, run(t, "try: { calc: 1 dividedBy: 0 } or: 7"))
}

func TestRunDivide(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, run(t, "try: { divide: 10 by: 2 } or: 0"))
	assert.Equal(t, 99.0, run(t, "try: { divide: 1 by: 0 } or: 99"))
	assert.Equal(t, 99.0, run(t, "try: { divide: 1 by: 0 } or: { 99 }"))
}

func TestRunConditionals(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, run(t, "if: true then: 1 else: 2"))
	assert.Equal(t, 2.0, run(t, "if: false then: 1 else: 2"))
	assert.Equal(t, 2.0, run(t, "if: true and: { false } then: 1 else: 2"))
	assert.Equal(t, 1.0, run(t, "if: false or: { true } then: 1 else: 2"))
	assert.Equal(t, "no", run(t, `ifText: false then: "yes" else: "no"`))
	assert.Equal(t, false, run(t, "not: true"))
}

func TestRunCompare(t *testing.T) {
	t.Parallel()
	assert.Equal(t, true, run(t, "compare: 5 isAbove: 3"))
	assert.Equal(t, false, run(t, "compare: 5 isBelow: 3"))
	assert.Equal(t, true, run(t, "compare: 5 equals: 5 isAbove: 0"))
	assert.Equal(t, false, run(t, "compare: 5 equals: 4"))
}

func TestRunLists(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 10.0, run(t, "sum: countFrom: 1 to: 4"))
	assert.Equal(t, []any{5.0, 3.0, 1.0}, run(t, "countFrom: 5 to: 1 by: 2"))
	assert.Equal(t, []any{2.0, 4.0, 6.0}, run(t, "each: [1 2 3] do: { x => try: { calc: x times: 2 } or: 0 }"))
	assert.Equal(t, []any{9.0, 9.0}, run(t, "each: [1 2] do: { 9 }"))
	assert.Equal(t, 3.0, run(t, "size: [4 5 6]"))
	assert.Equal(t, 4.0, run(t, "with: 3 do: { x => try: { calc: x plus: 1 } or: 0 }"))
	assert.Equal(t, 3.0, run(t, "max: 3 or: 2"))
	assert.Equal(t, 2.0, run(t, "min: 3 or: 2"))
}

func TestRunDistance(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, run(t, "distance: [x=0 y=0] to: [x=3 y=4]"))
	// Width subtyping lets wider records through.
	assert.Equal(t, 5.0, run(t, `distance: [x=0 y=0 label="origin"] to: [x=3 y=4]`))
}

func TestRunStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "LOUD", run(t, `upperCase: "loud"`))
	assert.Equal(t, "quiet", run(t, `lowerCase: "QUIET"`))
	assert.Equal(t, "a-b", run(t, `join: ["a" "b"] with: "-"`))
	assert.Equal(t, "ab", run(t, `join: ["a" "b"]`))
	assert.Equal(t, 5.0, run(t, `length: "héllo"`))
	assert.Equal(t, "3.5", run(t, "stringify: 3.5"))
}

func TestRunTimes(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	require.NoError(t, in.SetGlobal("t", time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)))
	val, _, err := in.Run("test", `try: { formatTime: t as: "%Y-%m-%d" } or: ""`)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-24", val)
	val, _, err = in.Run("test", `try: { timeOf: "not a time" } or: t`)
	require.NoError(t, err)
	assert.Equal(t, 2026, val.(time.Time).Year())
}

func TestRunPrint(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	in, err := New(WithStdout(&out))
	require.NoError(t, err)
	val, res, err := in.Run("test", `print: "hello"`)
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
	assert.Equal(t, "hello\n", out.String())
	assert.True(t, res.Effects.Has(EffectOutput))
}

func TestRunGlobals(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	require.NoError(t, in.SetGlobal("n", 5.0))
	require.NoError(t, in.SetGlobal("user", map[string]any{"name": "ada"}))
	val, _, err := in.Run("test", "try: { calc: n plus: 1 } or: 0")
	require.NoError(t, err)
	assert.Equal(t, 6.0, val)
	val, _, err = in.Run("test", "upperCase: user.name")
	require.NoError(t, err)
	assert.Equal(t, "ADA", val)
	assert.Equal(t, "number", in.Globals()["n"].String())
}

func TestGlobalsReturnsSnapshot(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	require.NoError(t, in.SetGlobal("n", 5.0))
	delete(in.Globals(), "n")
	assert.Equal(t, "number", in.Globals()["n"].String())
	_, _, err = in.Run("test", "sum: [n]")
	require.NoError(t, err)
}

func TestSetGlobalRejectsUntypeableValues(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	assert.Error(t, in.SetGlobal("f", struct{}{}))
}

type stubEffector struct {
	performed []string
}

func (s *stubEffector) Perform(fn *types.Function, call *Call) (any, error) {
	s.performed = append(s.performed, fn.Name)
	url, err := call.Demand("fetch")
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(url.(string), "bad:") {
		return nil, call.Fail("unreachable host")
	}
	return map[string]any{"body": "ok:" + url.(string), "status": 200.0}, nil
}

func fetchSignature() *types.Function {
	return registry.Func("fetch", types.String).
		Returns(types.RecordOf(
			types.Field{Name: "body", Type: types.String},
			types.Field{Name: "status", Type: types.Number},
		)).
		Partial().
		Effects("Network").
		Signature()
}

func TestRunEffector(t *testing.T) {
	t.Parallel()
	effector := &stubEffector{}
	in, err := New(WithEffector(effector))
	require.NoError(t, err)
	require.NoError(t, in.Registry().Register(fetchSignature()))

	val, res, err := in.Run("test", `try: { fetch: "http://x" } or: [body="" status=0]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"body": "ok:http://x", "status": 200.0}, val)
	assert.True(t, res.Effects.Has("Network"))
	assert.Equal(t, []string{"fetch"}, effector.performed)

	val, _, err = in.Run("test", `try: { fetch: "bad:host" } or: [body="" status=0]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"body": "", "status": 0.0}, val)
}

func TestRunWithoutEffector(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	require.NoError(t, in.Registry().Register(fetchSignature()))
	_, _, err = in.Run("test", `try: { fetch: "http://x" } or: [body="" status=0]`)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no implementation or effector")
}

func TestRunRefusesBadScripts(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	val, res, err := in.Run("test", "sum: 5")
	require.Error(t, err)
	assert.Nil(t, val)
	require.NotNil(t, res)
	assert.False(t, res.Ok())

	_, _, err = in.Run("test", "divide: 1 by: 0")
	require.Error(t, err, "an unguarded partial call never evaluates")
}

func TestRunParseErrors(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	_, _, err = in.Run("test", "= 1")
	assert.Error(t, err)
}

func TestCheckDoesNotEvaluate(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	in, err := New(WithStdout(&out))
	require.NoError(t, err)
	res, err := in.Check("test", `print: "hi"`)
	require.NoError(t, err)
	assert.True(t, res.Ok())
	assert.Equal(t, "string", res.Output.String())
	assert.True(t, res.Effects.Has(EffectOutput))
	assert.Empty(t, out.String())
}

func TestDefineAfterFreeze(t *testing.T) {
	t.Parallel()
	in, err := New()
	require.NoError(t, err)
	_, _, err = in.Run("test", "1")
	require.NoError(t, err)
	err = in.Define(registry.Func("late", types.Number).Returns(types.Number).Signature(), stdNot)
	require.Error(t, err)
	assert.ErrorContains(t, err, "frozen")
}

func TestRunScriptResultIsFinalTerm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "two", run(t, `1 "two"`))
}

func TestRenderValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.5", Render(1.5))
	assert.Equal(t, "true", Render(true))
	assert.Equal(t, "[1 2]", Render([]any{1.0, 2.0}))
	assert.Equal(t, "[a=1 b=x]", Render(map[string]any{"b": "x", "a": 1.0}))
	assert.Equal(t, "[=]", Render(map[string]any{}))
}
