package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainbowlang/rainbow/src/parse"
)

func resolveSrc(t *testing.T, src string) string {
	t.Helper()
	terms, err := parse.ParseString("test", src)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	return ResolveBlocks(testRegistry(t), terms[0]).String()
}

func TestResolveWrapsZeroInputPositions(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"if: true then: { 1 } else: { 2 }",
		resolveSrc(t, "if: true then: 1 else: 2"))
}

func TestResolveLeavesExplicitBlocks(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"if: true then: { x => x } else: { 2 }",
		resolveSrc(t, "if: true then: { x => x } else: 2"),
		"wrong blocks stay as written for the checker to flag")
}

func TestResolveUnwrapsZeroParamBlocks(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"sum: countFrom: 1 to: 2",
		resolveSrc(t, "sum: { countFrom: 1 to: 2 }"))
}

func TestResolveKeepsParamBlocksInValuePositions(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"sum: { x => x }",
		resolveSrc(t, "sum: { x => x }"),
		"only zero-parameter blocks unwrap")
}

func TestResolveIgnoresUnknownFunctions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "frobnicate: { 1 }", resolveSrc(t, "frobnicate: { 1 }"))
	assert.Equal(t, "frobnicate: 1", resolveSrc(t, "frobnicate: 1"))
}

func TestResolveIgnoresUnknownKeywords(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"sum: [1] extra: { 2 }",
		resolveSrc(t, "sum: [1] extra: { 2 }"))
}

func TestResolveTryOrArms(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"try: { divide: 1 by: 0 } or: { 9 }",
		resolveSrc(t, "try: { divide: 1 by: 0 } or: 9"))
	assert.Equal(t,
		"try: { 1 } or: { 2 }",
		resolveSrc(t, "try: 1 or: 2"))
}

func TestResolveDoesNotWrapMultiInputPositions(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"each: [1] do: 5",
		resolveSrc(t, "each: [1] do: 5"),
		"a one-input position cannot be met by wrapping")
}

func TestResolveRecursesThroughContainers(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"[[if: true then: { 1 } else: { 2 }]]",
		resolveSrc(t, "[[if: true then: 1 else: 2]]"))
	assert.Equal(t,
		"[a=if: false then: { 1 } else: { 2 }]",
		resolveSrc(t, "[a=if: false then: 1 else: 2]"))
	assert.Equal(t,
		"{ x => if: true then: { x } else: { 0 } }",
		resolveSrc(t, "{ x => if: true then: x else: 0 }"))
}
