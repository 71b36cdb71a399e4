package check

import (
	"github.com/rainbowlang/rainbow/src/parse"
	"github.com/rainbowlang/rainbow/src/registry"
	"github.com/rainbowlang/rainbow/src/types"
)

// armExpectation is the shape try/or expects for both of its arms. Only the
// shape matters to the resolver: a zero-input block.
var armExpectation = types.Quoted(types.Never)

// ResolveBlocks rewrites implicit blocks before type checking. The rewrite is
// purely syntactic and driven by the signature table:
//
//   - an argument that is not a block literal, in a position expecting a
//     zero-input block, is wrapped in one
//   - a zero-parameter block literal, in a position expecting anything but a
//     block, is replaced by its body
//
// Arguments of unknown functions and unknown keywords are left untouched so
// the checker can report them against what the author actually wrote.
func ResolveBlocks(reg *registry.Registry, term parse.Term) parse.Term {
	switch t := term.(type) {
	case *parse.Apply:
		out := &parse.Apply{LineInfo: t.LineInfo}
		for _, arg := range t.Args {
			arg.Value = coerceArg(reg, expectationFor(reg, t.Name(), arg.Keyword), arg.Value)
			out.Args = append(out.Args, arg)
		}
		return out
	case *parse.RecordLit:
		out := &parse.RecordLit{LineInfo: t.LineInfo}
		for _, entry := range t.Entries {
			entry.Value = ResolveBlocks(reg, entry.Value)
			out.Entries = append(out.Entries, entry)
		}
		return out
	case *parse.ListLit:
		out := &parse.ListLit{LineInfo: t.LineInfo}
		for _, elem := range t.Elems {
			out.Elems = append(out.Elems, ResolveBlocks(reg, elem))
		}
		return out
	case *parse.BlockLit:
		return &parse.BlockLit{LineInfo: t.LineInfo, Params: t.Params, Body: ResolveBlocks(reg, t.Body)}
	default:
		return term
	}
}

func expectationFor(reg *registry.Registry, fnName, keyword string) types.Type {
	if fnName == tryName {
		if keyword == tryName || keyword == orName {
			return armExpectation
		}
		return nil
	}
	fn, ok := reg.Lookup(fnName)
	if !ok {
		return nil
	}
	param, ok := fn.Param(keyword)
	if !ok {
		return nil
	}
	return param.Type
}

func coerceArg(reg *registry.Registry, expected types.Type, val parse.Term) parse.Term {
	blk, isBlock := val.(*parse.BlockLit)
	if expBlk, ok := expected.(*types.Block); ok {
		if len(expBlk.Inputs) == 0 && !isBlock {
			return &parse.BlockLit{LineInfo: val.Loc(), Body: ResolveBlocks(reg, val)}
		}
	} else if expected != nil && isBlock && len(blk.Params) == 0 {
		return ResolveBlocks(reg, blk.Body)
	}
	return ResolveBlocks(reg, val)
}
