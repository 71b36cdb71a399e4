package parse

import (
	"fmt"
	"strconv"
)

type (
	tokenType string
	token     struct {
		LineInfo
		Kind      tokenType
		StringVal string
		NumVal    float64
	}
	// LineInfo is a position in the source, carried by every token and term.
	LineInfo struct {
		Line   int64
		Column int64
	}
)

const (
	tokenColon        tokenType = ":"
	tokenPeriod       tokenType = "."
	tokenAssign       tokenType = "="
	tokenArrow        tokenType = "=>"
	tokenOpenCurly    tokenType = "{"
	tokenCloseCurly   tokenType = "}"
	tokenOpenBracket  tokenType = "["
	tokenCloseBracket tokenType = "]"
	tokenTrue         tokenType = "true"
	tokenFalse        tokenType = "false"
	tokenIdentifier   tokenType = "identifier"
	tokenString       tokenType = "string"
	tokenNumber       tokenType = "number"
	tokenEOS          tokenType = "<EOS>"
)

var keywords = map[string]tokenType{
	string(tokenTrue):  tokenTrue,
	string(tokenFalse): tokenFalse,
}

// Loc returns the position itself so that every embedder exposes it.
func (li LineInfo) Loc() LineInfo { return li }

func (li LineInfo) String() string {
	return fmt.Sprintf("%v:%v", li.Line, li.Column)
}

func (tk *token) String() string {
	switch tk.Kind {
	case tokenNumber:
		return strconv.FormatFloat(tk.NumVal, 'g', -1, 64)
	case tokenIdentifier:
		return fmt.Sprintf("<%v>", tk.StringVal)
	case tokenString:
		return fmt.Sprintf("%q", tk.StringVal)
	default:
		return string(tk.Kind)
	}
}
