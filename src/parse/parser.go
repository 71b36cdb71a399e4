package parse

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rainbowlang/rainbow/src/conf"
	"github.com/rainbowlang/rainbow/src/rerrors"
)

// Parser reads one script at a time. Parsing aborts on the first failure;
// there is no partial syntax tree to continue checking from.
type Parser struct {
	filename string
	lex      *lexer
	depth    int
}

// Parse reads a whole script: one or more terms. An empty source returns
// io.EOF so that the REPL can keep buffering input.
func Parse(filename string, src io.Reader) ([]Term, error) {
	p := &Parser{filename: filename, lex: newLexer(filename, src)}
	var terms []Term
	for {
		tk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(tk, err)
		}
		if tk.Kind == tokenEOS {
			if len(terms) == 0 {
				return nil, io.EOF
			}
			return terms, nil
		}
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
}

// ParseString is a helper around Parse for in-memory sources.
func ParseString(filename, src string) ([]Term, error) {
	return Parse(filename, strings.NewReader(src))
}

func (p *Parser) parseErr(tk *token, err error) error {
	if err == nil {
		return nil
	}
	var rbErr *rerrors.Error
	if errors.As(err, &rbErr) || errors.Is(err, io.EOF) {
		return err
	}
	newErr := &rerrors.Error{
		Kind:     rerrors.ParserErr,
		Filename: p.filename,
		Err:      err,
	}
	if tk != nil {
		newErr.Line = tk.Line
		newErr.Column = tk.Column
	}
	return newErr
}

func (p *Parser) expect(kind tokenType) (*token, error) {
	tk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(tk, err)
	}
	if tk.Kind != kind {
		return nil, p.parseErr(tk, fmt.Errorf("expected %q but found %v", kind, tk))
	}
	return tk, nil
}

func (p *Parser) term() (Term, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > conf.MAXDEPTH {
		return nil, p.parseErr(nil, errors.New("script is nested too deeply"))
	}
	tk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(tk, err)
	}
	switch tk.Kind {
	case tokenIdentifier:
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind == tokenColon {
			return p.apply(tk)
		}
		return p.variable(tk)
	case tokenTrue:
		return &BoolLit{LineInfo: tk.LineInfo, Val: true}, nil
	case tokenFalse:
		return &BoolLit{LineInfo: tk.LineInfo, Val: false}, nil
	case tokenNumber:
		return &NumberLit{LineInfo: tk.LineInfo, Val: tk.NumVal}, nil
	case tokenString:
		return &StringLit{LineInfo: tk.LineInfo, Val: tk.StringVal}, nil
	case tokenOpenCurly:
		return p.block(tk)
	case tokenOpenBracket:
		return p.bracketed(tk)
	default:
		return nil, p.parseErr(tk, fmt.Errorf("expected a term but found %v", tk))
	}
}

// apply consumes keyword/term pairs greedily: an identifier followed by a
// colon always continues the innermost call.
func (p *Parser) apply(first *token) (Term, error) {
	app := &Apply{LineInfo: first.LineInfo}
	kw := first
	for {
		if _, err := p.expect(tokenColon); err != nil {
			return nil, err
		}
		val, err := p.term()
		if err != nil {
			return nil, err
		}
		app.Args = append(app.Args, Arg{Keyword: kw.StringVal, KeywordInfo: kw.LineInfo, Value: val})
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind != tokenIdentifier {
			return app, nil
		}
		ident, err := p.lex.Next()
		if err != nil {
			return nil, p.parseErr(ident, err)
		}
		pk, err = p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind != tokenColon {
			p.lex.back(ident)
			return app, nil
		}
		kw = ident
	}
}

func (p *Parser) variable(first *token) (Term, error) {
	path := []string{first.StringVal}
	for {
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind != tokenPeriod {
			return &Variable{LineInfo: first.LineInfo, Path: path}, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, p.parseErr(nil, err)
		}
		seg, err := p.expect(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		path = append(path, seg.StringVal)
	}
}

// block disambiguates `{ a b => body }` from `{ body }` by collecting leading
// identifiers and pushing them back when no arrow follows.
func (p *Parser) block(open *token) (Term, error) {
	var idents []*token
	for {
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind == tokenIdentifier {
			tk, err := p.lex.Next()
			if err != nil {
				return nil, p.parseErr(tk, err)
			}
			idents = append(idents, tk)
			continue
		}
		blk := &BlockLit{LineInfo: open.LineInfo}
		if pk.Kind == tokenArrow && len(idents) > 0 {
			if _, err := p.lex.Next(); err != nil {
				return nil, p.parseErr(nil, err)
			}
			for _, tk := range idents {
				blk.Params = append(blk.Params, tk.StringVal)
			}
		} else {
			for i := len(idents) - 1; i >= 0; i-- {
				p.lex.back(idents[i])
			}
		}
		body, err := p.term()
		if err != nil {
			return nil, err
		}
		blk.Body = body
		if _, err := p.expect(tokenCloseCurly); err != nil {
			return nil, err
		}
		return blk, nil
	}
}

// bracketed disambiguates records from lists: `[=]` is the empty record,
// `[]` the empty list, a leading `ident =` starts a record, anything else a
// list.
func (p *Parser) bracketed(open *token) (Term, error) {
	pk, err := p.lex.Peek()
	if err != nil {
		return nil, p.parseErr(pk, err)
	}
	switch pk.Kind {
	case tokenCloseBracket:
		_, err := p.lex.Next()
		return &ListLit{LineInfo: open.LineInfo}, p.parseErr(nil, err)
	case tokenAssign:
		if _, err := p.lex.Next(); err != nil {
			return nil, p.parseErr(nil, err)
		}
		if _, err := p.expect(tokenCloseBracket); err != nil {
			return nil, err
		}
		return &RecordLit{LineInfo: open.LineInfo}, nil
	case tokenIdentifier:
		ident, err := p.lex.Next()
		if err != nil {
			return nil, p.parseErr(ident, err)
		}
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind == tokenAssign {
			return p.record(open, ident)
		}
		p.lex.back(ident)
		return p.list(open)
	default:
		return p.list(open)
	}
}

func (p *Parser) record(open *token, first *token) (Term, error) {
	rec := &RecordLit{LineInfo: open.LineInfo}
	name := first
	for {
		if _, err := p.expect(tokenAssign); err != nil {
			return nil, err
		}
		if _, dup := rec.Entry(name.StringVal); dup {
			return nil, p.parseErr(name, fmt.Errorf("duplicate record entry %v", name.StringVal))
		}
		val, err := p.term()
		if err != nil {
			return nil, err
		}
		rec.Entries = append(rec.Entries, Entry{Name: name.StringVal, NameInfo: name.LineInfo, Value: val})
		tk, err := p.lex.Next()
		if err != nil {
			return nil, p.parseErr(tk, err)
		}
		if tk.Kind == tokenCloseBracket {
			return rec, nil
		}
		if tk.Kind != tokenIdentifier {
			return nil, p.parseErr(tk, fmt.Errorf("expected a field name but found %v", tk))
		}
		name = tk
	}
}

func (p *Parser) list(open *token) (Term, error) {
	lst := &ListLit{LineInfo: open.LineInfo}
	for {
		pk, err := p.lex.Peek()
		if err != nil {
			return nil, p.parseErr(pk, err)
		}
		if pk.Kind == tokenCloseBracket {
			_, err := p.lex.Next()
			return lst, p.parseErr(nil, err)
		}
		if pk.Kind == tokenEOS {
			return nil, io.EOF
		}
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		lst.Elems = append(lst.Elems, elem)
	}
}
