package parse

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/rainbowlang/rainbow/src/rerrors"
)

var escapeCodes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
}

type lexer struct {
	filename string
	rdr      *bufio.Reader
	peeked   []*token
	LineInfo
}

func newLexer(filename string, src io.Reader) *lexer {
	return &lexer{
		filename: filename,
		LineInfo: LineInfo{Line: 1},
		rdr:      bufio.NewReaderSize(src, 4096),
		peeked:   []*token{},
	}
}

func (lex *lexer) errf(msg string, data ...any) error {
	return lex.err(fmt.Errorf(msg, data...))
}

func (lex *lexer) err(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	return &rerrors.Error{
		Filename: lex.filename,
		Kind:     rerrors.LexerErr,
		Line:     lex.Line,
		Column:   lex.Column,
		Err:      err,
	}
}

func (lex *lexer) peekCh() rune {
	chs, _ := lex.rdr.Peek(1)
	if len(chs) == 0 {
		return 0
	}
	return rune(chs[0])
}

func (lex *lexer) next() (rune, error) {
	ch, _, err := lex.rdr.ReadRune()
	if err != nil {
		return ch, lex.err(err)
	}
	if ch == '\n' || ch == '\r' {
		lex.Line++
		lex.Column = 0
	}
	lex.Column++
	return ch, err
}

func (lex *lexer) skipWhitespace() error {
	for {
		if ch := lex.peekCh(); ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if _, err := lex.next(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (lex *lexer) tokenVal(tk tokenType) (*token, error) {
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk))}}, nil
}

func (lex *lexer) takeTokenVal(tk tokenType) (*token, error) {
	_, err := lex.next()
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk))}}, err
}

// allow for FIFO stack.
func (lex *lexer) back(tk *token) {
	lex.peeked = append(lex.peeked, tk)
}

func (lex *lexer) Peek() (*token, error) {
	if len(lex.peeked) == 0 {
		tk, err := lex.Next()
		if err != nil && !errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS}, err
		} else if err != nil {
			return &token{Kind: tokenEOS}, nil
		}
		lex.peeked = append(lex.peeked, tk)
	}
	return lex.peeked[len(lex.peeked)-1], nil
}

func (lex *lexer) Next() (*token, error) {
	if len(lex.peeked) != 0 {
		top := lex.peeked[len(lex.peeked)-1]
		lex.peeked = lex.peeked[:len(lex.peeked)-1]
		return top, nil
	}
	if err := lex.skipWhitespace(); err != nil {
		return nil, err
	}
	ch, err := lex.next()
	if err != nil {
		return nil, err
	}
	switch {
	case ch == ':':
		return lex.tokenVal(tokenColon)
	case ch == '.':
		return lex.tokenVal(tokenPeriod)
	case ch == '=':
		if lex.peekCh() == '>' {
			return lex.takeTokenVal(tokenArrow)
		}
		return lex.tokenVal(tokenAssign)
	case ch == '{':
		return lex.tokenVal(tokenOpenCurly)
	case ch == '}':
		return lex.tokenVal(tokenCloseCurly)
	case ch == '[':
		return lex.tokenVal(tokenOpenBracket)
	case ch == ']':
		return lex.tokenVal(tokenCloseBracket)
	case ch == '"':
		return lex.parseString()
	case ch == '-' && unicode.IsDigit(lex.peekCh()):
		return lex.parseNumber(ch)
	case unicode.IsDigit(ch):
		return lex.parseNumber(ch)
	case unicode.IsLetter(ch) || ch == '_':
		return lex.parseIdentifier(ch)
	}
	return nil, lex.errf("unexpected character %v", string(ch))
}

func (lex *lexer) parseIdentifier(start rune) (*token, error) {
	linfo := lex.LineInfo
	var ident bytes.Buffer
	ident.WriteRune(start)
	for {
		if ch := lex.peekCh(); unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			if err := lex.writeNext(&ident); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	strVal := ident.String()
	if kw, ok := keywords[strVal]; ok {
		return lex.tokenVal(kw)
	}
	return &token{
		Kind:      tokenIdentifier,
		StringVal: strVal,
		LineInfo:  linfo,
	}, nil
}

func (lex *lexer) parseString() (*token, error) {
	linfo := lex.LineInfo
	var str bytes.Buffer
	for {
		ch, err := lex.next()
		if errors.Is(err, io.EOF) {
			return nil, lex.err(errors.New("unterminated string"))
		} else if err != nil {
			return nil, err
		}
		if ch == '\\' {
			esc, err := lex.next()
			if err != nil {
				return nil, err
			}
			code, ok := escapeCodes[esc]
			if !ok {
				return nil, lex.errf("unexpected escape code \\%s", string(esc))
			}
			str.WriteRune(code)
		} else if ch == '"' {
			return &token{
				Kind:      tokenString,
				StringVal: str.String(),
				LineInfo:  linfo,
			}, nil
		} else {
			str.WriteRune(ch)
		}
	}
}

func (lex *lexer) parseNumber(start rune) (*token, error) {
	linfo := lex.LineInfo
	var number bytes.Buffer
	number.WriteRune(start)
	if err := lex.consumeDigits(&number); err != nil {
		return nil, err
	}
	if lex.peekCh() == '.' {
		if err := lex.writeNext(&number); err != nil {
			return nil, err
		}
		if !unicode.IsDigit(lex.peekCh()) {
			return nil, lex.errf("malformed number %v", number.String())
		}
		if err := lex.consumeDigits(&number); err != nil {
			return nil, err
		}
	}
	if ch := lex.peekCh(); ch == 'e' || ch == 'E' {
		if err := lex.writeNext(&number); err != nil {
			return nil, err
		}
		if ch := lex.peekCh(); ch == '-' || ch == '+' {
			if err := lex.writeNext(&number); err != nil {
				return nil, err
			}
		}
		if !unicode.IsDigit(lex.peekCh()) {
			return nil, lex.errf("malformed exponent %v", number.String())
		}
		if err := lex.consumeDigits(&number); err != nil {
			return nil, err
		}
	}
	num, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return nil, lex.errf("malformed number %v", number.String())
	}
	return &token{
		Kind:     tokenNumber,
		NumVal:   num,
		LineInfo: linfo,
	}, nil
}

// consumeDigits accepts underscore separators (100_000).
func (lex *lexer) consumeDigits(number *bytes.Buffer) error {
	for {
		ch := lex.peekCh()
		if ch == '_' {
			if _, err := lex.next(); err != nil {
				return err
			}
			continue
		}
		if !unicode.IsDigit(ch) {
			return nil
		}
		if err := lex.writeNext(number); err != nil {
			return err
		}
	}
}

func (lex *lexer) writeNext(buf *bytes.Buffer) error {
	ch, err := lex.next()
	if err != nil {
		return err
	}
	buf.WriteRune(ch)
	return nil
}
