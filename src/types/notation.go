package types

import (
	"errors"
	"fmt"
	"unicode"
)

// ParseNotation reads a type written in the display notation back into a
// Type: primitives by name, "[ E... ]" lists, "[ a=T b?=T ]" records, "[=]"
// the empty record, "{ A B => C }" and "{ C }" blocks. Function types are
// not part of the notation; hosts declare them structurally.
func ParseNotation(src string) (Type, error) {
	toks, err := scanNotation(src)
	if err != nil {
		return nil, err
	}
	p := &notationParser{toks: toks}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("unexpected %q after type", tok)
	}
	return ty, nil
}

type notationParser struct {
	toks []string
	pos  int
}

func (p *notationParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *notationParser) next() (string, error) {
	tok, ok := p.peek()
	if !ok {
		return "", errors.New("unexpected end of type")
	}
	p.pos++
	return tok, nil
}

func (p *notationParser) expect(want string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %q but found %q", want, tok)
	}
	return nil
}

func (p *notationParser) parseType() (Type, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok {
	case string(KindNumber):
		return Number, nil
	case string(KindString):
		return String, nil
	case string(KindBoolean):
		return Boolean, nil
	case string(KindTime):
		return Time, nil
	case "never":
		return Never, nil
	case "{":
		return p.parseBlock()
	case "[":
		return p.parseBracketed()
	default:
		return nil, fmt.Errorf("unknown type %q", tok)
	}
}

func (p *notationParser) parseBlock() (Type, error) {
	var parts []Type
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, errors.New("unterminated block type")
		}
		switch tok {
		case "}":
			p.pos++
			if len(parts) != 1 {
				return nil, errors.New("block type without => must have exactly one output")
			}
			return Quoted(parts[0]), nil
		case "=>":
			p.pos++
			if len(parts) == 0 {
				return nil, errors.New("block type with => must name its inputs")
			}
			out, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if err := p.expect("}"); err != nil {
				return nil, err
			}
			return BlockOf(out, parts...), nil
		default:
			part, err := p.parseType()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
	}
}

func (p *notationParser) parseBracketed() (Type, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("unterminated bracket type")
	}
	if tok == "=" {
		p.pos++
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return RecordOf(), nil
	}
	// A record starts with `ident =` or `ident ?`; anything else is a list.
	if isNotationIdent(tok) && p.pos+1 < len(p.toks) &&
		(p.toks[p.pos+1] == "=" || p.toks[p.pos+1] == "?") {
		return p.parseRecord()
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect("..."); err != nil {
		return nil, err
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return ListOf(elem), nil
}

func (p *notationParser) parseRecord() (Type, error) {
	var fields []Field
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == "]" {
			return RecordOf(fields...), nil
		}
		if !isNotationIdent(tok) {
			return nil, fmt.Errorf("expected field name but found %q", tok)
		}
		field := Field{Name: tok}
		if next, ok := p.peek(); ok && next == "?" {
			field.Optional = true
			p.pos++
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		if field.Type, err = p.parseType(); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
}

func scanNotation(src string) ([]string, error) {
	var toks []string
	runes := []rune(src)
	for i := 0; i < len(runes); {
		ch := runes[i]
		switch {
		case unicode.IsSpace(ch):
			i++
		case ch == '[' || ch == ']' || ch == '{' || ch == '}' || ch == '?':
			toks = append(toks, string(ch))
			i++
		case ch == '=':
			if i+1 < len(runes) && runes[i+1] == '>' {
				toks = append(toks, "=>")
				i += 2
			} else {
				toks = append(toks, "=")
				i++
			}
		case ch == '.':
			if i+2 < len(runes) && runes[i+1] == '.' && runes[i+2] == '.' {
				toks = append(toks, "...")
				i += 3
			} else {
				return nil, fmt.Errorf("unexpected character %q in type", ch)
			}
		case unicode.IsLetter(ch) || ch == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, string(runes[start:i]))
		default:
			return nil, fmt.Errorf("unexpected character %q in type", ch)
		}
	}
	return toks, nil
}

func isNotationIdent(tok string) bool {
	for i, ch := range tok {
		if i == 0 && !unicode.IsLetter(ch) && ch != '_' {
			return false
		}
		if i > 0 && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return false
		}
	}
	return tok != ""
}
