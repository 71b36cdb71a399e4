// Package rerrors is a unified errors package for rainbow lexing, parsing
// and host configuration so that they can be formatted and handled in a
// uniform way by the CLI and the REPL.
package rerrors

import "fmt"

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures all non-type errors in rainbow. Type errors are
	// accumulated by the checker and live in the check package; everything
	// that aborts on first failure is reported through this type.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
	}
)

const (
	// LexerErr is an error that originates from the lexer.
	LexerErr ErrorKind = iota
	// ParserErr is an error that originates from the parser.
	ParserErr
	// ConfigErr is an error raised while the host builds the signature table.
	ConfigErr
	// RuntimeErr is an error raised during evaluation.
	RuntimeErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case ParserErr:
		return fmt.Sprintf("Parse Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case LexerErr:
		return fmt.Sprintf("Lex Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case RuntimeErr:
		return fmt.Sprintf("Runtime Error: %v", err.Err)
	default:
		return fmt.Sprintf("Config Error: %v", err.Err)
	}
}

func (err *Error) Unwrap() error { return err.Err }
