package runtime

import (
	"errors"
	"fmt"

	"github.com/rainbowlang/rainbow/src/types"
)

// Failure is a declared runtime failure of a partial function. Only failures
// are caught by try/or; any other error aborts the script.
type Failure struct {
	Fn  string
	Err error
}

func (f *Failure) Error() string { return fmt.Sprintf("%s failed: %v", f.Fn, f.Err) }
func (f *Failure) Unwrap() error { return f.Err }

// IsFailure reports whether an error is a caught-by-try/or failure.
func IsFailure(err error) bool {
	var failure *Failure
	return errors.As(err, &failure)
}

type (
	// Impl is the host side of one registered function. Argument values are
	// already evaluated, except block arguments which arrive as *Block and
	// run on demand through Invoke.
	Impl func(call *Call) (any, error)
	// Call carries the evaluated arguments of one application, keyed by
	// keyword in written order.
	Call struct {
		interp *Interp
		fn     *types.Function
		args   map[string][]any
	}
)

// Fn returns the signature being applied.
func (c *Call) Fn() *types.Function { return c.fn }

// Get returns the first value given under a keyword.
func (c *Call) Get(keyword string) (any, bool) {
	vals := c.args[keyword]
	if len(vals) == 0 {
		return nil, false
	}
	return vals[0], true
}

// Demand returns the value of a keyword the checker guarantees is present.
func (c *Call) Demand(keyword string) (any, error) {
	val, ok := c.Get(keyword)
	if !ok {
		return nil, fmt.Errorf("%s: missing keyword %q", c.fn.Name, keyword)
	}
	return val, nil
}

// Number is Demand for a number argument.
func (c *Call) Number(keyword string) (float64, error) {
	val, err := c.Demand(keyword)
	if err != nil {
		return 0, err
	}
	num, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: keyword %q is a %s, not a number", c.fn.Name, keyword, TypeName(val))
	}
	return num, nil
}

// All returns every value given under a keyword, for variadic parameters.
func (c *Call) All(keyword string) []any { return c.args[keyword] }

// Invoke runs a block argument with the given inputs. A block declaring
// fewer parameters than inputs ignores the surplus; a plain value is its own
// result, which is what an unwrappable argument evaluates to.
func (c *Call) Invoke(v any, inputs ...any) (any, error) {
	blk, ok := v.(*Block)
	if !ok {
		return v, nil
	}
	env := blk.env
	for i, name := range blk.params {
		if i >= len(inputs) {
			return nil, fmt.Errorf("%s: block needs %d inputs but got %d", c.fn.Name, len(blk.params), len(inputs))
		}
		env = env.bind(name, inputs[i])
	}
	return c.interp.eval(blk.body, env)
}

// Fail reports the declared failure of a partial function.
func (c *Call) Fail(msg string, data ...any) error {
	return &Failure{Fn: c.fn.Name, Err: fmt.Errorf(msg, data...)}
}
