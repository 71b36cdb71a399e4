package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rainbowlang/rainbow/src/parse"
	"github.com/rainbowlang/rainbow/src/types"
)

// Values are plain Go values. Numbers are float64, strings string, booleans
// bool, times time.Time, lists []any, records map[string]any and quoted
// blocks *Block. The checker has already proven every script value has one of
// these shapes, so the evaluator only type-asserts, never validates.

// Block is a quoted term closed over the frame it was written in.
type Block struct {
	params []string
	body   parse.Term
	env    *frame
}

// frame is one evaluation binding, chained like the checker's scope.
type frame struct {
	name string
	val  any
	next *frame
}

func (f *frame) bind(name string, val any) *frame {
	return &frame{name: name, val: val, next: f}
}

func (f *frame) lookup(name string) (any, bool) {
	for fr := f; fr != nil; fr = fr.next {
		if fr.name == name {
			return fr.val, true
		}
	}
	return nil, false
}

// TypeName names a value's shape for runtime messages.
func TypeName(v any) string {
	switch v.(type) {
	case float64:
		return string(types.KindNumber)
	case string:
		return string(types.KindString)
	case bool:
		return string(types.KindBoolean)
	case time.Time:
		return string(types.KindTime)
	case []any:
		return "list"
	case map[string]any:
		return "record"
	case *Block:
		return "block"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Render formats a value the way literals are written, for the REPL and for
// stringify.
func Render(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(val))
		for i, el := range val {
			parts[i] = Render(el)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case map[string]any:
		if len(val) == 0 {
			return "[=]"
		}
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + "=" + Render(val[name])
		}
		return "[" + strings.Join(parts, " ") + "]"
	case *Block:
		return val.body.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TypeOf infers the static type of a host-supplied value, for session
// globals. Blocks and empty-shaped values a host cannot express return an
// error.
func TypeOf(v any) (types.Type, error) {
	switch val := v.(type) {
	case float64:
		return types.Number, nil
	case string:
		return types.String, nil
	case bool:
		return types.Boolean, nil
	case time.Time:
		return types.Time, nil
	case []any:
		if len(val) == 0 {
			return types.ListOf(types.Never), nil
		}
		elem, err := TypeOf(val[0])
		if err != nil {
			return nil, err
		}
		return types.ListOf(elem), nil
	case map[string]any:
		fields := make([]types.Field, 0, len(val))
		for name, fv := range val {
			ft, err := TypeOf(fv)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.Field{Name: name, Type: ft})
		}
		return types.RecordOf(fields...), nil
	default:
		return nil, fmt.Errorf("cannot type a %s value", TypeName(v))
	}
}
