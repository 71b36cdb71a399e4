package runtime

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/rainbowlang/rainbow/src/registry"
	"github.com/rainbowlang/rainbow/src/types"
)

// Effect tags declared by the prelude. The tags are opaque to the checker;
// they exist so hosts can refuse or sandbox scripts by their inferred set.
var (
	// EffectOutput tags functions that write to the host's output stream.
	EffectOutput = types.EffectTag("Output")
	// EffectClock tags functions that read the wall clock.
	EffectClock = types.EffectTag("Clock")
)

// registerPrelude installs the built-in vocabulary. Without type variables
// every signature is monomorphic; the block-taking functions are fixed to
// numbers, with ifText as the string twin of if.
func registerPrelude(in *Interp) error {
	var (
		number  = types.Number
		str     = types.String
		boolean = types.Boolean
		numbers = types.ListOf(number)
		strs    = types.ListOf(str)
	)
	defs := []struct {
		sig  *registry.Builder
		impl Impl
	}{
		{registry.Func("not", boolean).Returns(boolean), stdNot},
		{registry.Func("if", boolean).
			VarArg("and", types.Quoted(boolean)).
			VarArg("or", types.Quoted(boolean)).
			Arg("then", types.Quoted(number)).
			Arg("else", types.Quoted(number)).
			Returns(number), stdCond},
		{registry.Func("ifText", boolean).
			VarArg("and", types.Quoted(boolean)).
			VarArg("or", types.Quoted(boolean)).
			Arg("then", types.Quoted(str)).
			Arg("else", types.Quoted(str)).
			Returns(str), stdCond},
		{registry.Func("compare", number).
			OptArg("isAbove", number).
			OptArg("isBelow", number).
			OptArg("equals", number).
			Returns(boolean), stdCompare},
		{registry.Func("calc", number).
			VarArg("plus", number).
			VarArg("minus", number).
			VarArg("times", number).
			VarArg("dividedBy", number).
			Returns(number).Partial(), stdCalc},
		{registry.Func("divide", number).Arg("by", number).Returns(number).Partial(), stdDivide},
		{registry.Func("sum", numbers).Returns(number), stdSum},
		{registry.Func("max", number).Arg("or", number).Returns(number), stdMax},
		{registry.Func("min", number).Arg("or", number).Returns(number), stdMin},
		{registry.Func("countFrom", number).
			Arg("to", number).
			OptArg("by", number).
			Returns(numbers), stdCountFrom},
		{registry.Func("each", numbers).
			Arg("do", types.BlockOf(number, number)).
			Returns(numbers), stdEach},
		{registry.Func("with", number).
			Arg("do", types.BlockOf(number, number)).
			Returns(number), stdWith},
		{registry.Func("distance", point()).Arg("to", point()).Returns(number), stdDistance},
		{registry.Func("upperCase", str).Returns(str), stdUpperCase},
		{registry.Func("lowerCase", str).Returns(str), stdLowerCase},
		{registry.Func("join", strs).OptArg("with", str).Returns(str), stdJoin},
		{registry.Func("length", str).Returns(number), stdLength},
		{registry.Func("size", numbers).Returns(number), stdSize},
		{registry.Func("stringify", number).Returns(str), stdStringify},
		{registry.Func("timeOf", str).Returns(types.Time).Partial(), stdTimeOf},
		{registry.Func("now", types.RecordOf()).Returns(types.Time).Effects(EffectClock), stdNow},
		{registry.Func("formatTime", types.Time).
			Arg("as", str).
			Returns(str).Partial(), stdFormatTime},
		{registry.Func("print", str).Returns(str).Effects(EffectOutput), stdPrint},
	}
	for _, def := range defs {
		if err := in.Define(def.sig.Signature(), def.impl); err != nil {
			return err
		}
	}
	return nil
}

func stdNot(c *Call) (any, error) {
	val, err := c.Demand("not")
	if err != nil {
		return nil, err
	}
	return !val.(bool), nil
}

// stdCond backs both if and ifText. The condition is anded with every and
// arm and ored with every or arm, lazily, then exactly one of then/else runs.
func stdCond(c *Call) (any, error) {
	val, err := c.Demand(c.fn.Name)
	if err != nil {
		return nil, err
	}
	cond := val.(bool)
	for _, arm := range c.All("and") {
		if !cond {
			break
		}
		val, err := c.Invoke(arm)
		if err != nil {
			return nil, err
		}
		cond = val.(bool)
	}
	for _, arm := range c.All("or") {
		if cond {
			break
		}
		val, err := c.Invoke(arm)
		if err != nil {
			return nil, err
		}
		cond = val.(bool)
	}
	branch := "else"
	if cond {
		branch = "then"
	}
	arm, err := c.Demand(branch)
	if err != nil {
		return nil, err
	}
	return c.Invoke(arm)
}

func stdCompare(c *Call) (any, error) {
	num, err := c.Number("compare")
	if err != nil {
		return nil, err
	}
	if above, ok := c.Get("isAbove"); ok && num <= above.(float64) {
		return false, nil
	}
	if below, ok := c.Get("isBelow"); ok && num >= below.(float64) {
		return false, nil
	}
	if eq, ok := c.Get("equals"); ok && num != eq.(float64) {
		return false, nil
	}
	return true, nil
}

func stdCalc(c *Call) (any, error) {
	acc, err := c.Number("calc")
	if err != nil {
		return nil, err
	}
	for _, val := range c.All("plus") {
		acc += val.(float64)
	}
	for _, val := range c.All("minus") {
		acc -= val.(float64)
	}
	for _, val := range c.All("times") {
		acc *= val.(float64)
	}
	for _, val := range c.All("dividedBy") {
		div := val.(float64)
		if div == 0 {
			return nil, c.Fail("division by zero")
		}
		acc /= div
	}
	return acc, nil
}

func stdDivide(c *Call) (any, error) {
	num, err := c.Number("divide")
	if err != nil {
		return nil, err
	}
	div, err := c.Number("by")
	if err != nil {
		return nil, err
	}
	if div == 0 {
		return nil, c.Fail("division by zero")
	}
	return num / div, nil
}

func stdSum(c *Call) (any, error) {
	val, err := c.Demand("sum")
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, el := range val.([]any) {
		total += el.(float64)
	}
	return total, nil
}

func stdMax(c *Call) (any, error) {
	return pick(c, "max", func(a, b float64) bool { return a >= b })
}

func stdMin(c *Call) (any, error) {
	return pick(c, "min", func(a, b float64) bool { return a <= b })
}

func pick(c *Call, name string, keep func(a, b float64) bool) (any, error) {
	a, err := c.Number(name)
	if err != nil {
		return nil, err
	}
	b, err := c.Number("or")
	if err != nil {
		return nil, err
	}
	if keep(a, b) {
		return a, nil
	}
	return b, nil
}

func stdCountFrom(c *Call) (any, error) {
	from, err := c.Number("countFrom")
	if err != nil {
		return nil, err
	}
	to, err := c.Number("to")
	if err != nil {
		return nil, err
	}
	by := 1.0
	if val, ok := c.Get("by"); ok {
		by = val.(float64)
	}
	if by == 0 {
		by = 1
	}
	if (by > 0) != (from <= to) {
		by = -by
	}
	list := []any{}
	for val := from; (by > 0 && val <= to) || (by < 0 && val >= to); val += by {
		list = append(list, val)
	}
	return list, nil
}

func stdEach(c *Call) (any, error) {
	src, err := c.Demand("each")
	if err != nil {
		return nil, err
	}
	blk, err := c.Demand("do")
	if err != nil {
		return nil, err
	}
	elems := src.([]any)
	out := make([]any, 0, len(elems))
	for _, el := range elems {
		val, err := c.Invoke(blk, el)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func stdWith(c *Call) (any, error) {
	val, err := c.Demand("with")
	if err != nil {
		return nil, err
	}
	blk, err := c.Demand("do")
	if err != nil {
		return nil, err
	}
	return c.Invoke(blk, val)
}

func point() *types.Record {
	return types.RecordOf(
		types.Field{Name: "x", Type: types.Number},
		types.Field{Name: "y", Type: types.Number},
	)
}

func stdDistance(c *Call) (any, error) {
	from, err := c.Demand("distance")
	if err != nil {
		return nil, err
	}
	to, err := c.Demand("to")
	if err != nil {
		return nil, err
	}
	a, b := from.(map[string]any), to.(map[string]any)
	dx := a["x"].(float64) - b["x"].(float64)
	dy := a["y"].(float64) - b["y"].(float64)
	return math.Sqrt(dx*dx + dy*dy), nil
}

func stdUpperCase(c *Call) (any, error) {
	val, err := c.Demand("upperCase")
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(val.(string)), nil
}

func stdLowerCase(c *Call) (any, error) {
	val, err := c.Demand("lowerCase")
	if err != nil {
		return nil, err
	}
	return strings.ToLower(val.(string)), nil
}

func stdJoin(c *Call) (any, error) {
	val, err := c.Demand("join")
	if err != nil {
		return nil, err
	}
	sep := ""
	if with, ok := c.Get("with"); ok {
		sep = with.(string)
	}
	parts := []string{}
	for _, el := range val.([]any) {
		parts = append(parts, el.(string))
	}
	return strings.Join(parts, sep), nil
}

func stdLength(c *Call) (any, error) {
	val, err := c.Demand("length")
	if err != nil {
		return nil, err
	}
	return float64(len([]rune(val.(string)))), nil
}

func stdSize(c *Call) (any, error) {
	val, err := c.Demand("size")
	if err != nil {
		return nil, err
	}
	return float64(len(val.([]any))), nil
}

func stdStringify(c *Call) (any, error) {
	val, err := c.Demand("stringify")
	if err != nil {
		return nil, err
	}
	return Render(val), nil
}

func stdTimeOf(c *Call) (any, error) {
	val, err := c.Demand("timeOf")
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339, val.(string))
	if err != nil {
		return nil, c.Fail("%q is not an RFC3339 time", val)
	}
	return at, nil
}

func stdNow(c *Call) (any, error) {
	return time.Now(), nil
}

func stdFormatTime(c *Call) (any, error) {
	val, err := c.Demand("formatTime")
	if err != nil {
		return nil, err
	}
	pattern, err := c.Demand("as")
	if err != nil {
		return nil, err
	}
	out, err := strftime.Format(pattern.(string), val.(time.Time))
	if err != nil {
		return nil, c.Fail("bad time format %q: %v", pattern, err)
	}
	return out, nil
}

func stdPrint(c *Call) (any, error) {
	val, err := c.Demand("print")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(c.interp.stdout, val.(string)); err != nil {
		return nil, err
	}
	return val, nil
}
