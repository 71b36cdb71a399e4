package check

import "github.com/rainbowlang/rainbow/src/types"

// scope is an immutable chain of name bindings. Binding returns a new frame
// so that sibling subterms never see each other's block parameters.
type scope struct {
	name string
	ty   types.Type
	next *scope
}

func (s *scope) bind(name string, ty types.Type) *scope {
	return &scope{name: name, ty: ty, next: s}
}

func (s *scope) lookup(name string) (types.Type, bool) {
	for frame := s; frame != nil; frame = frame.next {
		if frame.name == name {
			return frame.ty, true
		}
	}
	return nil, false
}
