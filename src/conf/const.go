// Package conf contains the constants that are used across packages for
// configuring versions and traversal limits.
package conf

const (
	// VERSION is the version of the rainbow toolchain.
	VERSION = "Rainbow 0.1.0"
	// MAXDEPTH is the maximum term nesting the parser will accept. Bounding
	// the AST depth at parse time bounds every later traversal (coercion,
	// checking, evaluation) so a pathologically deep script cannot exhaust
	// the call stack.
	MAXDEPTH = 200
	// MAXERRORS caps how many type errors the checker collects for one
	// script before it stops looking for more.
	MAXERRORS = 64
)

// FullVersion returns the version line printed by the CLI and REPL.
func FullVersion() string {
	return VERSION + " (total, statically typed, effect tracked)"
}
