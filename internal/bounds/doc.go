// Package bounds infers the capabilities a generic display type requires of
// its type parameters.
//
// A parameter that a template renders must be renderable and a parameter
// that a parse program constructs must be parseable. Fields handled by a
// custom capability contribute nothing, and a path that dereferences into a
// nested value only constrains the type at the end of the path. Known
// generic types are visited with their arguments substituted; unknown ones
// are kept as opaque predicates.
package bounds
