// Package plan provides the resolution pipeline that turns a schema file
// into a Plan consumed by code generation and by the explain command.
//
// Resolution pipeline:
//  1. Analyze packages → shape graph (optional)
//  2. Complete definitions from shapes: field lists, field types, Go
//     field names, type parameters, scalar enum variants
//  3. Validate the schema file
//  4. Compile every type with static capture hints
//  5. Infer generic bounds across the file's types
//  6. Resolve the Go prototype of every enum variant
//  7. Emit diagnostics (compile warnings, missing Go types, bound overrides)
package plan
