// Package gen provides deterministic Go code generation for display types.
//
// Generation approach uses text/template + go/format for readable Go code
// that delegates to the display runtime.
//
// Every display type gets one file holding:
//   - The definition, embedded as YAML and parsed once at init
//   - An options function binding variants, capabilities and nested types
//   - Registration with the runtime (non-generic types)
//   - String, MarshalText and UnmarshalText methods and a Parse function,
//     or Format and Parse functions for interface sum types
package gen
