// Package analyze loads Go packages and extracts the shapes display
// definitions are completed from.
//
// It uses golang.org/x/tools/go/packages with go/types to describe every
// exported named type of the loaded packages.
//
// Key types:
//   - TypeID: package import path + type name
//   - Shape: kind (struct/interface/scalar/external), type parameters,
//     fields, implementers of interfaces and constants of scalar types
//   - FieldInfo: Go field name, schema type expression, tags
package analyze
