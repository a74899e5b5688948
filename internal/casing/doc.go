// Package casing converts identifier-like tags, such as enum variant names,
// into one of a fixed set of casing conventions.
//
// Supported styles:
//   - none, lowercase, UPPERCASE
//   - snake_case, SNAKE_CASE
//   - camelCase, CamelCase
//   - kebab-case, KEBAB-CASE
//   - Title Case, Title case, title case, TITLE CASE
package casing
