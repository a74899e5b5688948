// Package template tokenizes display templates such as "{a},{b.x:>4}" into
// literal text, escaped braces and placeholders. Each token records the byte
// span it was read from so later stages can report precise errors.
package template
