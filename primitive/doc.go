// Package primitive classifies Go built-in scalar types, time.Time and
// time.Duration, and parses their text forms.
package primitive
