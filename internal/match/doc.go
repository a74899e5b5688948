// Package match scores identifier similarity (normalization plus Levenshtein
// distance) to produce "did you mean" suggestions when a template refers to
// a field that does not exist.
package match
