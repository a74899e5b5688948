// Package fmtspec parses the format-spec mini-language that follows the ':'
// of a template placeholder: fill, alignment, sign, alternate and zero flags,
// width, precision and a trailing render-kind indicator.
package fmtspec
