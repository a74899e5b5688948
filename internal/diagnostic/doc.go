// Package diagnostic collects structured compile diagnostics for display
// schemas: errors that abort a type, warnings about hazardous configuration
// (such as optional fields that can match the empty string) and informational
// notes about dispatch decisions.
package diagnostic
