package match

import (
	"strings"

	"display-generator/internal/casing"
)

// NormalizeIdent folds an identifier for fuzzy matching: words are split the
// way case styles split them, separators are dropped and everything is
// lowercased, so "orderID", "order_id" and "OrderId" all normalize to
// "orderid".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase words.
func TokenizeIdent(s string) []string {
	words := casing.Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return words
}
