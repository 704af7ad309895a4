package lemonway

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z\d]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Camelize converts a snake_case key into the lowerCamelCase form DirectKit
// expects on the wire. Only underscores split words; the casing of the
// remaining characters is kept, so "wlPDV" and "dom1" pass through unchanged.
func Camelize(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(lowerFirst(part))
			first = false
			continue
		}
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

// Underscore converts a key of any casing into lower_snake_case:
// "RegisterWalletResult" becomes "register_wallet_result" and "HPAY" becomes "hpay".
func Underscore(key string) string {
	out := acronymBoundary.ReplaceAllString(key, "${1}_${2}")
	out = wordBoundary.ReplaceAllString(out, "${1}_${2}")
	out = strings.ReplaceAll(out, "-", "_")
	return strings.ToLower(out)
}

// methodName turns an operation name into its wire method, "money_out" into "MoneyOut".
func methodName(name string) string {
	return upperFirst(Camelize(name))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
