package host

import (
	"strings"
	"unicode"
)

// memberName converts an exported Go method name to its foreign member name.
// Leading acronyms are lowered as a unit: URLPath -> urlPath, IntValue -> intValue.
// String maps to toString.
func memberName(s string) string {
	if s == "String" {
		return "toString"
	}
	if len(s) == 0 {
		return ""
	}

	runes := []rune(s)
	if !unicode.IsUpper(runes[0]) {
		return s
	}

	end := 1
	for end < len(runes) && unicode.IsUpper(runes[end]) {
		end++
	}
	if end > 1 && end < len(runes) && unicode.IsLower(runes[end]) {
		// Last uppercase before lowercase starts the next word
		end--
	}

	var result strings.Builder
	result.Grow(len(s))
	for i := 0; i < end; i++ {
		result.WriteRune(unicode.ToLower(runes[i]))
	}
	result.WriteString(string(runes[end:]))
	return result.String()
}

// reserved lists Go methods that are never exposed as members.
var reserved = map[string]bool{
	"ForeignType": true,
	"Drop":        true,
}
