package engine

import (
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/parse-bridge/errors"
)

// signature is one member declared in a class's WIT text.
type signature struct {
	name    string
	params  []wit.Type
	results []wit.Type
	static  bool
}

// Pattern: [static] [export] name: func(params) -> result;
var funcPattern = regexp.MustCompile(`(?m)^\s*(static\s+)?(?:export\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// parseSignatures extracts member signatures from WIT text.
func parseSignatures(witText string) (map[string]*signature, error) {
	sigs := make(map[string]*signature)

	for _, match := range funcPattern.FindAllStringSubmatch(witText, -1) {
		sig := &signature{
			static: match[1] != "",
			name:   match[2],
		}

		if paramsStr := strings.TrimSpace(match[3]); paramsStr != "" {
			for _, p := range splitParams(paramsStr) {
				typStr := p
				if idx := strings.LastIndex(p, ":"); idx != -1 {
					typStr = strings.TrimSpace(p[idx+1:])
				}
				t, err := parseWitType(typStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse param type "+typStr)
				}
				sig.params = append(sig.params, t)
			}
		}

		resultStr := strings.TrimSpace(match[4])
		if resultStr != "" && resultStr != "()" {
			if strings.HasPrefix(resultStr, "(") && strings.HasSuffix(resultStr, ")") {
				inner := strings.TrimPrefix(strings.TrimSuffix(resultStr, ")"), "(")
				for _, part := range splitParams(inner) {
					t, err := parseWitType(part)
					if err != nil {
						return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+part)
					}
					sig.results = append(sig.results, t)
				}
			} else {
				t, err := parseWitType(resultStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+resultStr)
				}
				sig.results = []wit.Type{t}
			}
		}

		if _, dup := sigs[sig.name]; dup {
			return nil, errors.InvalidInput(errors.PhaseParse, "duplicate member "+sig.name)
		}
		sigs[sig.name] = sig
	}

	if len(sigs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT text")
	}
	return sigs, nil
}

// splitParams splits a parameter list, handling nested parens.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}
	return result
}

func parseWitType(s string) (wit.Type, error) {
	return wit.ParseType(strings.TrimSpace(s))
}

// camelName converts a kebab-case WIT name to lowerCamel, so "to-string" is
// also reachable as "toString".
func camelName(kebab string) string {
	parts := strings.Split(kebab, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
