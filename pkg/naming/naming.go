// Package naming converts C identifiers to the C++ naming conventions of
// the target code base.
package naming

import (
	"strings"
	"unicode"
)

// ToCamel converts snake_case to camelCase: number_of_values -> numberOfValues.
// Leading underscores are kept and names without underscores are unchanged.
func ToCamel(name string) string {
	trimmed := strings.TrimLeft(name, "_")
	prefix := name[:len(name)-len(trimmed)]
	parts := strings.Split(trimmed, "_")
	if len(parts) == 1 {
		return name
	}
	var b strings.Builder
	b.WriteString(prefix)
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		b.WriteString(capitalize(part))
	}
	return b.String()
}

// ToPascal converts snake_case to PascalCase: step_human_readable -> StepHumanReadable
func ToPascal(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		b.WriteString(capitalize(part))
	}
	return b.String()
}

// FunctionName converts a C function name to a C++ method name: get_ and
// set_ prefixes are dropped and the remainder is camelCased.
func FunctionName(name string) string {
	for _, prefix := range []string{"get_", "set_"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			name = rest
			break
		}
	}
	return ToCamel(name)
}

// ClassName returns the C++ class name for an accessor class name:
// grib_accessor_class_bit (or plain bit) -> BitData
func ClassName(cname string) string {
	for _, prefix := range []string{"grib_accessor_class_", "grib_accessor_"} {
		if rest, ok := strings.CutPrefix(cname, prefix); ok {
			cname = rest
			break
		}
	}
	return ToPascal(cname) + "Data"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
