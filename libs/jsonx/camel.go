package jsonx

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
)

// lowerCamelExtension writes every field as lowerCamelCase.
// Decoding also accepts the name the field would have without it.
type lowerCamelExtension struct {
	jsoniter.DummyExtension
}

func (e *lowerCamelExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		tag, hasTag := binding.Field.Tag().Lookup("json")
		if tag == "-" {
			continue
		}
		name := binding.Field.Name()
		if hasTag {
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		if camel := toLowerFirstCamel(name); camel != name {
			binding.ToNames = []string{camel}
			binding.FromNames = []string{camel, name}
		}
	}
}

// toLowerFirstCamel maps "decimal_places" and "DecimalPlaces" to "decimalPlaces".
func toLowerFirstCamel(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	upperNext := false
	for _, r := range s {
		switch {
		case r == '_':
			upperNext = sb.Len() > 0
		case sb.Len() == 0:
			sb.WriteRune(unicode.ToLower(r))
		case upperNext:
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
