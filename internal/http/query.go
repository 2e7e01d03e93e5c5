package http

import (
	"net/url"
	"sort"
	"strings"
)

const upperHex = "0123456789ABCDEF"

// encodeQuery renders values sorted by key like url.Values.Encode, but keeps
// the OData characters $ ( ) , and ' literal so $filter expressions go out as
// written.
func encodeQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	for _, key := range keys {
		for _, value := range values[key] {
			if builder.Len() > 0 {
				builder.WriteByte('&')
			}

			builder.WriteString(escapeQueryComponent(key))
			builder.WriteByte('=')
			builder.WriteString(escapeQueryComponent(value))
		}
	}

	return builder.String()
}

func escapeQueryComponent(component string) string {
	var builder strings.Builder

	builder.Grow(len(component))

	for i := 0; i < len(component); i++ {
		char := component[i]
		if keepLiteral(char) {
			builder.WriteByte(char)

			continue
		}

		builder.WriteByte('%')
		builder.WriteByte(upperHex[char>>4])
		builder.WriteByte(upperHex[char&0x0F])
	}

	return builder.String()
}

func keepLiteral(char byte) bool {
	switch {
	case 'a' <= char && char <= 'z', 'A' <= char && char <= 'Z', '0' <= char && char <= '9':
		return true
	}

	return strings.IndexByte("-._~$(),'", char) >= 0
}
