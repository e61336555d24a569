package issues

import (
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// getStringBuilder retrieves a builder from the pool and resets it.
func getStringBuilder() *strings.Builder {
	sb := stringBuilderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// putStringBuilder returns a builder to the pool.
func putStringBuilder(sb *strings.Builder) {
	if sb == nil {
		return
	}
	stringBuilderPool.Put(sb)
}

// FormatPath joins key segments into a dotted TOML key path.
// Segments that are not bare keys are double-quoted, so a plugin group
// named "spam.magical" renders as tool.poetry.plugins."spam.magical".
func FormatPath(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	if len(segments) == 1 && isBareKey(segments[0]) {
		return segments[0]
	}

	sb := getStringBuilder()
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		if isBareKey(seg) {
			sb.WriteString(seg)
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(seg, `"`, `\"`))
		sb.WriteByte('"')
	}
	result := sb.String()
	putStringBuilder(sb)
	return result
}

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
