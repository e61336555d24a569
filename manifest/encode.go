package manifest

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxInlineWidth is the line width above which arrays are split one item per line.
const maxInlineWidth = 88

// Marshal serializes t as a TOML document.
//
// Keys keep their order. Scalar and inline values of a table are written
// before its sub-tables, as TOML requires. Standard tables get a [header]
// only when they hold values of their own, are empty, or carry comments,
// so a table that only groups sub-tables (like "tool") produces no header.
// Arrays whose single-line form is too wide, or that hold inline tables,
// are written one item per line with a trailing comma.
//
// Entries read by [Parse] keep their comments, and their value text is
// written as it appeared in the source for as long as the value is
// unchanged. Tables created by dotted keys are written as dotted keys.
func Marshal(t *Table) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("manifest: cannot marshal nil table")
	}
	e := &encoder{}
	if len(t.leading) > 0 {
		e.lines(t.leading)
		e.buf.WriteByte('\n')
	}
	if err := e.table(nil, t, false); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

// bodyEntry is a key-value line of a section. keys is the key path
// relative to the section, longer than one for dotted keys.
type bodyEntry struct {
	keys  []string
	owner *Table
	key   string
}

// subSection is a table written under its own header, relative to the
// section that contains it.
type subSection struct {
	keys  []string
	value any
}

// layout splits t into the lines of its own body and the sections nested
// under it, walking into dotted tables.
func layout(t *Table, prefix []string, body *[]bodyEntry, sections *[]subSection) {
	for _, k := range t.keys {
		keys := append(prefix[:len(prefix):len(prefix)], k)
		v := t.values[k]
		if sub, ok := v.(*Table); ok && sub.dotted && !sub.inline && sub.Len() > 0 {
			layout(sub, keys, body, sections)
			continue
		}
		if isSection(v) {
			*sections = append(*sections, subSection{keys: keys, value: v})
			continue
		}
		*body = append(*body, bodyEntry{keys: keys, owner: t, key: k})
	}
}

// section starts a new [header] or [[header]], separated by a blank line.
func (e *encoder) section(t *Table, header string) {
	if e.buf.Len() > 0 && !bytes.HasSuffix(e.buf.Bytes(), []byte("\n\n")) {
		e.buf.WriteByte('\n')
	}
	e.lines(trimBlank(t.leading))
	e.buf.WriteString(header)
	e.buf.WriteString(t.trailing)
	e.buf.WriteByte('\n')
}

func (e *encoder) table(path []string, t *Table, element bool) error {
	var body []bodyEntry
	var sections []subSection
	layout(t, nil, &body, &sections)

	switch {
	case element:
		e.section(t, "[["+formatKeyPath(path)+"]]")
	case len(path) > 0 && (len(body) > 0 || len(sections) == 0 || t.hasComments()):
		e.section(t, "["+formatKeyPath(path)+"]")
	}
	for _, entry := range body {
		if err := e.entry(entry); err != nil {
			return err
		}
	}
	e.lines(t.footer)

	for _, s := range sections {
		sub := append(path[:len(path):len(path)], s.keys...)
		switch v := s.value.(type) {
		case *Table:
			if err := e.table(sub, v, false); err != nil {
				return err
			}
		case []*Table:
			for _, elem := range v {
				if err := e.table(sub, elem, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *encoder) entry(entry bodyEntry) error {
	prefix := formatKeyPath(entry.keys) + " = "
	v := entry.owner.values[entry.key]
	m := entry.owner.meta[entry.key]

	var text string
	if m != nil && m.raw != "" && reflect.DeepEqual(m.orig, v) {
		text = m.raw
	} else {
		s, err := formatValue(v, len(prefix))
		if err != nil {
			return fmt.Errorf("manifest: key %s: %w", formatKeyPath(entry.keys), err)
		}
		text = s
	}

	if m != nil {
		e.lines(m.leading)
	}
	e.buf.WriteString(prefix)
	e.buf.WriteString(text)
	if m != nil {
		e.buf.WriteString(m.trailing)
	}
	e.buf.WriteByte('\n')
	return nil
}

func (t *Table) hasComments() bool {
	return len(t.leading) > 0 || t.trailing != "" || len(t.footer) > 0
}

// lines writes comment lines; "" is a blank line.
func (e *encoder) lines(lines []string) {
	for _, l := range lines {
		if l == "" && e.buf.Len() == 0 {
			continue
		}
		e.buf.WriteString(l)
		e.buf.WriteByte('\n')
	}
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return lines
}

// isSection reports whether v is written as its own section rather than inline.
func isSection(v any) bool {
	switch val := v.(type) {
	case *Table:
		return !val.inline
	case []*Table:
		return len(val) > 0
	}
	return false
}

// formatValue renders v inline. indent is the column at which it starts and
// only affects the choice between single-line and multi-line arrays.
func formatValue(v any, indent int) (string, error) {
	switch val := v.(type) {
	case string:
		return quote(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return formatFloat(val), nil
	case Datetime:
		return string(val), nil
	case *Table:
		return formatInlineTable(val)
	case []*Table:
		items := make([]any, len(val))
		for i, sub := range val {
			items[i] = sub
		}
		return formatArray(items, indent)
	case []any:
		return formatArray(val, indent)
	case []string:
		return formatValue(normalize(val), indent)
	case nil:
		return "", fmt.Errorf("nil value")
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func formatInlineTable(t *Table) (string, error) {
	if t.Len() == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, t.Len())
	for _, k := range t.keys {
		s, err := formatValue(t.values[k], 0)
		if err != nil {
			return "", fmt.Errorf("key %s: %w", k, err)
		}
		parts = append(parts, formatKey(k)+" = "+s)
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}

func formatArray(items []any, indent int) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	rendered := make([]string, len(items))
	multiline := false
	for i, item := range items {
		s, err := formatValue(item, 4)
		if err != nil {
			return "", err
		}
		if _, ok := item.(*Table); ok {
			multiline = true
		}
		if strings.Contains(s, "\n") {
			multiline = true
		}
		rendered[i] = s
	}

	single := "[" + strings.Join(rendered, ", ") + "]"
	if !multiline && indent+utf8.RuneCountInString(single) <= maxInlineWidth {
		return single, nil
	}

	var sb strings.Builder
	sb.WriteString("[\n")
	for _, s := range rendered {
		sb.WriteString("    ")
		sb.WriteString(strings.ReplaceAll(s, "\n", "\n    "))
		sb.WriteString(",\n")
	}
	sb.WriteString("]")
	return sb.String(), nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatKeyPath(path []string) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = formatKey(k)
	}
	return strings.Join(parts, ".")
}

func formatKey(k string) string {
	if isBareKey(k) {
		return k
	}
	return quote(k)
}

func isBareKey(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
