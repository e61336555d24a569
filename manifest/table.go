package manifest

import (
	"iter"
	"slices"
)

// Datetime holds a TOML date, time, or date-time literal exactly as written.
// Keeping the literal text avoids losing the distinction between local and
// offset date-times when a section is copied verbatim.
type Datetime string

// Table is an ordered TOML table.
//
// The zero value is not usable; create tables with [NewTable] or
// [NewInlineTable]. Read accessors are safe to call on a nil *Table and
// report the key as absent, so lookups can be chained without nil checks.
type Table struct {
	keys   []string
	values map[string]any
	inline bool
	// dotted tables were created by dotted keys (a.b = 1) and are written
	// back the same way, inside the parent's body.
	dotted bool

	meta map[string]*entryMeta

	// leading holds the comment lines above the table's header; on the
	// document root they are the preamble. trailing is the text after the
	// header on the same line. footer holds comments after the last entry.
	leading  []string
	trailing string
	footer   []string
}

// entryMeta is the source formatting of one key-value line. Blank lines
// are stored as "" in leading.
type entryMeta struct {
	leading  []string
	trailing string
	// raw is the value as written; it is reused while the value still
	// equals orig.
	raw  string
	orig any
}

func (m *entryMeta) clone() *entryMeta {
	c := *m
	c.leading = slices.Clone(m.leading)
	c.orig = cloneValue(m.orig)
	return &c
}

// NewTable returns an empty standard table, written as a [header] section.
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// NewInlineTable returns an empty inline table, written as { key = value }.
func NewInlineTable() *Table {
	return &Table{values: make(map[string]any), inline: true}
}

// IsInline reports whether the table is written inline.
func (t *Table) IsInline() bool {
	return t != nil && t.inline
}

// SetInline changes how the table is written.
func (t *Table) SetInline(inline bool) {
	t.inline = inline
}

// Comments returns the comment lines written above the table's header, or
// above the first entry for a document root.
func (t *Table) Comments() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.leading)
}

// SetComments replaces the comment lines written above the table's header.
// Each line should start with '#'; an empty string is a blank line.
func (t *Table) SetComments(lines []string) {
	t.leading = slices.Clone(lines)
}

// EntryComments returns the comment lines above key, or nil.
func (t *Table) EntryComments(key string) []string {
	if t == nil || t.meta[key] == nil {
		return nil
	}
	return slices.Clone(t.meta[key].leading)
}

// CopyEntry stores src's value for key under the same key in t, together
// with its comments and source text. It reports whether src has key.
// The value is shared, not copied.
func (t *Table) CopyEntry(src *Table, key string) bool {
	v, ok := src.Get(key)
	if !ok {
		return false
	}
	t.Set(key, v)
	if m := src.meta[key]; m != nil {
		*t.metaFor(key) = *m.clone()
	} else {
		delete(t.meta, key)
	}
	return true
}

func (t *Table) metaFor(key string) *entryMeta {
	if t.meta == nil {
		t.meta = make(map[string]*entryMeta)
	}
	m := t.meta[key]
	if m == nil {
		m = &entryMeta{}
		t.meta[key] = m
	}
	return m
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the table's keys in document order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All iterates over key-value pairs in document order.
func (t *Table) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[key]
	return ok
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Set stores value under key and returns t so calls can be chained.
// A new key is appended; an existing key keeps its position.
// Convenience types are normalized: int becomes int64, []string becomes []any,
// and map[string]string becomes an inline *Table with sorted keys.
func (t *Table) Set(key string, value any) *Table {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = normalize(value)
	return t
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.values[key]; !ok {
		return false
	}
	delete(t.values, key)
	delete(t.meta, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
	return true
}

// GetString returns the string stored under key.
func (t *Table) GetString(key string) (string, bool) {
	v, ok := t.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool returns the bool stored under key.
func (t *Table) GetBool(key string) (bool, bool) {
	v, ok := t.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetTable returns the table stored under key, inline or not.
func (t *Table) GetTable(key string) (*Table, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Table)
	return sub, ok
}

// GetArray returns the inline array stored under key.
func (t *Table) GetArray(key string) ([]any, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// GetTables returns the tables stored under key. Both an array of tables
// ([[key]]) and an inline array whose items are all tables qualify.
func (t *Table) GetTables(key string) ([]*Table, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case []*Table:
		return val, true
	case []any:
		tables := make([]*Table, 0, len(val))
		for _, item := range val {
			sub, ok := item.(*Table)
			if !ok {
				return nil, false
			}
			tables = append(tables, sub)
		}
		return tables, true
	}
	return nil, false
}

// GetStrings returns the inline array under key when every item is a string.
func (t *Table) GetStrings(key string) ([]string, bool) {
	arr, ok := t.GetArray(key)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Lookup follows a key path through nested tables.
func (t *Table) Lookup(path ...string) (any, bool) {
	if len(path) == 0 {
		return t, t != nil
	}
	cur := t
	for _, key := range path[:len(path)-1] {
		next, ok := cur.GetTable(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.Get(path[len(path)-1])
}

// LookupTable follows a key path and returns the table found there.
func (t *Table) LookupTable(path ...string) (*Table, bool) {
	v, ok := t.Lookup(path...)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Table)
	return sub, ok
}

// LookupString follows a key path and returns the string found there.
func (t *Table) LookupString(path ...string) (string, bool) {
	v, ok := t.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Ensure returns the table under key, creating an empty standard table
// if the key is absent. It returns false if key holds a non-table value.
func (t *Table) Ensure(key string) (*Table, bool) {
	v, ok := t.values[key]
	if !ok {
		sub := NewTable()
		t.Set(key, sub)
		return sub, true
	}
	sub, ok := v.(*Table)
	return sub, ok
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{
		keys:     slices.Clone(t.keys),
		values:   make(map[string]any, len(t.values)),
		inline:   t.inline,
		dotted:   t.dotted,
		leading:  slices.Clone(t.leading),
		trailing: t.trailing,
		footer:   slices.Clone(t.footer),
	}
	for k, v := range t.values {
		c.values[k] = cloneValue(v)
	}
	if t.meta != nil {
		c.meta = make(map[string]*entryMeta, len(t.meta))
		for k, m := range t.meta {
			c.meta[k] = m.clone()
		}
	}
	return c
}

// ToMap converts the table to plain Go maps and slices, dropping key order.
// Datetime values become strings and arrays of tables become []any.
func (t *Table) ToMap() map[string]any {
	if t == nil {
		return nil
	}
	m := make(map[string]any, len(t.values))
	for k, v := range t.values {
		m[k] = plainValue(v)
	}
	return m
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Table:
		return val.Clone()
	case []*Table:
		out := make([]*Table, len(val))
		for i, sub := range val {
			out[i] = sub.Clone()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Table:
		return val.ToMap()
	case []*Table:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = sub.ToMap()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	case Datetime:
		return string(val)
	default:
		return v
	}
}

func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case map[string]string:
		sub := NewInlineTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			sub.Set(k, val[k])
		}
		return sub
	default:
		return v
	}
}
