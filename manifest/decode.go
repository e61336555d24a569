package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/poetry2uv/converrors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// decode validates data as TOML and builds the ordered tree.
func decode(data []byte, source string) (*Table, error) {
	// The AST parser does not reject duplicate keys or redefined tables,
	// so let the full decoder judge well-formedness first.
	var probe map[string]any
	if err := toml.Unmarshal(data, &probe); err != nil {
		return nil, wrapDecodeError(err, source)
	}

	d := &decoder{data: data, root: NewTable()}
	d.current = d.root

	p := unstable.Parser{KeepComments: true}
	p.Reset(data)
	for p.NextExpression() {
		if err := d.expression(p.Expression()); err != nil {
			return nil, &converrors.ParseError{Path: source, Message: err.Error()}
		}
	}
	if err := p.Error(); err != nil {
		return nil, &converrors.ParseError{Path: source, Cause: err}
	}
	d.finish()

	return d.root, nil
}

func wrapDecodeError(err error, source string) error {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return &converrors.ParseError{
			Path:    source,
			Line:    row,
			Column:  col,
			Key:     strings.Join(decErr.Key(), "."),
			Message: decErr.Error(),
		}
	}
	return &converrors.ParseError{Path: source, Cause: err}
}

// decoder builds the tree one top-level expression at a time. The AST does
// not record where a key-value ends, so the source text of a value stays
// open until the next expression starts.
type decoder struct {
	data    []byte
	root    *Table
	current *Table

	// comments are the lines waiting for the next key or header.
	comments []string
	seen     bool

	open   *entryMeta
	openAt int
	// end is the offset just past the previous expression.
	end int
}

func (d *decoder) expression(e *unstable.Node) error {
	start := d.start(e)
	d.closeOpen(start)
	if d.end > 0 && bytes.Count(d.data[d.end:start], []byte{'\n'}) > 1 {
		d.comments = append(d.comments, "")
	}

	switch e.Kind {
	case unstable.Comment:
		d.comments = append(d.comments, commentText(e.Data))
		d.end = int(e.Raw.Offset + e.Raw.Length)
		return nil

	case unstable.Table:
		path := keyPath(e.Key())
		t, err := descend(d.root, path, NewTable)
		if err != nil {
			return err
		}
		t.dotted = false
		t.leading = d.takeComments()
		t.trailing = d.headerTrailing(e, "]")
		d.current = t

	case unstable.ArrayTable:
		path := keyPath(e.Key())
		parent, err := descend(d.root, path[:len(path)-1], NewTable)
		if err != nil {
			return err
		}
		last := path[len(path)-1]
		elem := NewTable()
		switch existing := parent.values[last].(type) {
		case nil:
			parent.Set(last, []*Table{elem})
		case []*Table:
			parent.values[last] = append(existing, elem)
		default:
			return fmt.Errorf("key %s is not an array of tables", strings.Join(path, "."))
		}
		elem.leading = d.takeComments()
		elem.trailing = d.headerTrailing(e, "]]")
		d.current = elem

	case unstable.KeyValue:
		owner, key, err := setKeyValue(d.current, e, dottedTable)
		if err != nil {
			return err
		}
		m := owner.metaFor(key)
		m.leading = d.takeComments()
		m.orig = cloneValue(owner.values[key])
		d.open, d.openAt = m, d.valueStart(e)
		if c := e.Next(); c != nil && c.Kind == unstable.Comment {
			d.closeOpen(int(c.Raw.Offset))
			m.trailing = string(d.data[d.end:c.Raw.Offset]) + commentText(c.Data)
			d.end = int(c.Raw.Offset + c.Raw.Length)
		}
	}
	d.seen = true
	return nil
}

// finish closes the last value and keeps comments after the last entry.
func (d *decoder) finish() {
	d.closeOpen(len(d.data))
	if len(d.comments) > 0 {
		d.current.footer = d.takeComments()
	}
}

// takeComments hands the pending comment lines to the next entry. A block
// at the top of the document that is followed by a blank line describes
// the whole file and becomes the root's preamble.
func (d *decoder) takeComments() []string {
	lines := d.comments
	d.comments = nil
	if !d.seen {
		if i := slices.Index(lines, ""); i > 0 {
			d.root.leading = lines[:i]
			lines = lines[i+1:]
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}

func (d *decoder) closeOpen(limit int) {
	if d.open == nil {
		return
	}
	raw := bytes.TrimRight(d.data[d.openAt:limit], " \t\r\n")
	d.open.raw = string(raw)
	d.end = d.openAt + len(raw)
	d.open = nil
}

// start returns the offset at which e begins in the input.
func (d *decoder) start(e *unstable.Node) int {
	switch e.Kind {
	case unstable.Comment:
		return int(e.Raw.Offset)
	case unstable.Table, unstable.ArrayTable:
		first := e.Key()
		first.Next()
		i := bytes.LastIndexByte(d.data[:first.Node().Raw.Offset], '[')
		if e.Kind == unstable.ArrayTable {
			i = bytes.LastIndexByte(d.data[:i], '[')
		}
		return i
	default:
		first := e.Key()
		first.Next()
		return int(first.Node().Raw.Offset)
	}
}

// valueStart returns the offset of the value text of a key-value.
func (d *decoder) valueStart(e *unstable.Node) int {
	i := lastKeyEnd(e)
	i += bytes.IndexByte(d.data[i:], '=') + 1
	for i < len(d.data) && (d.data[i] == ' ' || d.data[i] == '\t') {
		i++
	}
	return i
}

// headerTrailing returns the same-line comment after a table header,
// including the whitespace before it, and advances end past the header.
func (d *decoder) headerTrailing(e *unstable.Node, closer string) string {
	i := lastKeyEnd(e)
	d.end = i + bytes.Index(d.data[i:], []byte(closer)) + len(closer)
	c := e.Next()
	if c == nil || c.Kind != unstable.Comment {
		return ""
	}
	trailing := string(d.data[d.end:c.Raw.Offset]) + commentText(c.Data)
	d.end = int(c.Raw.Offset + c.Raw.Length)
	return trailing
}

func lastKeyEnd(e *unstable.Node) int {
	var last *unstable.Node
	it := e.Key()
	for it.Next() {
		last = it.Node()
	}
	return int(last.Raw.Offset + last.Raw.Length)
}

func commentText(b []byte) string {
	return strings.TrimRight(string(b), "\r")
}

// setKeyValue assigns a key-value expression, creating tables for dotted
// keys with mk. It returns the table that received the value and its key.
func setKeyValue(target *Table, kv *unstable.Node, mk func() *Table) (*Table, string, error) {
	path := keyPath(kv.Key())
	parent, err := descend(target, path[:len(path)-1], mk)
	if err != nil {
		return nil, "", err
	}
	v, err := value(kv.Value())
	if err != nil {
		return nil, "", fmt.Errorf("key %s: %w", strings.Join(path, "."), err)
	}
	key := path[len(path)-1]
	parent.Set(key, v)
	return parent, key, nil
}

func dottedTable() *Table {
	t := NewTable()
	t.dotted = true
	return t
}

// descend walks path from t, creating missing tables with mk. When a
// segment names an array of tables, the walk continues into its last
// element.
func descend(t *Table, path []string, mk func() *Table) (*Table, error) {
	cur := t
	for i, key := range path {
		switch v := cur.values[key].(type) {
		case nil:
			next := mk()
			cur.Set(key, next)
			cur = next
		case *Table:
			cur = v
		case []*Table:
			cur = v[len(v)-1]
		default:
			return nil, fmt.Errorf("key %s is not a table", strings.Join(path[:i+1], "."))
		}
	}
	return cur, nil
}

func keyPath(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func value(n *unstable.Node) (any, error) {
	switch n.Kind {
	case unstable.String:
		return string(n.Data), nil
	case unstable.Bool:
		return string(n.Data) == "true", nil
	case unstable.Integer:
		return parseInteger(string(n.Data))
	case unstable.Float:
		return parseFloat(string(n.Data))
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return Datetime(n.Data), nil
	case unstable.Array:
		items := []any{}
		it := n.Children()
		for it.Next() {
			if it.Node().Kind == unstable.Comment {
				continue
			}
			v, err := value(it.Node())
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case unstable.InlineTable:
		t := NewInlineTable()
		it := n.Children()
		for it.Next() {
			if _, _, err := setKeyValue(t, it.Node(), NewInlineTable); err != nil {
				return nil, err
			}
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", n.Kind)
	}
}

func parseInteger(raw string) (int64, error) {
	// Base 0 understands the 0x, 0o and 0b prefixes TOML shares with Go.
	i, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	return i, nil
}

func parseFloat(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "_", "")
	switch s {
	case "nan", "+nan", "-nan":
		return math.NaN(), nil
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q: %w", raw, err)
	}
	return f, nil
}
