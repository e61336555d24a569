// Package manifest parses and serializes pyproject.toml documents as ordered trees.
//
// Go maps do not remember insertion order, and the usual TOML decoders sort
// keys on output. A converted manifest should read like the original, so this
// package keeps its own tree: a [Table] records keys in document order and
// remembers whether it was written as a standard table, an inline table, or
// an element of an array of tables.
//
// # Parsing
//
// Parse a file with a reusable Parser:
//
//	p := manifest.New()
//	result, err := p.Parse("pyproject.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	name, _ := result.Document.LookupString("tool", "poetry", "name")
//
// Or with functional options:
//
//	result, err := manifest.ParseWithOptions(
//		manifest.WithBytes(data),
//		manifest.WithSourceName("pyproject.toml"),
//	)
//
// Input is first checked by the go-toml decoder, so duplicate keys and table
// redefinitions are reported as *converrors.ParseError with a line and
// column. The ordered tree is then built from go-toml's AST.
//
// # Value types
//
// Values stored in a Table are one of: string, int64, float64, bool,
// [Datetime], []any (an inline array), *Table, or []*Table (an array of
// tables).
//
// # Serializing
//
// [Marshal] writes a Table back as TOML, preserving key order and table kinds.
// Parsed documents also keep their comments: lines above a header or a
// key-value, a comment at the end of the same line, and a preamble at the
// top of the file separated from the first entry by a blank line. A value
// that has not changed since it was parsed is written with its original
// text, so literal strings, hex integers and multi-line arrays survive a
// round trip, and keys written dotted stay dotted. Use [Table.CopyEntry] to
// move an entry between tables with its comments.
//
// [Table.MarshalJSON] and [Table.MarshalYAML] produce order-preserving JSON
// and YAML for reports.
package manifest
