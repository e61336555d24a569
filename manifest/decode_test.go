package manifest

import (
	"errors"
	"math"
	"testing"

	"github.com/erraggy/poetry2uv/converrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, src string) *Table {
	t.Helper()
	doc, err := decode([]byte(src), "test.toml")
	require.NoError(t, err)
	return doc
}

func TestDecodePoetryManifest(t *testing.T) {
	doc := mustDecode(t, `
[tool.poetry]
name = "demo"
version = "0.1.0"
authors = ["Jane Doe <jane@example.com>"]

[tool.poetry.dependencies]
python = "^3.10"
requests = { version = "^2.31", extras = ["socks"] }

[tool.poetry.group.dev.dependencies]
pytest = "^8.0"

[[tool.poetry.source]]
name = "private"
url = "https://example.com/simple"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`)

	assert.Equal(t, []string{"tool", "build-system"}, doc.Keys())

	poetry, ok := doc.LookupTable("tool", "poetry")
	require.True(t, ok)
	assert.False(t, poetry.IsInline())
	assert.Equal(t, []string{"name", "version", "authors", "dependencies", "group", "source"}, poetry.Keys())

	deps, ok := poetry.GetTable("dependencies")
	require.True(t, ok)
	assert.Equal(t, []string{"python", "requests"}, deps.Keys())

	req, ok := deps.GetTable("requests")
	require.True(t, ok)
	assert.True(t, req.IsInline())
	extras, ok := req.GetStrings("extras")
	require.True(t, ok)
	assert.Equal(t, []string{"socks"}, extras)

	pytest, ok := doc.LookupString("tool", "poetry", "group", "dev", "dependencies", "pytest")
	require.True(t, ok)
	assert.Equal(t, "^8.0", pytest)

	sources, ok := poetry.GetTables("source")
	require.True(t, ok)
	require.Len(t, sources, 1)
	url, _ := sources[0].GetString("url")
	assert.Equal(t, "https://example.com/simple", url)
}

func TestDecodeScalars(t *testing.T) {
	doc := mustDecode(t, `
str = "a\tb"
lit = 'C:\path'
int = 1_000
hex = 0xff
neg = -7
flt = 3.25
exp = 1e3
inf = -inf
nan = nan
yes = true
no = false
date = 1979-05-27
stamp = 1979-05-27T07:32:00Z
`)

	get := func(k string) any {
		v, ok := doc.Get(k)
		require.True(t, ok, k)
		return v
	}
	assert.Equal(t, "a\tb", get("str"))
	assert.Equal(t, `C:\path`, get("lit"))
	assert.Equal(t, int64(1000), get("int"))
	assert.Equal(t, int64(255), get("hex"))
	assert.Equal(t, int64(-7), get("neg"))
	assert.Equal(t, 3.25, get("flt"))
	assert.Equal(t, 1000.0, get("exp"))
	assert.True(t, math.IsInf(get("inf").(float64), -1))
	assert.True(t, math.IsNaN(get("nan").(float64)))
	assert.Equal(t, true, get("yes"))
	assert.Equal(t, false, get("no"))
	assert.Equal(t, Datetime("1979-05-27"), get("date"))
	assert.Equal(t, Datetime("1979-05-27T07:32:00Z"), get("stamp"))
}

func TestDecodeDottedKeys(t *testing.T) {
	doc := mustDecode(t, `
[tool.poetry]
name = "demo"
dependencies.python = "^3.9"
urls."Bug Tracker" = "https://example.com/issues"
`)
	py, ok := doc.LookupString("tool", "poetry", "dependencies", "python")
	require.True(t, ok)
	assert.Equal(t, "^3.9", py)

	bugs, ok := doc.LookupString("tool", "poetry", "urls", "Bug Tracker")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/issues", bugs)
}

func TestDecodeArrayOfTablesWithSubtable(t *testing.T) {
	doc := mustDecode(t, `
[[tool.poetry.packages]]
include = "a"

[[tool.poetry.packages]]
include = "b"

[tool.poetry.packages.extra]
flag = true
`)
	pkgs, ok := doc.LookupTable("tool", "poetry")
	require.True(t, ok)
	list, ok := pkgs.GetTables("packages")
	require.True(t, ok)
	require.Len(t, list, 2)

	include, _ := list[1].GetString("include")
	assert.Equal(t, "b", include)
	extra, ok := list[1].GetTable("extra")
	require.True(t, ok)
	flag, _ := extra.GetBool("flag")
	assert.True(t, flag)
}

func TestDecodeInlineArrays(t *testing.T) {
	doc := mustDecode(t, `
empty = []
nested = [[1, 2], ["a"]]
tables = [{ name = "a" }, { name = "b", dev = true }]
`)
	empty, ok := doc.GetArray("empty")
	require.True(t, ok)
	assert.Empty(t, empty)

	nested, ok := doc.GetArray("nested")
	require.True(t, ok)
	assert.Equal(t, []any{[]any{int64(1), int64(2)}, []any{"a"}}, nested)

	tables, ok := doc.GetTables("tables")
	require.True(t, ok)
	require.Len(t, tables, 2)
	assert.True(t, tables[1].IsInline())
	assert.Equal(t, []string{"name", "dev"}, tables[1].Keys())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing value", "name = \n"},
		{"duplicate key", "a = 1\na = 2\n"},
		{"redefined table", "[a]\nx = 1\n[a]\ny = 2\n"},
		{"unterminated string", "name = \"demo\n"},
		{"bad table header", "[tool.poetry\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode([]byte(tt.src), "bad.toml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, converrors.ErrParse))

			var perr *converrors.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "bad.toml", perr.Path)
		})
	}
}

func TestDecodeErrorPosition(t *testing.T) {
	_, err := decode([]byte("name = \"demo\"\nversion = \n"), "pyproject.toml")
	var perr *converrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Positive(t, perr.Column)
}

func TestDecodeComments(t *testing.T) {
	doc := mustDecode(t, "# preamble\r\n\r\n# about black\r\n[tool.black] # header note\r\n"+
		"# width\r\nline-length = 100 # trailing\r\n\r\nskip = [\r\n  \"a\", # first\r\n]\r\n# last words\r\n")

	assert.Equal(t, []string{"# preamble"}, doc.Comments())

	black, ok := doc.LookupTable("tool", "black")
	require.True(t, ok)
	assert.Equal(t, []string{"# about black"}, black.Comments())
	assert.Equal(t, " # header note", black.trailing)
	assert.Equal(t, []string{"# width"}, black.EntryComments("line-length"))
	assert.Equal(t, " # trailing", black.meta["line-length"].trailing)
	assert.Equal(t, "100", black.meta["line-length"].raw)
	assert.Equal(t, []string{""}, black.EntryComments("skip"), "blank line before skip")
	assert.Equal(t, "[\r\n  \"a\", # first\r\n]", black.meta["skip"].raw)
	assert.Equal(t, []string{"# last words"}, black.footer)

	skip, ok := black.GetStrings("skip")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, skip)
}

func TestDecodeDottedKeysStayDotted(t *testing.T) {
	doc := mustDecode(t, "[tool.poetry]\ndependencies.python = \"^3.9\"\n")
	poetry, ok := doc.LookupTable("tool", "poetry")
	require.True(t, ok)
	deps, ok := poetry.GetTable("dependencies")
	require.True(t, ok)
	assert.True(t, deps.dotted)

	tool, ok := doc.GetTable("tool")
	require.True(t, ok)
	assert.False(t, tool.dotted, "tables implied by a header are not dotted")
}
