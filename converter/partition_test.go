package converter

import (
	"testing"

	"github.com/erraggy/poetry2uv/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseTable parses src and returns the table at path.
func parseTable(t *testing.T, src string, path ...string) *manifest.Table {
	t.Helper()
	res, err := manifest.ParseWithOptions(manifest.WithBytes([]byte(src)))
	require.NoError(t, err)
	tbl, ok := res.Document.LookupTable(path...)
	require.True(t, ok, "no table at %v", path)
	return tbl
}

func testBuilder() *builder {
	return newBuilder(manifest.NewTable(), GenerationLegacy, nil, manifest.NopLogger{})
}

var depsPath = []string{"tool", "poetry", "dependencies"}

func TestPartitionSkipsPython(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.dependencies]
python = "^3.12"
pytest = "*"
pytest-cov = "*"
jira = "^3.8.0"
`, depsPath...)

	b := testBuilder()
	p := b.partitionDependencies(deps, depsPath)
	assert.Equal(t, []string{"pytest", "pytest-cov", "jira>=3.8.0"}, p.specifiers)
	assert.Empty(t, p.optional)
	assert.Empty(t, p.sources)
	assert.Empty(t, b.issues)
}

func TestPartitionExtras(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.dependencies]
python = "^3.12"
pytest = "*"
pandas = {version="^2.2.1", extras=["computation", "performance"]}
fastapi = {version="^0.92.0", extras=["all"]}
`, depsPath...)

	p := testBuilder().partitionDependencies(deps, depsPath)
	assert.Equal(t, []string{
		"pytest",
		"pandas[computation]>=2.2.1",
		"pandas[performance]>=2.2.1",
		"fastapi[all]>=0.92.0",
	}, p.specifiers)
}

func TestPartitionOptionalAndSource(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.dependencies]
jira = { version = "^3.8.0", optional = true }
requests = { version = "^2.13.0", source = "private" }
httpx = { version = ">=0.27" }
`, depsPath...)

	p := testBuilder().partitionDependencies(deps, depsPath)
	assert.Equal(t, []string{"requests>=2.13.0", "httpx>=0.27"}, p.specifiers)
	assert.Equal(t, []string{"jira"}, p.optionalOrder)
	assert.Equal(t, ">=3.8.0", p.optional["jira"].constraint)
	assert.Equal(t, "tool.poetry.dependencies.jira", p.optional["jira"].path)
	require.Len(t, p.sources, 1)
	assert.Equal(t, "requests", p.sources[0].pkg)
	assert.Equal(t, "private", p.sources[0].source)
}

func TestPartitionClassificationPriority(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.dependencies]
all = { version = "^1.0", extras = ["x"], optional = true, source = "private" }
opt = { version = "^2.0", optional = true, source = "private" }
`, depsPath...)

	p := testBuilder().partitionDependencies(deps, depsPath)
	assert.Equal(t, []string{"all[x]>=1.0"}, p.specifiers)
	assert.Equal(t, []string{"opt"}, p.optionalOrder)
	assert.Empty(t, p.sources)
}

func TestPartitionUnconvertible(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.dependencies]
local = { path = "../local", develop = true }
weird = "latest"
multi = [
    { version = "^1.0", python = "<3.10" },
    { version = "^2.0", python = ">=3.10" },
]
`, depsPath...)

	b := testBuilder()
	p := b.partitionDependencies(deps, depsPath)

	// An untranslatable constraint keeps the package, unconstrained.
	assert.Equal(t, []string{"weird"}, p.specifiers)

	require.Len(t, b.issues, 3)
	assert.Equal(t, "tool.poetry.dependencies.local", b.issues[0].Path)
	assert.Equal(t, SeverityCritical, b.issues[0].Severity)
	assert.Equal(t, "tool.poetry.dependencies.weird", b.issues[1].Path)
	assert.Equal(t, SeverityWarning, b.issues[1].Severity)
	assert.Contains(t, b.issues[1].Message, `"latest"`)
	assert.Equal(t, "tool.poetry.dependencies.multi", b.issues[2].Path)
	assert.Equal(t, SeverityCritical, b.issues[2].Severity)
}

func TestPartitionNilTable(t *testing.T) {
	p := testBuilder().partitionDependencies(nil, depsPath)
	assert.Empty(t, p.specifiers)
}

func TestPartitionQuotedNamesInIssuePaths(t *testing.T) {
	deps := parseTable(t, `
[tool.poetry.group."docs.site".dependencies]
"zope.interface" = "latest"
`, "tool", "poetry", "group", "docs.site", "dependencies")

	b := testBuilder()
	b.partitionDependencies(deps, []string{"tool", "poetry", "group", "docs.site", "dependencies"})
	require.Len(t, b.issues, 1)
	assert.Equal(t, `tool.poetry.group."docs.site".dependencies."zope.interface"`, b.issues[0].Path)
}
