package converter

import (
	"io/fs"

	"github.com/erraggy/poetry2uv/internal/issues"
	"github.com/erraggy/poetry2uv/manifest"
)

// builder carries the state of a single conversion. It owns a private clone
// of the source document and the target document being assembled, so steps
// can share subtrees between the two without touching the caller's input.
type builder struct {
	gen    Generation
	src    *manifest.Table
	poetry *manifest.Table

	target  *manifest.Table
	project *manifest.Table

	fsys fs.StatFS
	log  manifest.Logger

	issues []ConversionIssue
	stats  Stats

	// optional collects optional dependencies from every partition until
	// the extras table is resolved.
	optional      map[string]optionalDep
	optionalOrder []string
}

func newBuilder(src *manifest.Table, gen Generation, fsys fs.StatFS, log manifest.Logger) *builder {
	poetry, _ := src.LookupTable("tool", "poetry")
	project := manifest.NewTable()
	target := manifest.NewTable().Set("project", project)
	target.SetComments(src.Comments())
	return &builder{
		gen:      gen,
		src:      src,
		poetry:   poetry,
		target:   target,
		project:  project,
		fsys:     fsys,
		log:      log,
		optional: make(map[string]optionalDep),
	}
}

// run applies every conversion step in order.
// Identity comes first because license and author normalization rewrite
// the values it copies.
func (b *builder) run() {
	b.copyIdentity()
	b.normalizeLicense()
	b.normalizeAuthors()
	b.remapGroups()
	b.remapDefaultDependencies()
	b.resolveExtras()
	b.remapPlugins()
	b.remapBuildSystem()
	b.copyTools()
}

// section returns the target's top-level table under key, creating it.
func (b *builder) section(key string) *manifest.Table {
	t, ok := b.target.Ensure(key)
	if !ok {
		// Only the builder writes top-level keys, and always as tables.
		t = manifest.NewTable()
		b.target.Set(key, t)
	}
	return t
}

func (b *builder) addIssue(issue ConversionIssue) {
	b.issues = append(b.issues, issue)
	b.log.Debug("conversion issue", "path", issue.Path, "severity", issue.Severity.String(), "message", issue.Message)
}

func (b *builder) info(path, message string) {
	b.addIssue(ConversionIssue{Path: path, Message: message, Severity: SeverityInfo})
}

func (b *builder) warn(path, message string, value any) {
	b.addIssue(ConversionIssue{Path: path, Message: message, Severity: SeverityWarning, Value: value})
}

func (b *builder) warnWithContext(path, message, context string, value any) {
	b.addIssue(ConversionIssue{Path: path, Message: message, Severity: SeverityWarning, Context: context, Value: value})
}

func (b *builder) critical(path, message, context string, value any) {
	b.addIssue(ConversionIssue{Path: path, Message: message, Severity: SeverityCritical, Context: context, Value: value})
}

// pathOf renders a dotted key path for issue reporting.
func pathOf(segments ...string) string {
	return issues.FormatPath(segments...)
}

// truthy reports whether v holds something worth copying: a non-empty
// string, array, or table, or any other non-nil value.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case []any:
		return len(val) > 0
	case []*manifest.Table:
		return len(val) > 0
	case *manifest.Table:
		return val.Len() > 0
	default:
		return true
	}
}
