package converter

import (
	"fmt"
	"io/fs"
	"slices"

	"github.com/erraggy/poetry2uv/manifest"
)

// identityKeys are the [project] fields carried over, in output order.
var identityKeys = []string{
	"name",
	"version",
	"description",
	"authors",
	"maintainers",
	"license",
	"readme",
	"requires-python",
	"keywords",
	"classifiers",
	"urls",
	"scripts",
	"dependencies",
}

// legacyURLKeys are Poetry 1.x top-level links folded into project.urls.
var legacyURLKeys = []struct{ key, label string }{
	{"homepage", "Homepage"},
	{"repository", "Repository"},
	{"documentation", "Documentation"},
}

// identityBase returns the table the project identity is read from.
func (b *builder) identityBase() *manifest.Table {
	if b.gen == GenerationProject {
		base, _ := b.src.GetTable("project")
		return base
	}
	return b.poetry
}

// copyIdentity copies name, version and the other descriptive fields into
// [project]. Project-layout manifests also keep any [project] fields that
// are not part of the identity set, such as dynamic or gui-scripts.
func (b *builder) copyIdentity() {
	base := b.identityBase()
	basePath := b.gen.IdentityTable()
	b.project.SetComments(base.Comments())

	for _, key := range identityKeys {
		switch key {
		case "name":
			b.project.CopyEntry(base, "name")
		case "version":
			if !b.project.CopyEntry(base, "version") && !b.isDynamic("version") {
				b.warnWithContext(pathOf(append(basePath, "version")...), "version not found",
					`set project.version or list "version" in project.dynamic`, nil)
			}
		case "requires-python":
			b.copyRequiresPython(base, basePath)
		case "urls":
			b.copyURLs(base)
		default:
			if v, ok := base.Get(key); ok && truthy(v) {
				b.project.CopyEntry(base, key)
			}
		}
	}

	if b.gen == GenerationProject {
		for key := range base.All() {
			if slices.Contains(identityKeys, key) || b.project.Has(key) {
				continue
			}
			b.project.CopyEntry(base, key)
		}
	}
	name, _ := b.project.GetString("name")
	b.log.Debug("copied project identity", "name", name, "generation", b.gen.String())
}

func (b *builder) isDynamic(field string) bool {
	if b.gen != GenerationProject {
		return false
	}
	project, _ := b.src.GetTable("project")
	fields, _ := project.GetStrings("dynamic")
	return slices.Contains(fields, field)
}

// copyRequiresPython sets requires-python from requires-python or, failing
// that, from the python entry of the dependency table.
func (b *builder) copyRequiresPython(base *manifest.Table, basePath []string) {
	path := pathOf(append(basePath, "requires-python")...)
	raw, ok := base.GetString("requires-python")
	if !ok || raw == "" {
		deps, found := base.GetTable("dependencies")
		path = pathOf(append(basePath, "dependencies", pythonDependency)...)
		if !found {
			// Project-layout manifests keep dependencies as an array and
			// may still declare python under tool.poetry.dependencies.
			deps, _ = b.poetry.GetTable("dependencies")
			path = pathOf("tool", "poetry", "dependencies", pythonDependency)
		}
		raw, ok = deps.GetString(pythonDependency)
		if !ok || raw == "" {
			return
		}
	}

	spec, ok := TranslateConstraint(raw)
	if !ok {
		b.warnWithContext(path, fmt.Sprintf("unexpected python constraint %q; requires-python not set", raw),
			"add requires-python manually", raw)
		return
	}
	if spec != "" {
		b.project.Set("requires-python", spec)
	}
}

// copyURLs copies the urls table and folds Poetry's homepage, repository
// and documentation keys into it without replacing explicit entries.
func (b *builder) copyURLs(base *manifest.Table) {
	urls, _ := base.GetTable("urls")
	if b.gen != GenerationLegacy {
		if urls.Len() > 0 {
			b.project.Set("urls", urls)
		}
		return
	}

	var folded *manifest.Table
	if urls.Len() > 0 {
		folded = urls
	}
	for _, link := range legacyURLKeys {
		v, ok := base.GetString(link.key)
		if !ok || v == "" {
			continue
		}
		if folded == nil {
			folded = manifest.NewTable()
		}
		if folded.Has(link.label) {
			continue
		}
		folded.Set(link.label, v)
		b.info(pathOf("tool", "poetry", link.key), fmt.Sprintf("moved to project.urls.%s", link.label))
	}
	if folded != nil {
		b.project.Set("urls", folded)
	}
}

// normalizeLicense turns a license string into {file = ...} when a file of
// that name exists in the project directory and {text = ...} otherwise.
func (b *builder) normalizeLicense() {
	license, ok := b.project.GetString("license")
	if !ok {
		return
	}
	key := "text"
	if b.fsys != nil && fs.ValidPath(license) {
		if _, err := b.fsys.Stat(license); err == nil {
			key = "file"
		}
	}
	b.project.Set("license", manifest.NewInlineTable().Set(key, license))
	b.log.Debug("normalized license", "kind", key, "value", license)
}
