package converter

import (
	"fmt"
	"strings"

	"github.com/erraggy/poetry2uv/manifest"
)

// remapGroups converts tool.poetry.group.<g>.dependencies to
// dependency-groups.<g>, then folds the pre-1.2 dev-dependencies table
// into the "dev" group.
func (b *builder) remapGroups() {
	if groups, ok := b.poetry.GetTable("group"); ok {
		for name, v := range groups.All() {
			group, ok := v.(*manifest.Table)
			if !ok {
				b.warn(pathOf("tool", "poetry", "group", name), "dependency group is not a table; skipped", v)
				continue
			}
			deps, _ := group.GetTable("dependencies")
			p := b.partitionDependencies(deps, []string{"tool", "poetry", "group", name, "dependencies"})
			b.section("dependency-groups").Set(name, b.collect(p))
			b.stats.Groups++
			b.log.Debug("converted dependency group", "group", name, "count", len(p.specifiers))
		}
	}

	dev, ok := b.poetry.GetTable("dev-dependencies")
	if !ok || dev.Len() == 0 {
		return
	}
	p := b.partitionDependencies(dev, []string{"tool", "poetry", "dev-dependencies"})
	specs := b.collect(p)

	groups := b.section("dependency-groups")
	existing, had := groups.GetArray("dev")
	if !had {
		b.stats.Groups++
	}
	groups.Set("dev", append(existing, specs...))
	b.info(pathOf("tool", "poetry", "dev-dependencies"), "legacy dev-dependencies moved to dependency-groups.dev")
}

// remapDefaultDependencies converts tool.poetry.dependencies to
// project.dependencies. The python entry is excluded; it feeds
// requires-python instead.
func (b *builder) remapDefaultDependencies() {
	deps, ok := b.poetry.GetTable("dependencies")
	if !ok || deps.Len() == 0 {
		return
	}

	if declared, ok := b.project.GetArray("dependencies"); ok && len(declared) > 0 && b.gen == GenerationProject {
		b.warnWithContext(pathOf("project", "dependencies"),
			"project.dependencies replaced by the entries of tool.poetry.dependencies",
			"merge the original list back if tool.poetry.dependencies only refined it", declared)
	}

	p := b.partitionDependencies(deps, []string{"tool", "poetry", "dependencies"})
	specs := b.collect(p)
	b.project.Set("dependencies", specs)
	b.stats.Dependencies = len(specs)
	b.log.Debug("converted dependencies", "count", len(specs))
}

// resolveExtras builds project.optional-dependencies from tool.poetry.extras,
// looking up each named package among the optional dependencies collected
// from every partition.
func (b *builder) resolveExtras() {
	if len(b.optional) == 0 {
		return
	}

	referenced := make(map[string]bool)
	resolved := manifest.NewTable()
	if extras, ok := b.poetry.GetTable("extras"); ok {
		for extra, v := range extras.All() {
			extraPath := pathOf("tool", "poetry", "extras", extra)
			names, ok := v.([]any)
			if !ok {
				b.warn(extraPath, "extra is not a list of package names; skipped", v)
				continue
			}
			specs := make([]any, 0, len(names))
			for _, item := range names {
				name, ok := item.(string)
				if !ok {
					b.warn(extraPath, fmt.Sprintf("extra entry %v is not a package name; skipped", item), item)
					continue
				}
				dep, isOptional := b.optional[name]
				if !isOptional {
					b.warn(extraPath, fmt.Sprintf("package %s is not an optional dependency; added without a constraint", name), name)
				}
				referenced[name] = true
				specs = append(specs, name+dep.constraint)
			}
			resolved.Set(extra, specs)
		}
	}

	for _, name := range b.optionalOrder {
		if !referenced[name] {
			b.warnWithContext(b.optional[name].path,
				"optional dependency is not listed in any extra; dropped",
				"reference it from tool.poetry.extras to keep it", name)
		}
	}

	if resolved.Len() == 0 {
		return
	}
	optional, ok := b.project.Ensure("optional-dependencies")
	if !ok {
		optional = manifest.NewTable()
		b.project.Set("optional-dependencies", optional)
	}
	for extra, specs := range resolved.All() {
		optional.Set(extra, specs)
	}
	b.stats.Extras = resolved.Len()
	b.log.Debug("resolved extras", "count", resolved.Len())
}

// lookupSource returns the URL of the first [[tool.poetry.source]] entry
// named name.
func (b *builder) lookupSource(name string) (string, bool) {
	sources, _ := b.poetry.GetTables("source")
	for _, entry := range sources {
		if n, _ := entry.GetString("name"); n != name {
			continue
		}
		url, ok := entry.GetString("url")
		return url, ok && url != ""
	}
	return "", false
}

// writeSources pins packages to their index as tool.uv.sources entries.
func (b *builder) writeSources(refs []sourceRef) {
	for _, ref := range refs {
		url, found := b.lookupSource(ref.source)
		if !found {
			b.warnWithContext(ref.path,
				fmt.Sprintf("source %q is not defined in tool.poetry.source", ref.source),
				"add the tool.uv.sources entry manually", ref.source)
			continue
		}
		uv, _ := b.section("tool").Ensure("uv")
		sources, _ := uv.Ensure("sources")
		if !sources.Has(ref.pkg) {
			b.stats.Sources++
		}
		sources.Set(ref.pkg, manifest.NewInlineTable().Set("git", url))
	}
}

// remapPlugins copies tool.poetry.plugins to project.entry-points.
func (b *builder) remapPlugins() {
	plugins, ok := b.poetry.GetTable("plugins")
	if !ok || plugins.Len() == 0 {
		return
	}
	entryPoints, ok := b.project.Ensure("entry-points")
	if !ok {
		entryPoints = manifest.NewTable()
		b.project.Set("entry-points", entryPoints)
	}
	for group, v := range plugins.All() {
		entryPoints.Set(group, v)
		b.stats.Plugins++
	}
}

// remapBuildSystem keeps [build-system] unless it uses the Poetry backend.
func (b *builder) remapBuildSystem() {
	build, ok := b.src.GetTable("build-system")
	if !ok || build.Len() == 0 {
		return
	}
	if backend, _ := build.GetString("build-backend"); strings.Contains(backend, "poetry") {
		b.addIssue(ConversionIssue{
			Path:     pathOf("build-system", "build-backend"),
			Message:  "Poetry build system detected; it was removed",
			Severity: SeverityInfo,
			Context:  "add a [build-system] table (e.g. hatchling) if the project is built as a package",
			Value:    backend,
		})
		return
	}
	b.target.Set("build-system", build)
}

// copyTools copies every tool.<name> section except tool.poetry.
func (b *builder) copyTools() {
	tools, ok := b.src.GetTable("tool")
	if !ok {
		return
	}
	for name, v := range tools.All() {
		if name == "poetry" {
			continue
		}
		b.stats.Tools++
		target := b.section("tool")
		if name == "uv" {
			if existing, ok := target.GetTable("uv"); ok {
				if uv, ok := v.(*manifest.Table); ok {
					mergeMissing(existing, uv)
					continue
				}
			}
		}
		target.Set(name, v)
	}
}

// mergeMissing copies keys of src absent from dst, descending into tables
// present in both. Entries written by the conversion win, and inline
// tables such as a source pin are kept whole.
func mergeMissing(dst, src *manifest.Table) {
	for k, v := range src.All() {
		existing, ok := dst.Get(k)
		if !ok {
			dst.Set(k, v)
			continue
		}
		dstSub, ok1 := existing.(*manifest.Table)
		srcSub, ok2 := v.(*manifest.Table)
		if ok1 && ok2 && !dstSub.IsInline() {
			mergeMissing(dstSub, srcSub)
		}
	}
}
