package converter

import (
	"fmt"

	"github.com/erraggy/poetry2uv/manifest"
)

// pythonDependency is the Poetry pseudo-dependency naming the interpreter
// range; it becomes requires-python rather than a requirement.
const pythonDependency = "python"

// partition is a dependency table split by how each entry is emitted.
type partition struct {
	// specifiers are PEP 508 requirement strings, in source order.
	specifiers []string
	// optional holds optional entries by package name.
	// They are emitted only through the extras table.
	optional      map[string]optionalDep
	optionalOrder []string
	// sources maps a package to the name of the package index it is pinned to.
	sources []sourceRef
}

type optionalDep struct {
	constraint string
	path       string
}

type sourceRef struct {
	pkg    string
	source string
	path   string
}

// partitionDependencies splits a Poetry dependency table. path is the key
// path of deps, used when reporting issues.
//
// A table entry is classified by the first field present, in priority
// order: extras, then optional, then source. An entry with none of them is
// emitted as a plain requirement when it has a version and dropped
// otherwise (git, path and url dependencies have no PEP 508 equivalent here).
func (b *builder) partitionDependencies(deps *manifest.Table, path []string) partition {
	p := partition{optional: make(map[string]optionalDep)}

	for name, v := range deps.All() {
		if name == pythonDependency {
			continue
		}
		entryPath := pathOf(append(path[:len(path):len(path)], name)...)

		switch val := v.(type) {
		case string:
			p.specifiers = append(p.specifiers, name+b.constraint(entryPath, val))

		case *manifest.Table:
			b.partitionTableEntry(&p, name, val, entryPath)

		case []any:
			// Poetry's multiple-constraints form: a list of tables with markers.
			b.critical(entryPath, "multiple-constraint dependencies are not converted",
				"add the requirement with environment markers manually", val)

		default:
			b.warn(entryPath, fmt.Sprintf("unsupported dependency value type %T; skipped", v), v)
		}
	}
	return p
}

func (b *builder) partitionTableEntry(p *partition, name string, entry *manifest.Table, entryPath string) {
	version, hasVersion := entry.GetString("version")
	constraint := ""
	if hasVersion {
		constraint = b.constraint(entryPath+".version", version)
	}

	if extras, ok := entry.GetArray("extras"); ok && len(extras) > 0 {
		for _, extra := range extras {
			p.specifiers = append(p.specifiers, fmt.Sprintf("%s[%v]%s", name, extra, constraint))
		}
		return
	}

	if optional, _ := entry.GetBool("optional"); optional {
		if _, seen := p.optional[name]; !seen {
			p.optionalOrder = append(p.optionalOrder, name)
		}
		p.optional[name] = optionalDep{constraint: constraint, path: entryPath}
		return
	}

	if source, ok := entry.GetString("source"); ok && source != "" {
		p.specifiers = append(p.specifiers, name+constraint)
		p.sources = append(p.sources, sourceRef{pkg: name, source: source, path: entryPath + ".source"})
		return
	}

	if hasVersion {
		p.specifiers = append(p.specifiers, name+constraint)
		return
	}

	b.critical(entryPath, "dependency has no version, extras, optional flag or source; skipped",
		"git, path and url dependencies must be added to tool.uv.sources manually", entry)
}

// constraint translates a constraint, recording a warning when no rule applies.
func (b *builder) constraint(path, s string) string {
	out, ok := TranslateConstraint(s)
	if !ok {
		b.warnWithContext(path, fmt.Sprintf("unexpected version constraint %q; skipped", s),
			"add the constraint manually", s)
	}
	return out
}

// collect merges a partition's optional entries and source pins into the
// conversion and returns its requirement strings.
func (b *builder) collect(p partition) []any {
	for _, name := range p.optionalOrder {
		if _, seen := b.optional[name]; !seen {
			b.optionalOrder = append(b.optionalOrder, name)
		}
		b.optional[name] = p.optional[name]
	}
	b.writeSources(p.sources)

	out := make([]any, len(p.specifiers))
	for i, s := range p.specifiers {
		out[i] = s
	}
	return out
}
