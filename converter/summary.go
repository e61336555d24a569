package converter

import (
	"github.com/erraggy/poetry2uv/manifest"
)

// Summary is a flat view of a converted manifest, suited to reports.
type Summary struct {
	Generation     string      `json:"generation" yaml:"generation"`
	Name           string      `json:"name" yaml:"name"`
	Version        string      `json:"version,omitempty" yaml:"version,omitempty"`
	RequiresPython string      `json:"requires_python,omitempty" yaml:"requires_python,omitempty"`
	Dependencies   []string    `json:"dependencies" yaml:"dependencies"`
	Groups         []NamedList `json:"groups,omitempty" yaml:"groups,omitempty"`
	Extras         []NamedList `json:"extras,omitempty" yaml:"extras,omitempty"`
	Sources        []SourcePin `json:"sources,omitempty" yaml:"sources,omitempty"`
	EntryPoints    []string    `json:"entry_points,omitempty" yaml:"entry_points,omitempty"`
	Tools          []string    `json:"tools,omitempty" yaml:"tools,omitempty"`
	BuildBackend   string      `json:"build_backend,omitempty" yaml:"build_backend,omitempty"`
	Stats          Stats       `json:"stats" yaml:"stats"`
}

// NamedList is a dependency group or extra with its requirement strings.
type NamedList struct {
	Name         string   `json:"name" yaml:"name"`
	Requirements []string `json:"requirements" yaml:"requirements"`
}

// SourcePin is a tool.uv.sources entry.
type SourcePin struct {
	Package string `json:"package" yaml:"package"`
	URL     string `json:"url" yaml:"url"`
}

// Summary describes the converted document section by section.
func (r *ConversionResult) Summary() Summary {
	s := Summary{
		Generation:   r.Generation.String(),
		Name:         r.Name,
		Dependencies: []string{},
		Stats:        r.Stats,
	}
	doc := r.Document

	project, _ := doc.GetTable("project")
	s.Version, _ = project.GetString("version")
	s.RequiresPython, _ = project.GetString("requires-python")
	if deps, ok := project.GetStrings("dependencies"); ok {
		s.Dependencies = deps
	}

	groups, _ := doc.GetTable("dependency-groups")
	s.Groups = namedLists(groups)
	optional, _ := project.GetTable("optional-dependencies")
	s.Extras = namedLists(optional)

	sources, _ := doc.LookupTable("tool", "uv", "sources")
	for pkg, v := range sources.All() {
		pin, ok := v.(*manifest.Table)
		if !ok {
			continue
		}
		url, _ := pin.GetString("git")
		s.Sources = append(s.Sources, SourcePin{Package: pkg, URL: url})
	}

	entryPoints, _ := project.GetTable("entry-points")
	s.EntryPoints = entryPoints.Keys()
	tools, _ := doc.GetTable("tool")
	s.Tools = tools.Keys()
	s.BuildBackend, _ = doc.LookupString("build-system", "build-backend")
	return s
}

func namedLists(t *manifest.Table) []NamedList {
	var out []NamedList
	for name := range t.All() {
		reqs, ok := t.GetStrings(name)
		if !ok {
			continue
		}
		out = append(out, NamedList{Name: name, Requirements: reqs})
	}
	return out
}
