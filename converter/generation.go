package converter

import (
	"github.com/erraggy/poetry2uv/converrors"
	"github.com/erraggy/poetry2uv/manifest"
)

// Generation identifies which Poetry schema layout a manifest uses.
type Generation int

const (
	// GenerationUnknown means the layout could not be determined.
	GenerationUnknown Generation = iota
	// GenerationLegacy is the Poetry 1.x layout: identity lives in [tool.poetry].
	GenerationLegacy
	// GenerationProject is the Poetry 2.x layout: identity lives in [project].
	GenerationProject
)

// String returns a short name for the generation.
func (g Generation) String() string {
	switch g {
	case GenerationLegacy:
		return "poetry-legacy"
	case GenerationProject:
		return "poetry-project"
	default:
		return "unknown"
	}
}

// IdentityTable returns the key path of the table holding name and version.
func (g Generation) IdentityTable() []string {
	switch g {
	case GenerationLegacy:
		return []string{"tool", "poetry"}
	case GenerationProject:
		return []string{"project"}
	default:
		return nil
	}
}

// DetectGeneration reports which layout doc uses.
//
// A non-empty project.name selects GenerationProject, otherwise a
// non-empty tool.poetry.name selects GenerationLegacy. A document without a
// [tool.poetry] table is not a Poetry manifest; one with neither name set
// cannot be converted. Both cases return a *converrors.ConversionError.
func DetectGeneration(doc *manifest.Table) (Generation, error) {
	poetry, ok := doc.LookupTable("tool", "poetry")
	if !ok || poetry.Len() == 0 {
		return GenerationUnknown, &converrors.ConversionError{
			Path:    "tool.poetry",
			Message: "are you certain this is a poetry project?",
			Cause:   converrors.ErrNotPoetryManifest,
		}
	}

	if name, _ := doc.LookupString("project", "name"); name != "" {
		return GenerationProject, nil
	}
	if name, _ := poetry.GetString("name"); name != "" {
		return GenerationLegacy, nil
	}
	return GenerationUnknown, &converrors.ConversionError{
		Path:  "project.name",
		Cause: converrors.ErrMissingName,
	}
}
