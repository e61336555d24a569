// Package converter converts Poetry pyproject.toml manifests to the layout uv
// expects: PEP 621 [project] metadata, PEP 735 [dependency-groups], and
// [tool.uv.sources].
//
// Both Poetry layouts are supported. Poetry 1.x keeps name, version and
// dependencies in [tool.poetry]; Poetry 2.x moves identity to [project] and
// keeps only Poetry-specific data in [tool.poetry]. The layout is detected
// from which table carries the project name and is reported as
// ConversionResult.Generation.
//
// # Quick Start
//
// Convert a file using functional options:
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithFilePath("pyproject.toml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := result.Marshal()
//	os.WriteFile("pyproject.uv.toml", out, 0o644)
//
// Or use a reusable Converter instance:
//
//	c := converter.New()
//	c.IncludeInfo = false
//	result1, _ := c.Convert("service-a/pyproject.toml")
//	result2, _ := c.Convert("service-b/pyproject.toml")
//
// # What Is Converted
//
//   - Identity fields (name, version, description, authors, maintainers,
//     license, readme, keywords, classifiers, urls, scripts) are copied to
//     [project]. requires-python is taken from the python dependency when not
//     declared directly.
//   - tool.poetry.dependencies becomes project.dependencies, and each
//     tool.poetry.group.<name>.dependencies becomes dependency-groups.<name>.
//   - Optional dependencies are emitted through tool.poetry.extras as
//     project.optional-dependencies.
//   - Dependencies pinned to a [[tool.poetry.source]] get a tool.uv.sources entry.
//   - tool.poetry.plugins becomes project.entry-points.
//   - Other [tool.*] sections and a non-Poetry [build-system] are copied as is.
//
// Version constraints are translated by [TranslateConstraint]. Caret and
// tilde constraints become lower bounds only.
//
// # Conversion Issues
//
// Entries that cannot be converted faithfully are reported rather than
// aborting the conversion. Info issues record choices (the Poetry build
// backend was removed), warnings mark entries to review (an unrecognized
// constraint or author), and critical issues mark dependencies that were
// dropped (git or path dependencies). StrictMode turns any warning or
// critical issue into an error, returned together with the result.
//
// The source document is never modified; the converter works on a copy.
package converter
