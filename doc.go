// Package poetry2uv converts Poetry pyproject.toml manifests into manifests
// uv can use directly.
//
// # Overview
//
// The module consists of three public packages:
//
//   - manifest: Parse, inspect and serialize TOML documents while keeping key order
//   - converter: Convert a Poetry manifest (1.x or 2.x layout) to PEP 621 and PEP 735 form
//   - converrors: Typed errors shared by both, usable with errors.Is and errors.As
//
// The poetry2uv command wraps them for files, directories and glob patterns,
// and can also run as an MCP server so assistants can convert manifests.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/poetry2uv
//
// Install the CLI:
//
//	go install github.com/erraggy/poetry2uv/cmd/poetry2uv@latest
//
// # Quick Start
//
// Convert a manifest:
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithFilePath("pyproject.toml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, issue := range result.Issues {
//		fmt.Println(issue.String())
//	}
//	out, _ := result.Marshal()
//
// Translate a single constraint:
//
//	spec, ok := converter.TranslateConstraint("^2.31") // ">=2.31", true
//
// # What Changes
//
// tool.poetry metadata moves to [project], dependencies become PEP 508
// strings, dependency groups move to [dependency-groups], extras become
// project.optional-dependencies and packages pinned to a Poetry source get a
// tool.uv.sources entry. Caret and tilde constraints are translated to lower
// bounds only, so review the result before locking.
//
// See the converter package for the full list of rules and the issues
// reported when an entry cannot be converted.
package poetry2uv
