// Package converrors provides structured error types for poetry2uv.
//
// Import path: github.com/erraggy/poetry2uv/converrors
//
// These errors are returned for fatal conditions only. Recoverable problems
// (an unrecognized version constraint, an author string that cannot be
// parsed, an unknown package source) are reported as issues on the
// conversion result instead and never abort a run.
//
// # Error Types
//
//   - [ParseError]: the input is not well-formed TOML
//   - [ConversionError]: the manifest is not a Poetry manifest this tool can convert
//   - [ConfigError]: invalid options or CLI input
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConversion]: Matches any [ConversionError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrNotPoetryManifest]: Cause used when the tool.poetry table is missing
//   - [ErrMissingName]: Cause used when neither [project] nor [tool.poetry] has a name
//
// # Usage Examples
//
//	result, err := converter.ConvertWithOptions(converter.WithFilePath("pyproject.toml"))
//	if errors.Is(err, converrors.ErrNotPoetryManifest) {
//	    // not a Poetry project, nothing to do
//	}
//
//	var parseErr *converrors.ParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Printf("%s:%d:%d\n", parseErr.Path, parseErr.Line, parseErr.Column)
//	}
package converrors
