package mcpserver

import (
	"fmt"
	"strings"

	"github.com/erraggy/poetry2uv/manifest"
)

// manifestInput represents the two ways a manifest can be provided to a tool.
// Exactly one of File or Content must be set.
type manifestInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a pyproject.toml file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline pyproject.toml content"`
}

// resolve parses the manifest from whichever input was provided, consulting
// manifestCache when caching is enabled. Failed parses are never cached.
func (m manifestInput) resolve() (*manifest.ParseResult, error) {
	if (m.File == "") == (m.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if size := int64(len(m.Content)); size > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set POETRY2UV_MCP_MAX_INLINE_SIZE to increase",
			size, cfg.MaxInlineSize)
	}

	key := ""
	if cfg.CacheEnabled {
		key = cacheKey(m)
	}
	if key != "" {
		if hit := manifestCache.lookup(key); hit != nil {
			return hit, nil
		}
	}

	opt := manifest.WithFilePath(m.File)
	ttl := cfg.CacheFileTTL
	if m.Content != "" {
		opt = manifest.WithReader(strings.NewReader(m.Content))
		ttl = cfg.CacheContentTTL
	}
	result, err := manifest.ParseWithOptions(opt)
	if err != nil {
		return nil, err
	}

	if key != "" {
		manifestCache.store(key, result, ttl)
	}
	return result, nil
}
