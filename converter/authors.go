package converter

import (
	"fmt"
	"regexp"

	"github.com/erraggy/poetry2uv/manifest"
)

const emailPattern = `[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9.\-]+`

var (
	// Jane Doe <jane@example.com>
	nameEmailRegx = regexp.MustCompile(`^([\p{L}\p{M}\p{N}_, ]+) <(` + emailPattern + `)>$`)

	// <jane@example.com>
	emailOnlyRegx = regexp.MustCompile(`^<(` + emailPattern + `)>$`)

	// Jane Doe
	nameOnlyRegx = regexp.MustCompile(`^([\p{L}\p{M}\p{N}_, ]+)$`)
)

// ParseAuthor parses a Poetry author string into a PEP 621 author record,
// an inline table with "name", "email", or both.
// It reports false when the string matches none of the accepted forms.
func ParseAuthor(s string) (*manifest.Table, bool) {
	if m := nameEmailRegx.FindStringSubmatch(s); m != nil {
		return manifest.NewInlineTable().Set("name", m[1]).Set("email", m[2]), true
	}
	if m := emailOnlyRegx.FindStringSubmatch(s); m != nil {
		return manifest.NewInlineTable().Set("email", m[1]), true
	}
	if m := nameOnlyRegx.FindStringSubmatch(s); m != nil {
		return manifest.NewInlineTable().Set("name", m[1]), true
	}
	return nil, false
}

// normalizeAuthors rewrites project.authors and project.maintainers from
// Poetry strings to author records. Project-layout manifests already use
// records and are left alone.
func (b *builder) normalizeAuthors() {
	if b.gen == GenerationProject {
		return
	}
	for _, key := range []string{"authors", "maintainers"} {
		list, ok := b.project.GetArray(key)
		if !ok || len(list) == 0 {
			continue
		}

		records := make([]any, 0, len(list))
		for i, item := range list {
			path := pathOf("project", key) + fmt.Sprintf("[%d]", i)
			s, ok := item.(string)
			if !ok {
				b.warn(path, fmt.Sprintf("unknown %s entry type %T; dropped", key, item), item)
				continue
			}
			record, ok := ParseAuthor(s)
			if !ok {
				b.warnWithContext(path, fmt.Sprintf("unknown %s format: %s", key, s),
					`expected "Name <email>", "<email>" or "Name"`, s)
				continue
			}
			records = append(records, record)
		}
		b.project.Set(key, records)
		b.log.Debug("normalized people", "key", key, "count", len(records))
	}
}
