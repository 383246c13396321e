package askpage

import "strings"

// FormatChunks formats retrieved chunks as LLM context.
// Each chunk is headed by its section, falling back to the page title and
// then the source URL. Chunks are separated by blank lines.
func FormatChunks(chunks []*Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, "## Source: "+c.Label()+"\n"+c.Content)
	}

	return strings.Join(parts, "\n\n")
}

// Label names the chunk by section, page title or source URL, whichever
// is set first.
func (c *Chunk) Label() string {
	switch {
	case c.Metadata.Section != "":
		return c.Metadata.Section
	case c.Metadata.Title != "":
		return c.Metadata.Title
	default:
		return c.Metadata.SourceURL
	}
}
