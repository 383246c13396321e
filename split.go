package askpage

import (
	"fmt"
	"strings"
	"unicode"
)

// Default splitting parameters, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitOptions configures SplitDocument.
type SplitOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

func (o SplitOptions) normalize() SplitOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = 0
	}
	// An overlap as large as the chunk would never advance.
	if o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = o.ChunkSize / 5
	}
	return o
}

// SplitDocument splits a document's markdown into chunks of at most
// ChunkSize characters. It splits at headings first, then at whitespace,
// repeating ChunkOverlap characters between neighbouring chunks of a section.
// Returned chunks have no embedding yet.
func SplitDocument(doc *Document, opts SplitOptions) []*Chunk {
	opts = opts.normalize()

	var chunks []*Chunk
	for _, section := range SplitSections(doc.Content) {
		for _, piece := range splitText(section.Body, opts.ChunkSize, opts.ChunkOverlap) {
			chunks = append(chunks, &Chunk{
				ID:         fmt.Sprintf("%s-%d", doc.ID, len(chunks)),
				DocumentID: doc.ID,
				Content:    piece,
				Position:   len(chunks),
				Metadata: ChunkMetadata{
					Section:   section.Title,
					Anchor:    section.Anchor,
					SourceURL: doc.SourceURL,
					Title:     doc.Title,
				},
			})
		}
	}
	return chunks
}

// splitText cuts text into pieces of at most size runes, preferring to break
// at whitespace.
func splitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var pieces []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			for i := end; i > start+overlap+1; i-- {
				if unicode.IsSpace(runes[i-1]) {
					end = i
					break
				}
			}
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			pieces = append(pieces, piece)
		}
		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return pieces
}
