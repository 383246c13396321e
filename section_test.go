package askpage_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/askpage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections(t *testing.T) {
	t.Parallel()

	t.Run("splits body under its heading", func(t *testing.T) {
		t.Parallel()

		markdown := "# Introduction\n\nSome content here."

		sections := askpage.SplitSections(markdown)

		require.Len(t, sections, 1)
		assert.Equal(t, "Introduction", sections[0].Title)
		assert.Equal(t, "introduction", sections[0].Anchor)
		assert.Equal(t, "Some content here.", sections[0].Body)
	})

	t.Run("keeps text before the first heading", func(t *testing.T) {
		t.Parallel()

		markdown := "Preamble text.\n\n## History\n\nEarly work."

		sections := askpage.SplitSections(markdown)

		require.Len(t, sections, 2)
		assert.Empty(t, sections[0].Title)
		assert.Equal(t, "Preamble text.", sections[0].Body)
		assert.Equal(t, "History", sections[1].Title)
		assert.Equal(t, "Early work.", sections[1].Body)
	})

	t.Run("recognizes H1 through H6", func(t *testing.T) {
		t.Parallel()

		markdown := `# H1 Title
## H2 Title
### H3 Title
#### H4 Title
##### H5 Title
###### H6 Title`

		sections := askpage.SplitSections(markdown)

		require.Len(t, sections, 6)
		for i, s := range sections {
			assert.Equal(t, fmt.Sprintf("H%d Title", i+1), s.Title)
		}
	})

	t.Run("handles duplicate headings with numeric suffixes", func(t *testing.T) {
		t.Parallel()

		markdown := `# Example
## Example
### Example`

		sections := askpage.SplitSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, "example", sections[0].Anchor)
		assert.Equal(t, "example-1", sections[1].Anchor)
		assert.Equal(t, "example-2", sections[2].Anchor)
	})

	t.Run("strips special characters from anchors", func(t *testing.T) {
		t.Parallel()

		sections := askpage.SplitSections("# API Reference (v2.0)")

		require.Len(t, sections, 1)
		assert.Equal(t, "api-reference-v20", sections[0].Anchor)
	})

	t.Run("returns nil for blank markdown", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, askpage.SplitSections(""))
		assert.Empty(t, askpage.SplitSections(" \n\t"))
	})

	t.Run("treats hash lines in code blocks as body", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real Heading\n\n```bash\n# This is a comment\necho hello\n```\n\n## Another Real Heading\n\nText."

		sections := askpage.SplitSections(markdown)

		require.Len(t, sections, 2)
		assert.Equal(t, "Real Heading", sections[0].Title)
		assert.Contains(t, sections[0].Body, "# This is a comment")
		assert.Equal(t, "Another Real Heading", sections[1].Title)
	})
}
