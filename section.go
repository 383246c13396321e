package askpage

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var headingRe = regexp.MustCompile(`^#{1,6}\s+(.+)$`)

// Section is a run of markdown under one heading.
type Section struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
	Body   string `json:"body"`
}

// SplitSections splits markdown at its headings (H1-H6).
// Text before the first heading becomes a section with an empty title.
// Headings inside fenced code blocks are treated as body text.
func SplitSections(markdown string) []Section {
	if isBlank(markdown) {
		return nil
	}

	var sections []Section
	anchorCounts := make(map[string]int)

	var cur Section
	var body strings.Builder
	flush := func() {
		cur.Body = strings.TrimSpace(body.String())
		if cur.Title != "" || cur.Body != "" {
			sections = append(sections, cur)
		}
		body.Reset()
	}

	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				flush()
				title := strings.TrimSpace(m[1])
				cur = Section{
					Title:  title,
					Anchor: uniqueAnchor(generateAnchor(title), anchorCounts),
				}
				continue
			}
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	return sections
}

// uniqueAnchor suffixes repeated anchors with a counter.
func uniqueAnchor(base string, counts map[string]int) string {
	count, exists := counts[base]
	counts[base]++
	if !exists {
		return base
	}
	return base + "-" + strconv.Itoa(count)
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
