// Package askpage answers natural-language questions about a single web page.
// It loads the page, indexes its content with vector embeddings, and lets a
// function-calling agent consult a retrieval pipeline over that index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., openai/, gemini/, sqlite/, rod/).
package askpage

// DefaultUserAgent identifies page requests when no User-Agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ResolveUserAgent returns ua verbatim, or DefaultUserAgent when ua is empty.
func ResolveUserAgent(ua string) string {
	if ua == "" {
		return DefaultUserAgent
	}
	return ua
}
