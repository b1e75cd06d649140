package analysis

import (
	"fmt"
	"strings"

	"github.com/repolens/repolens/libs/gitrepo"
)

// renderBatch formats one batch into a single prompt payload: a batch header
// followed by each file under a per-file heading inside a fenced code block
// tagged with the language inferred from its extension. Pure formatting, no
// side effects.
func renderBatch(key Key, batch Batch, index, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s/%s\nRef: %s\nBatch %d of %d\n\n",
		key.Owner, key.Repo, key.Ref, index+1, total)

	for _, path := range batch.Files.Paths() {
		content, _ := batch.Files.Get(path)
		fmt.Fprintf(&b, "## File: %s\n", path)
		fmt.Fprintf(&b, "```%s\n", gitrepo.DetectLanguage(path))
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("```\n\n")
	}

	return b.String()
}

// truncateToTokenCeiling enforces the per-call prompt ceiling with one
// consistent character-based policy: the ceiling expressed in tokens maps to
// ceiling*4 characters under the chars/4 estimate. Oversized payloads are cut
// and marked, never rejected.
func truncateToTokenCeiling(payload string, maxPromptTokens int) string {
	if EstimateTokens(payload) <= maxPromptTokens {
		return payload
	}
	maxChars := maxPromptTokens * 4
	return payload[:maxChars] + truncationMarker
}
