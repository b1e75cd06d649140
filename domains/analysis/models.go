package analysis

import (
	"fmt"
	"strings"
)

// Key identifies one analysis result. Ref is always concrete (branch name or
// commit SHA) by the time a key is built; an empty ref is never persisted.
type Key struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
}

// CacheKey is the composite fast-tier key for this analysis.
func (k Key) CacheKey() string {
	return fmt.Sprintf("analysis:%s:%s:%s", k.Owner, k.Repo, k.Ref)
}

func (k Key) String() string {
	return k.Owner + "/" + k.Repo + "@" + k.Ref
}

// Result is one completed analysis. FullReport is non-empty on success and
// Summary is always its first line, never independently authored.
type Result struct {
	Key
	Summary          string `json:"summary"`
	FullReport       string `json:"full_report"`
	FilesAnalyzed    int    `json:"files_analyzed"`
	FilesSkipped     int    `json:"files_skipped"`
	BatchesProcessed int    `json:"batches_processed"`
	BatchesFailed    int    `json:"batches_failed"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

// Request is one analysis run over an already-fetched snapshot.
type Request struct {
	Owner string
	Repo  string
	Ref   string
	Files *FileSet
	// Force skips the cache read path and recomputes.
	Force bool
}

// Outcome is the final response shape of a pipeline run.
type Outcome struct {
	Result   *Result
	CacheHit bool
}

// firstLine extracts the short summary from a report.
func firstLine(report string) string {
	line, _, _ := strings.Cut(report, "\n")
	return strings.TrimSpace(line)
}
