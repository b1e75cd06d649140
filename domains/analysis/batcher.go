package analysis

// fileOverheadTokens models the per-file formatting cost (headers, code
// fences) added when a batch is rendered into a prompt.
const fileOverheadTokens = 100

// Batch is a bounded group of files submitted together to the oracle.
type Batch struct {
	Files           *FileSet
	EstimatedTokens int
}

// EstimateTokens is a cheap deterministic proxy for the provider tokenizer:
// roughly four characters per token. It is a policy constant, not a guarantee.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Partition splits fs into ordered batches whose estimated size stays within
// maxTokensPerBatch. A single file whose own estimate exceeds the budget
// becomes a singleton batch: files are atomic and never split.
//
// Every input file lands in exactly one batch and batch order follows the
// input order. An empty FileSet yields no batches.
func Partition(fs *FileSet, maxTokensPerBatch int) []Batch {
	var batches []Batch

	current := NewFileSet()
	currentTokens := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		batches = append(batches, Batch{Files: current, EstimatedTokens: currentTokens})
		current = NewFileSet()
		currentTokens = 0
	}

	for _, path := range fs.Paths() {
		content, _ := fs.Get(path)
		fileTokens := EstimateTokens(content)
		contribution := fileTokens + fileOverheadTokens

		switch {
		case fileTokens > maxTokensPerBatch:
			// Oversized file: close the accumulating batch and emit the file
			// alone.
			flush()
			single := NewFileSet()
			single.Add(path, content)
			batches = append(batches, Batch{Files: single, EstimatedTokens: contribution})

		case currentTokens+contribution > maxTokensPerBatch:
			flush()
			current.Add(path, content)
			currentTokens = contribution

		default:
			current.Add(path, content)
			currentTokens += contribution
		}
	}

	flush()
	return batches
}
