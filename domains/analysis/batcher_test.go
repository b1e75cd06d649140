package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSet_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	fs := NewFileSet()
	fs.Add("z.go", "z")
	fs.Add("a.go", "a")
	fs.Add("m.go", "m")

	assert.Equal(t, []string{"z.go", "a.go", "m.go"}, fs.Paths())
}

func TestFileSet_IgnoresDuplicatePaths(t *testing.T) {
	t.Parallel()

	fs := NewFileSet()
	fs.Add("a.go", "first")
	fs.Add("a.go", "second")

	require.Equal(t, 1, fs.Len())
	content, ok := fs.Get("a.go")
	require.True(t, ok)
	assert.Equal(t, "first", content)
}

func TestPartition_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Partition(NewFileSet(), 6000))
}

func TestPartition_ExactPartitionAndOrder(t *testing.T) {
	t.Parallel()

	fs := NewFileSet()
	paths := []string{"a.go", "b.go", "c.py", "d.md", "e.rs"}
	for _, p := range paths {
		fs.Add(p, strings.Repeat("x", 4000)) // 1000 tokens each
	}

	batches := Partition(fs, 2500)
	require.NotEmpty(t, batches)

	// Every input file appears exactly once, in the original order.
	var seen []string
	for _, b := range batches {
		seen = append(seen, b.Files.Paths()...)
	}
	assert.Equal(t, paths, seen)

	// Two files per batch: 2*(1000+100) fits, a third would not.
	require.Len(t, batches, 3)
	assert.Equal(t, 2, batches[0].Files.Len())
	assert.Equal(t, 2, batches[1].Files.Len())
	assert.Equal(t, 1, batches[2].Files.Len())
}

func TestPartition_BatchBudgetRespected(t *testing.T) {
	t.Parallel()

	fs := NewFileSet()
	fs.Add("a.go", strings.Repeat("x", 2000))
	fs.Add("b.go", strings.Repeat("x", 2000))
	fs.Add("c.go", strings.Repeat("x", 2000))

	for _, b := range Partition(fs, 1500) {
		assert.LessOrEqual(t, b.EstimatedTokens, 1500)
	}
}

func TestPartition_OversizedFileBecomesSingleton(t *testing.T) {
	t.Parallel()

	// Scenario from the original system: a 40000-char file against a 6000
	// token budget must be emitted alone, the small neighbor separately.
	fs := NewFileSet()
	fs.Add("a.py", strings.Repeat("x", 40000))
	fs.Add("b.go", strings.Repeat("y", 100))

	batches := Partition(fs, 6000)
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"a.py"}, batches[0].Files.Paths())
	assert.Equal(t, []string{"b.go"}, batches[1].Files.Paths())
}

func TestPartition_OversizedFileFlushesAccumulatingBatch(t *testing.T) {
	t.Parallel()

	fs := NewFileSet()
	fs.Add("small1.go", strings.Repeat("x", 400)) // 100 tokens
	fs.Add("huge.py", strings.Repeat("x", 40000))
	fs.Add("small2.go", strings.Repeat("x", 400))

	batches := Partition(fs, 6000)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"small1.go"}, batches[0].Files.Paths())
	assert.Equal(t, []string{"huge.py"}, batches[1].Files.Paths())
	assert.Equal(t, []string{"small2.go"}, batches[2].Files.Paths())
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1000, EstimateTokens(strings.Repeat("x", 4000)))
}
