package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOracle scripts per-call outcomes. The stage is recognized by the system
// instruction it receives.
type fakeOracle struct {
	unconfigured bool
	failMapCalls map[int]bool // 1-based map call index -> fail
	failReduce   bool

	mapCalls    int
	reduceCalls int
}

func (o *fakeOracle) Configured() bool {
	return !o.unconfigured
}

func (o *fakeOracle) Complete(ctx context.Context, system, user string) (string, error) {
	switch system {
	case summarizeInstruction:
		o.mapCalls++
		if o.failMapCalls[o.mapCalls] {
			return "", fmt.Errorf("oracle fault on batch call %d", o.mapCalls)
		}
		return fmt.Sprintf("batch-summary-%d", o.mapCalls), nil
	case synthesisInstruction:
		o.reduceCalls++
		if o.failReduce {
			return "", errors.New("oracle fault during synthesis")
		}
		return "Synthesized overview.\n\nMerged findings:\n" + user, nil
	default:
		return "", errors.New("unexpected instruction")
	}
}

func (o *fakeOracle) totalCalls() int {
	return o.mapCalls + o.reduceCalls
}

type fakeFastCache struct {
	entries map[string][]byte
}

func newFakeFastCache() *fakeFastCache {
	return &fakeFastCache{entries: make(map[string][]byte)}
}

func (f *fakeFastCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := f.entries[key]
	return val, ok
}

func (f *fakeFastCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	f.entries[key] = val
	return true
}

type fakeDurableStore struct {
	rows        map[Key]*Result
	findErr     error
	upsertErr   error
	upsertCount int
}

func newFakeDurableStore() *fakeDurableStore {
	return &fakeDurableStore{rows: make(map[Key]*Result)}
}

func (s *fakeDurableStore) FindByKey(ctx context.Context, key Key) (*Result, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if r, ok := s.rows[key]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *fakeDurableStore) Upsert(ctx context.Context, result *Result) error {
	s.upsertCount++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	cp := *result
	s.rows[result.Key] = &cp
	return nil
}

func testConfig() Config {
	return Config{
		MaxTokensPerBatch: 200,
		MaxPromptTokens:   10000,
		MaxFileSizeBytes:  2000,
		CacheTtl:          time.Minute,
	}
}

func newTestPipeline(o Oracle, f FastCache, d DurableStore) *Pipeline {
	return NewPipeline(zap.NewNop(), o, f, d, testConfig())
}

// threeBatchRequest yields exactly three batches under the 200-token budget:
// each file is 400 chars = 100 tokens + 100 overhead.
func threeBatchRequest() Request {
	fs := NewFileSet()
	fs.Add("a.go", strings.Repeat("a", 400))
	fs.Add("b.go", strings.Repeat("b", 400))
	fs.Add("c.go", strings.Repeat("c", 400))
	return Request{Owner: "octocat", Repo: "hello", Ref: "main", Files: fs}
}

func TestPipeline_FreshRun(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	fast := newFakeFastCache()
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, fast, durable)

	outcome, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.False(t, outcome.CacheHit)
	assert.Equal(t, 3, outcome.Result.FilesAnalyzed)
	assert.Equal(t, 0, outcome.Result.FilesSkipped)
	assert.Equal(t, 3, outcome.Result.BatchesProcessed)
	assert.Equal(t, 0, outcome.Result.BatchesFailed)
	assert.Equal(t, 3, oracle.mapCalls)
	assert.Equal(t, 1, oracle.reduceCalls)

	assert.NotEmpty(t, outcome.Result.FullReport)
	assert.Equal(t, "Synthesized overview.", outcome.Result.Summary)

	// Both tiers were written.
	assert.Equal(t, 1, durable.upsertCount)
	_, warmed := fast.entries[outcome.Result.CacheKey()]
	assert.True(t, warmed)
}

func TestPipeline_SecondRunIsCacheHitWithoutOracleCalls(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	fast := newFakeFastCache()
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, fast, durable)

	first, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)
	callsAfterFirst := oracle.totalCalls()

	second, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)

	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Result.FullReport, second.Result.FullReport)
	assert.Equal(t, first.Result.BatchesProcessed, second.Result.BatchesProcessed)
	assert.Equal(t, callsAfterFirst, oracle.totalCalls())
}

func TestPipeline_DurableHitSurvivesFastTierLoss(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, newFakeFastCache(), durable)

	_, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)
	calls := oracle.totalCalls()

	// Fresh fast tier: only the durable row remains.
	fresh := newFakeFastCache()
	p2 := newTestPipeline(oracle, fresh, durable)

	outcome, err := p2.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)

	assert.True(t, outcome.CacheHit)
	assert.Equal(t, calls, oracle.totalCalls())

	// The durable hit re-warms the fast tier.
	_, warmed := fresh.entries[outcome.Result.CacheKey()]
	assert.True(t, warmed)
}

func TestPipeline_ForceBypassesCache(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, newFakeFastCache(), durable)

	_, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)
	calls := oracle.totalCalls()

	req := threeBatchRequest()
	req.Force = true
	outcome, err := p.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, outcome.CacheHit)
	assert.Greater(t, oracle.totalCalls(), calls)
	assert.Equal(t, 2, durable.upsertCount)
}

func TestPipeline_SingleBatchFailureIsIsolated(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{failMapCalls: map[int]bool{2: true}}
	p := newTestPipeline(oracle, newFakeFastCache(), newFakeDurableStore())

	outcome, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Result.BatchesProcessed)
	assert.Equal(t, 1, outcome.Result.BatchesFailed)
	assert.Contains(t, outcome.Result.FullReport, "batch-summary-1")
	assert.Contains(t, outcome.Result.FullReport, "batch-summary-3")
}

func TestPipeline_AllBatchesFailed(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{failMapCalls: map[int]bool{1: true, 2: true, 3: true}}
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, newFakeFastCache(), durable)

	_, err := p.Analyze(context.Background(), threeBatchRequest())
	require.ErrorIs(t, err, ErrAllBatchesFailed)

	// A total map failure must not touch the durable tier.
	assert.Zero(t, durable.upsertCount)
}

func TestPipeline_SynthesisFallback(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{failReduce: true}
	durable := newFakeDurableStore()
	p := newTestPipeline(oracle, newFakeFastCache(), durable)

	outcome, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)

	report := outcome.Result.FullReport
	assert.True(t, strings.HasPrefix(report, synthesisFallbackNote))
	assert.Contains(t, report, "batch-summary-1")
	assert.Contains(t, report, "batch-summary-2")
	assert.Contains(t, report, "batch-summary-3")
	assert.Equal(t, 0, outcome.Result.BatchesFailed)
	assert.Equal(t, firstLine(report), outcome.Result.Summary)

	// The fallback report is still a successful run and is persisted.
	assert.Equal(t, 1, durable.upsertCount)
}

func TestPipeline_EmptyAfterSizeFilter(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	p := newTestPipeline(oracle, newFakeFastCache(), newFakeDurableStore())

	fs := NewFileSet()
	fs.Add("blob.bin", strings.Repeat("x", 5000)) // over the 2000-byte ceiling

	_, err := p.Analyze(context.Background(), Request{
		Owner: "octocat", Repo: "hello", Ref: "main", Files: fs,
	})
	require.ErrorIs(t, err, ErrNoAnalyzableFiles)
	assert.Zero(t, oracle.totalCalls())
}

func TestPipeline_OversizeFilesCountedAsSkipped(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeOracle{}, newFakeFastCache(), newFakeDurableStore())

	fs := NewFileSet()
	fs.Add("big.sql", strings.Repeat("x", 5000))
	fs.Add("a.go", strings.Repeat("a", 400))
	fs.Add("b.go", strings.Repeat("b", 400))

	outcome, err := p.Analyze(context.Background(), Request{
		Owner: "octocat", Repo: "hello", Ref: "main", Files: fs,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Result.FilesAnalyzed)
	assert.Equal(t, 1, outcome.Result.FilesSkipped)
}

func TestPipeline_DurableWriteFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()

	durable := newFakeDurableStore()
	durable.upsertErr = errors.New("connection refused")
	p := newTestPipeline(&fakeOracle{}, newFakeFastCache(), durable)

	outcome, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, outcome.Result.FullReport)
}

func TestPipeline_DurableReadFailureTreatedAsMiss(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	durable := newFakeDurableStore()
	durable.findErr = errors.New("connection refused")
	p := newTestPipeline(oracle, newFakeFastCache(), durable)

	outcome, err := p.Analyze(context.Background(), threeBatchRequest())
	require.NoError(t, err)

	assert.False(t, outcome.CacheHit)
	assert.Positive(t, oracle.totalCalls())
}

func TestPipeline_OracleNotConfigured(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{unconfigured: true}
	p := newTestPipeline(oracle, newFakeFastCache(), newFakeDurableStore())

	_, err := p.Analyze(context.Background(), threeBatchRequest())
	require.ErrorIs(t, err, ErrOracleNotConfigured)
	assert.Zero(t, oracle.totalCalls())
}

func TestPipeline_CancelledContextStopsIssuingBatchCalls(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	p := newTestPipeline(oracle, newFakeFastCache(), newFakeDurableStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, threeBatchRequest())
	require.ErrorIs(t, err, ErrAllBatchesFailed)
	assert.Zero(t, oracle.mapCalls)
}
