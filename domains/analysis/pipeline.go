package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Oracle is the external completion service, treated as an opaque, possibly
// failing function.
type Oracle interface {
	// Complete sends one system+user exchange and returns the completion text.
	Complete(ctx context.Context, system, user string) (string, error)
	// Configured reports whether credentials are present.
	Configured() bool
}

// FastCache is the ephemeral tier. Both operations are best-effort: absence of
// connectivity reduces Get to a miss and Set to false, never an error.
type FastCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool
}

// DurableStore is the authoritative tier, unique per key.
type DurableStore interface {
	// FindByKey returns the stored result or ErrNotFound.
	FindByKey(ctx context.Context, key Key) (*Result, error)
	// Upsert inserts or updates in place; concurrent writes for one key must
	// converge on a single row.
	Upsert(ctx context.Context, result *Result) error
}

// Config carries the pipeline's policy knobs.
type Config struct {
	// MaxTokensPerBatch bounds the estimated size of one batch.
	MaxTokensPerBatch int
	// MaxPromptTokens is the per-call ceiling on a rendered payload.
	MaxPromptTokens int
	// MaxFileSizeBytes is the upfront size ceiling; larger files are skipped.
	MaxFileSizeBytes int64
	// CacheTtl is the fast-tier expiry.
	CacheTtl time.Duration
}

// stage names the orchestrator states for logging.
type stage string

const (
	stageCacheCheck   stage = "cache_check"
	stagePartitioning stage = "partitioning"
	stageMapping      stage = "mapping"
	stageReducing     stage = "reducing"
	stagePersisting   stage = "persisting"
	stageDone         stage = "done"
	stageFailed       stage = "failed"
)

// Pipeline sequences batching, per-batch summarization, synthesis and result
// caching for one repository snapshot.
type Pipeline struct {
	l       *zap.Logger
	oracle  Oracle
	fast    FastCache
	durable DurableStore
	cfg     Config
}

func NewPipeline(l *zap.Logger, oracle Oracle, fast FastCache, durable DurableStore, cfg Config) *Pipeline {
	return &Pipeline{
		l:       l,
		oracle:  oracle,
		fast:    fast,
		durable: durable,
		cfg:     cfg,
	}
}

// Analyze runs the full pipeline for one snapshot. Stage-local faults (single
// batch, single store write) are recovered in place and reported through the
// result counters; fatal faults return one of the package sentinel errors.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	key := Key{Owner: req.Owner, Repo: req.Repo, Ref: req.Ref}
	l := p.l.With(zap.String("analysis", key.String()))

	if !p.oracle.Configured() {
		l.Error("oracle credentials missing")
		return nil, ErrOracleNotConfigured
	}

	if !req.Force {
		p.logStage(l, stageCacheCheck)
		if cached := p.lookupCached(ctx, l, key); cached != nil {
			return &Outcome{Result: cached, CacheHit: true}, nil
		}
	}

	p.logStage(l, stagePartitioning)

	totalFiles := req.Files.Len()
	kept := req.Files.Filter(func(path, content string) bool {
		return int64(len(content)) <= p.cfg.MaxFileSizeBytes
	})
	skipped := totalFiles - kept.Len()

	if kept.Len() == 0 {
		p.logStage(l, stageFailed)
		return nil, ErrNoAnalyzableFiles
	}

	batches := Partition(kept, p.cfg.MaxTokensPerBatch)

	l.Info("snapshot partitioned",
		zap.Int("files_total", totalFiles),
		zap.Int("files_skipped", skipped),
		zap.Int("batches", len(batches)),
	)

	p.logStage(l, stageMapping)
	summaries, failed := p.summarizeBatches(ctx, l, key, batches)
	if len(summaries) == 0 {
		p.logStage(l, stageFailed)
		l.Error("every batch failed in the map stage", zap.Int("batches_failed", failed))
		return nil, ErrAllBatchesFailed
	}

	p.logStage(l, stageReducing)
	report := p.synthesize(ctx, l, summaries)

	now := time.Now().Unix()
	result := &Result{
		Key:              key,
		Summary:          firstLine(report),
		FullReport:       report,
		FilesAnalyzed:    kept.Len(),
		FilesSkipped:     skipped,
		BatchesProcessed: len(batches),
		BatchesFailed:    failed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	p.logStage(l, stagePersisting)
	p.persist(ctx, l, result)

	p.logStage(l, stageDone)
	l.Info("analysis completed",
		zap.Int("files_analyzed", result.FilesAnalyzed),
		zap.Int("files_skipped", result.FilesSkipped),
		zap.Int("batches_processed", result.BatchesProcessed),
		zap.Int("batches_failed", result.BatchesFailed),
	)

	return &Outcome{Result: result, CacheHit: false}, nil
}

// lookupCached checks the fast tier, then the durable tier. Durable read
// faults are logged and treated as a miss.
func (p *Pipeline) lookupCached(ctx context.Context, l *zap.Logger, key Key) *Result {
	if raw, ok := p.fast.Get(ctx, key.CacheKey()); ok {
		var result Result
		if err := json.Unmarshal(raw, &result); err == nil {
			l.Info("fast-tier cache hit")
			return &result
		}
		l.Warn("discarding undecodable fast-tier entry")
	}

	result, err := p.durable.FindByKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		l.Error("durable lookup failed, treating as cache miss", zap.Error(err))
		return nil
	}

	l.Info("durable-tier cache hit")
	p.warmFastTier(ctx, l, result)
	return result
}

// persist upserts the durable tier and warms the fast tier. A write failure
// never invalidates the computed result: it is logged and swallowed.
func (p *Pipeline) persist(ctx context.Context, l *zap.Logger, result *Result) {
	if err := p.durable.Upsert(ctx, result); err != nil {
		l.Error("durable upsert failed, returning result anyway", zap.Error(err))
	}
	p.warmFastTier(ctx, l, result)
}

func (p *Pipeline) warmFastTier(ctx context.Context, l *zap.Logger, result *Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if !p.fast.Set(ctx, result.CacheKey(), raw, p.cfg.CacheTtl) {
		l.Debug("fast-tier write skipped")
	}
}

func (p *Pipeline) logStage(l *zap.Logger, s stage) {
	l.Debug("pipeline stage", zap.String("stage", string(s)))
}
