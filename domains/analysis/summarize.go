package analysis

import (
	"context"

	"go.uber.org/zap"
)

// summarizeBatches is the map stage: one oracle call per batch, in order. A
// failed batch is recorded and never aborts its siblings. When the request is
// cancelled, no further calls are issued; already-collected summaries are
// still returned so the counters stay truthful.
func (p *Pipeline) summarizeBatches(ctx context.Context, l *zap.Logger, key Key, batches []Batch) (summaries []string, failed int) {
	total := len(batches)

	for i, batch := range batches {
		select {
		case <-ctx.Done():
			failed += total - i
			l.Warn("request cancelled, skipping remaining batches",
				zap.Int("remaining", total-i))
			return summaries, failed
		default:
		}

		payload := renderBatch(key, batch, i, total)
		payload = truncateToTokenCeiling(payload, p.cfg.MaxPromptTokens)

		summary, err := p.oracle.Complete(ctx, summarizeInstruction, payload)
		if err != nil {
			failed++
			l.Warn("batch summarization failed",
				zap.Int("batch", i+1),
				zap.Int("total", total),
				zap.Error(err),
			)
			continue
		}

		summaries = append(summaries, summary)
		l.Debug("batch summarized",
			zap.Int("batch", i+1),
			zap.Int("total", total),
			zap.Int("estimated_tokens", batch.EstimatedTokens),
		)
	}

	return summaries, failed
}
