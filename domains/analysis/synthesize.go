package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// synthesize is the reduce stage: one oracle call over the concatenated batch
// summaries. On an oracle fault it degrades to the raw concatenation behind a
// visible note, so a run with at least one successful batch always yields a
// usable report. Callers guarantee summaries is non-empty.
func (p *Pipeline) synthesize(ctx context.Context, l *zap.Logger, summaries []string) string {
	joined := strings.Join(summaries, "\n\n")

	report, err := p.oracle.Complete(ctx, synthesisInstruction, joined)
	if err != nil {
		l.Warn("synthesis failed, falling back to concatenated summaries", zap.Error(err))
		return synthesisFallbackNote + "\n\n" + joined
	}

	return report
}
