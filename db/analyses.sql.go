package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getAnalysisByKey = `
SELECT id, owner, repo, ref, summary, analysis, files_analyzed, files_skipped,
       batches_processed, batches_failed, created_at, updated_at
FROM analyses
WHERE owner = $1 AND repo = $2 AND ref = $3
`

type GetAnalysisByKeyParams struct {
	Owner string
	Repo  string
	Ref   string
}

func (q *Queries) GetAnalysisByKey(ctx context.Context, arg GetAnalysisByKeyParams) (Analysis, error) {
	row := q.db.QueryRow(ctx, getAnalysisByKey, arg.Owner, arg.Repo, arg.Ref)
	var i Analysis
	err := row.Scan(
		&i.ID,
		&i.Owner,
		&i.Repo,
		&i.Ref,
		&i.Summary,
		&i.Analysis,
		&i.FilesAnalyzed,
		&i.FilesSkipped,
		&i.BatchesProcessed,
		&i.BatchesFailed,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// upsertAnalysis relies on the (owner, repo, ref) unique constraint so that
// concurrent writes for the same key converge on a single row.
const upsertAnalysis = `
INSERT INTO analyses (owner, repo, ref, summary, analysis, files_analyzed, files_skipped,
                      batches_processed, batches_failed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (owner, repo, ref) DO UPDATE SET
    summary = EXCLUDED.summary,
    analysis = EXCLUDED.analysis,
    files_analyzed = EXCLUDED.files_analyzed,
    files_skipped = EXCLUDED.files_skipped,
    batches_processed = EXCLUDED.batches_processed,
    batches_failed = EXCLUDED.batches_failed,
    updated_at = EXCLUDED.updated_at
RETURNING id, owner, repo, ref, summary, analysis, files_analyzed, files_skipped,
          batches_processed, batches_failed, created_at, updated_at
`

type UpsertAnalysisParams struct {
	Owner            string
	Repo             string
	Ref              string
	Summary          pgtype.Text
	Analysis         string
	FilesAnalyzed    int32
	FilesSkipped     int32
	BatchesProcessed int32
	BatchesFailed    int32
	Now              int64
}

func (q *Queries) UpsertAnalysis(ctx context.Context, arg UpsertAnalysisParams) (Analysis, error) {
	row := q.db.QueryRow(ctx, upsertAnalysis,
		arg.Owner,
		arg.Repo,
		arg.Ref,
		arg.Summary,
		arg.Analysis,
		arg.FilesAnalyzed,
		arg.FilesSkipped,
		arg.BatchesProcessed,
		arg.BatchesFailed,
		arg.Now,
	)
	var i Analysis
	err := row.Scan(
		&i.ID,
		&i.Owner,
		&i.Repo,
		&i.Ref,
		&i.Summary,
		&i.Analysis,
		&i.FilesAnalyzed,
		&i.FilesSkipped,
		&i.BatchesProcessed,
		&i.BatchesFailed,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteAnalysisByKey = `
DELETE FROM analyses
WHERE owner = $1 AND repo = $2 AND ref = $3
`

type DeleteAnalysisByKeyParams struct {
	Owner string
	Repo  string
	Ref   string
}

func (q *Queries) DeleteAnalysisByKey(ctx context.Context, arg DeleteAnalysisByKeyParams) error {
	_, err := q.db.Exec(ctx, deleteAnalysisByKey, arg.Owner, arg.Repo, arg.Ref)
	return err
}
