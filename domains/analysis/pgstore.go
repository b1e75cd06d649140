package analysis

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/repolens/repolens/db"
)

// PGStore is the durable tier over the analyses table.
type PGStore struct{}

func NewPGStore() *PGStore {
	return &PGStore{}
}

func (s *PGStore) FindByKey(ctx context.Context, key Key) (*Result, error) {
	row, err := db.Query1(ctx, func(q *db.Queries) (db.Analysis, error) {
		return q.GetAnalysisByKey(ctx, db.GetAnalysisByKeyParams{
			Owner: key.Owner,
			Repo:  key.Repo,
			Ref:   key.Ref,
		})
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toResult(row), nil
}

func (s *PGStore) Upsert(ctx context.Context, result *Result) error {
	row, err := db.Query1(ctx, func(q *db.Queries) (db.Analysis, error) {
		return q.UpsertAnalysis(ctx, db.UpsertAnalysisParams{
			Owner:            result.Owner,
			Repo:             result.Repo,
			Ref:              result.Ref,
			Summary:          pgtype.Text{String: result.Summary, Valid: result.Summary != ""},
			Analysis:         result.FullReport,
			FilesAnalyzed:    int32(result.FilesAnalyzed),
			FilesSkipped:     int32(result.FilesSkipped),
			BatchesProcessed: int32(result.BatchesProcessed),
			BatchesFailed:    int32(result.BatchesFailed),
			Now:              result.UpdatedAt,
		})
	})
	if err != nil {
		return err
	}

	// The row keeps the original creation time across updates.
	result.CreatedAt = row.CreatedAt
	result.UpdatedAt = row.UpdatedAt
	return nil
}

// toResult converts a db.Analysis row to the domain Result.
func toResult(row db.Analysis) *Result {
	return &Result{
		Key: Key{
			Owner: row.Owner,
			Repo:  row.Repo,
			Ref:   row.Ref,
		},
		Summary:          row.Summary.String,
		FullReport:       row.Analysis,
		FilesAnalyzed:    int(row.FilesAnalyzed),
		FilesSkipped:     int(row.FilesSkipped),
		BatchesProcessed: int(row.BatchesProcessed),
		BatchesFailed:    int(row.BatchesFailed),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
