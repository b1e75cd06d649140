package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Analysis is a row in the analyses table, unique per (owner, repo, ref).
type Analysis struct {
	ID               int64
	Owner            string
	Repo             string
	Ref              string
	Summary          pgtype.Text
	Analysis         string
	FilesAnalyzed    int32
	FilesSkipped     int32
	BatchesProcessed int32
	BatchesFailed    int32
	CreatedAt        int64
	UpdatedAt        int64
}
