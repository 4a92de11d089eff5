package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ensotrade/internal/domain"
)

// AnalysisRepositoryImpl implements the AnalysisRepository interface on Postgres
type AnalysisRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new AnalysisRepository. A nil pool makes
// every call report ErrStoreUnavailable (fallback-only operation).
func NewAnalysisRepository(db *pgxpool.Pool) domain.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

// Save persists a new analysis record
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	analysisJSON, err := json.Marshal(record.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	query := `
		INSERT INTO chart_analyses (
			id, user_id, symbol, timeframe, plan_used, analysis, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Symbol,
		record.Timeframe,
		record.PlanUsed,
		analysisJSON,
		record.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}

	return nil
}

// ListRecent retrieves up to limit records for a user, newest first
func (r *AnalysisRepositoryImpl) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisRecord, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	query := `
		SELECT id, user_id, symbol, timeframe, plan_used, analysis, created_at
		FROM chart_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*domain.AnalysisRecord
	for rows.Next() {
		record := &domain.AnalysisRecord{}
		var analysisJSON []byte

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Symbol,
			&record.Timeframe,
			&record.PlanUsed,
			&analysisJSON,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}

		if err := json.Unmarshal(analysisJSON, &record.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return records, nil
}
