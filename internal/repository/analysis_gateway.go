package repository

import (
	"context"
	"log"

	"ensotrade/internal/domain"
)

// AnalysisGateway writes records to the primary store and falls back to the
// local file store when it is unreachable. Persistence is best-effort:
// neither path failing may ever fail the user-facing request.
type AnalysisGateway struct {
	primary domain.AnalysisRepository
	local   *LocalAnalysisStore
}

// NewAnalysisGateway creates a gateway over the primary repository and the
// local fallback store.
func NewAnalysisGateway(primary domain.AnalysisRepository, local *LocalAnalysisStore) *AnalysisGateway {
	return &AnalysisGateway{primary: primary, local: local}
}

// Save attempts the primary store first, then the local fallback.
// Failure of both paths is logged, never returned.
func (g *AnalysisGateway) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	err := g.primary.Save(ctx, record)
	if err == nil {
		return nil
	}
	log.Printf("[WARN] Primary store save failed, using local fallback: %v", err)

	if err := g.local.Append(record); err != nil {
		log.Printf("[ERROR] Local fallback save failed, analysis %s not persisted: %v", record.ID, err)
	}

	return nil
}

// ListRecent tries the primary store first and fails open: any primary
// error, or an empty primary result, reads the local fallback instead.
// Absence of data yields an empty slice, never an error.
func (g *AnalysisGateway) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisRecord, error) {
	records, err := g.primary.ListRecent(ctx, userID, limit)
	if err != nil {
		log.Printf("[WARN] Primary store list failed, reading local fallback: %v", err)
	}
	if len(records) > 0 {
		return records, nil
	}

	local, err := g.local.ListRecent(userID, limit)
	if err != nil {
		log.Printf("[ERROR] Local fallback list failed: %v", err)
		return []*domain.AnalysisRecord{}, nil
	}
	if local == nil {
		local = []*domain.AnalysisRecord{}
	}

	return local, nil
}
