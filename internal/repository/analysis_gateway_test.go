package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ensotrade/internal/domain"
)

type fakeAnalysisRepo struct {
	fail    bool
	records []*domain.AnalysisRecord
}

func (f *fakeAnalysisRepo) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	if f.fail {
		return errors.New("connection refused")
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAnalysisRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisRecord, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	var out []*domain.AnalysisRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestGateway(t *testing.T, primary domain.AnalysisRepository) (*AnalysisGateway, *LocalAnalysisStore) {
	t.Helper()
	local := NewLocalAnalysisStore(filepath.Join(t.TempDir(), "analyses.json"))
	return NewAnalysisGateway(primary, local), local
}

func TestGatewaySavePrefersPrimary(t *testing.T) {
	primary := &fakeAnalysisRepo{}
	gateway, local := newTestGateway(t, primary)

	record := testRecord("u1", 0, time.Now().UTC())
	if err := gateway.Save(context.Background(), record); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	if len(primary.records) != 1 {
		t.Fatalf("primary holds %d records, want 1", len(primary.records))
	}
	localRecords, _ := local.ListRecent("u1", 50)
	if len(localRecords) != 0 {
		t.Fatalf("fallback was written despite healthy primary")
	}
}

func TestGatewaySaveFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeAnalysisRepo{fail: true}
	gateway, _ := newTestGateway(t, primary)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	older := testRecord("u1", 0, base)
	newer := testRecord("u1", 1, base.Add(time.Minute))
	if err := gateway.Save(context.Background(), older); err != nil {
		t.Fatalf("Save error = %v", err)
	}
	if err := gateway.Save(context.Background(), newer); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	records, err := gateway.ListRecent(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecent returned %d records, want 2 from fallback", len(records))
	}
	if records[0].ID != newer.ID {
		t.Fatalf("fallback records not newest-first: got %s first", records[0].ID)
	}
}

func TestGatewayListFailsOpenToEmpty(t *testing.T) {
	primary := &fakeAnalysisRepo{fail: true}
	gateway, _ := newTestGateway(t, primary)

	records, err := gateway.ListRecent(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("ListRecent error = %v, want nil (fail-open)", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("ListRecent = %v, want empty non-nil slice", records)
	}
}

func TestGatewayListReadsFallbackWhenPrimaryEmpty(t *testing.T) {
	primary := &fakeAnalysisRepo{}
	gateway, local := newTestGateway(t, primary)

	if err := local.Append(testRecord("u1", 0, time.Now().UTC())); err != nil {
		t.Fatalf("Append error = %v", err)
	}

	records, err := gateway.ListRecent(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListRecent returned %d records, want 1 from fallback", len(records))
	}
}
