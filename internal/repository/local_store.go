package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"ensotrade/internal/domain"
)

// MaxRecordsPerUser caps how many analyses the local fallback file keeps
// for a single user. Oldest entries beyond the cap are evicted on append.
const MaxRecordsPerUser = 100

// LocalAnalysisStore is the file-based fallback used when the primary store
// is unreachable. One JSON array holds records for all users; the mutex
// protects file integrity only, not cross-request credit semantics.
type LocalAnalysisStore struct {
	path string
	mu   sync.Mutex
}

// NewLocalAnalysisStore creates a store backed by the given file path.
// The file is created lazily on first append.
func NewLocalAnalysisStore(path string) *LocalAnalysisStore {
	return &LocalAnalysisStore{path: path}
}

// Append adds a record and enforces the per-user cap
func (s *LocalAnalysisStore) Append(record *domain.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, record)
	records = capPerUser(records, record.UserID)

	return s.write(records)
}

// ListRecent returns up to limit records for a user, newest first.
// A missing file yields an empty slice, not an error.
func (s *LocalAnalysisStore) ListRecent(userID string, limit int) ([]*domain.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	var matched []*domain.AnalysisRecord
	for _, r := range records {
		if r.UserID == userID {
			matched = append(matched, r)
		}
	}

	sortNewestFirst(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// Compact rewrites the file enforcing the per-user cap for every user.
// Run periodically so interrupted writes cannot grow the file unbounded.
func (s *LocalAnalysisStore) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	users := make(map[string]bool)
	for _, r := range records {
		users[r.UserID] = true
	}
	for userID := range users {
		records = capPerUser(records, userID)
	}

	return s.write(records)
}

// load reads and decodes the whole record set. Malformed files are treated
// as empty rather than poisoning every future append.
func (s *LocalAnalysisStore) load() ([]*domain.AnalysisRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fallback store: %w", err)
	}

	var records []*domain.AnalysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}

	return records, nil
}

func (s *LocalAnalysisStore) write(records []*domain.AnalysisRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fallback store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fallback store: %w", err)
	}

	return nil
}

// capPerUser drops the oldest records of one user beyond MaxRecordsPerUser,
// preserving the relative order of everything else.
func capPerUser(records []*domain.AnalysisRecord, userID string) []*domain.AnalysisRecord {
	var owned []*domain.AnalysisRecord
	for _, r := range records {
		if r.UserID == userID {
			owned = append(owned, r)
		}
	}

	if len(owned) <= MaxRecordsPerUser {
		return records
	}

	sortNewestFirst(owned)
	keep := make(map[string]bool, MaxRecordsPerUser)
	for _, r := range owned[:MaxRecordsPerUser] {
		keep[r.ID] = true
	}

	out := records[:0]
	for _, r := range records {
		if r.UserID != userID || keep[r.ID] {
			out = append(out, r)
		}
	}

	return out
}

func sortNewestFirst(records []*domain.AnalysisRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
