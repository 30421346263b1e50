package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/repository"
)

type progressStore struct {
	kv repository.KVStore
}

// NewProgressStore creates a ProgressRepository that keeps every quiz's
// history in one blob. Writes are whole-blob read-modify-write and are not
// atomic across processes.
func NewProgressStore(kv repository.KVStore) repository.ProgressRepository {
	return &progressStore{kv: kv}
}

func (s *progressStore) load(ctx context.Context) (map[string]progressRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_store")

	raw, found, err := s.kv.Get(ctx, repository.ProgressKey)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	records := make(map[string]progressRecord)
	if !found {
		return records, nil
	}

	var decoded map[string]progressRecord
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Warn("discarding malformed progress blob: %v", err)
		return records, nil
	}

	for key, rec := range decoded {
		var valid []attemptRecord
		for i, a := range rec.Attempts {
			if err := a.validate(); err != nil {
				log.Warn("dropping attempt %d of quiz %s: %v", i, key, err)
				continue
			}
			valid = append(valid, a)
		}
		rec.Attempts = valid
		if rec.QuizID == "" {
			rec.QuizID = key
		}
		records[key] = rec
	}
	return records, nil
}

func (s *progressStore) store(ctx context.Context, records map[string]progressRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(ctx, repository.ProgressKey, string(data)); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func (s *progressStore) Get(ctx context.Context, quizID string) (*models.Progress, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := records[quizID]
	if !ok {
		return nil, nil
	}
	p := rec.model(quizID)
	return &p, nil
}

func (s *progressStore) GetAll(ctx context.Context) (map[string]models.Progress, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Progress, len(records))
	for key, rec := range records {
		out[key] = rec.model(key)
	}
	return out, nil
}

// Save appends attempt to quizID's history, creating it if needed. The
// snapshot is only attached when the history has none yet.
func (s *progressStore) Save(ctx context.Context, quizID string, attempt models.Attempt, snapshot *models.ProfileSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("progress_store")

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	rec, ok := records[quizID]
	if !ok {
		rec = progressRecord{QuizID: quizID}
	}
	if rec.UserProfile == nil && snapshot != nil {
		rec.UserProfile = &snapshotRecord{Name: snapshot.Name, Year: snapshot.Year}
	}
	rec.Attempts = append(rec.Attempts, toAttemptRecord(attempt))
	records[quizID] = rec

	if err := s.store(ctx, records); err != nil {
		return err
	}
	log.Debug("attempt saved: quiz=%s score=%d/%d attempts=%d", quizID, attempt.Score, attempt.TotalQuestions, len(rec.Attempts))
	return nil
}

func (s *progressStore) Clear(ctx context.Context, quizID string) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := records[quizID]; !ok {
		return nil
	}
	delete(records, quizID)
	return s.store(ctx, records)
}
