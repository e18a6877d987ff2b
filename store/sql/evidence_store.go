package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-access/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type EvidenceStore struct {
	db   *bun.DB
	repo repository.Repository[*evidenceRecordRow]
}

func NewEvidenceStore(db *bun.DB) (*EvidenceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*evidenceRecordRow](db, evidenceHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid evidence repository wiring: %w", err)
		}
	}
	return &EvidenceStore{db: db, repo: repo}, nil
}

func (s *EvidenceStore) Save(ctx context.Context, record core.EvidenceRecord) (core.EvidenceRecord, error) {
	if s == nil || s.repo == nil {
		return core.EvidenceRecord{}, fmt.Errorf("sqlstore: evidence store is not configured")
	}
	if strings.TrimSpace(record.ArtifactRef) == "" {
		return core.EvidenceRecord{}, fmt.Errorf("sqlstore: artifact reference is required")
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	created, err := s.repo.Create(ctx, newEvidenceRecordRow(record, time.Now().UTC()))
	if err != nil {
		return core.EvidenceRecord{}, err
	}
	return created.toDomain(), nil
}

func (s *EvidenceStore) Get(ctx context.Context, id string) (core.EvidenceRecord, error) {
	if s == nil || s.repo == nil {
		return core.EvidenceRecord{}, fmt.Errorf("sqlstore: evidence store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.EvidenceRecord{}, fmt.Errorf("%w: %s", core.ErrEvidenceNotFound, strings.TrimSpace(id))
	}
	return record.toDomain(), nil
}

func (s *EvidenceStore) ListByAccessItem(ctx context.Context, accessItemID string) ([]core.EvidenceRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: evidence store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("access_item_id", "=", strings.TrimSpace(accessItemID)),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.EvidenceRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
