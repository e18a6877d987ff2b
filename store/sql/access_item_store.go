package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-access/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AccessItemStore struct {
	db   *bun.DB
	repo repository.Repository[*accessItemRecord]
}

func NewAccessItemStore(db *bun.DB) (*AccessItemStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*accessItemRecord](db, accessItemHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid access item repository wiring: %w", err)
		}
	}
	return &AccessItemStore{db: db, repo: repo}, nil
}

func (s *AccessItemStore) Save(ctx context.Context, item core.AccessItem) (core.AccessItem, error) {
	if s == nil || s.repo == nil {
		return core.AccessItem{}, fmt.Errorf("sqlstore: access item store is not configured")
	}
	if strings.TrimSpace(item.PlatformKey) == "" {
		return core.AccessItem{}, fmt.Errorf("sqlstore: platform key is required")
	}
	now := time.Now().UTC()
	if strings.TrimSpace(string(item.Status)) == "" {
		item.Status = core.AccessItemStatusRequested
	}

	id := strings.TrimSpace(item.ID)
	if id == "" {
		item.ID = uuid.NewString()
		created, err := s.repo.Create(ctx, newAccessItemRecord(item, now))
		if err != nil {
			return core.AccessItem{}, err
		}
		return created.toDomain(), nil
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err == nil {
		record := newAccessItemRecord(item, now)
		record.CreatedAt = existing.CreatedAt
		updated, updateErr := s.repo.Update(ctx, record, repository.UpdateByID(id))
		if updateErr != nil {
			return core.AccessItem{}, updateErr
		}
		return updated.toDomain(), nil
	}

	created, err := s.repo.Create(ctx, newAccessItemRecord(item, now))
	if err != nil {
		return core.AccessItem{}, err
	}
	return created.toDomain(), nil
}

func (s *AccessItemStore) Get(ctx context.Context, id string) (core.AccessItem, error) {
	if s == nil || s.repo == nil {
		return core.AccessItem{}, fmt.Errorf("sqlstore: access item store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.AccessItem{}, fmt.Errorf("%w: %s", core.ErrAccessItemNotFound, strings.TrimSpace(id))
	}
	return record.toDomain(), nil
}

func (s *AccessItemStore) UpdateStatus(ctx context.Context, id string, status core.AccessItemStatus, reason string) (core.AccessItem, error) {
	if s == nil || s.repo == nil {
		return core.AccessItem{}, fmt.Errorf("sqlstore: access item store is not configured")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return core.AccessItem{}, err
	}
	now := time.Now().UTC()
	if err := item.TransitionTo(status, reason, now); err != nil {
		return core.AccessItem{}, err
	}
	record := newAccessItemRecord(item, now)
	record.CreatedAt = item.CreatedAt
	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(item.ID))
	if err != nil {
		return core.AccessItem{}, err
	}
	return updated.toDomain(), nil
}

func (s *AccessItemStore) ListByAgency(ctx context.Context, agencyID string) ([]core.AccessItem, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: access item store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("agency_id", "=", strings.TrimSpace(agencyID)),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.AccessItem, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrAgencyPlatformNotFound) ||
		errors.Is(err, core.ErrAccessItemNotFound) ||
		errors.Is(err, core.ErrEvidenceNotFound)
}
