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

type AgencyPlatformStore struct {
	db   *bun.DB
	repo repository.Repository[*agencyPlatformRecord]
}

func NewAgencyPlatformStore(db *bun.DB) (*AgencyPlatformStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*agencyPlatformRecord](db, agencyPlatformHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid agency platform repository wiring: %w", err)
		}
	}
	return &AgencyPlatformStore{db: db, repo: repo}, nil
}

func (s *AgencyPlatformStore) Get(ctx context.Context, agencyID, platformKey string) (core.AgencyPlatform, error) {
	if s == nil || s.repo == nil {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: agency platform store is not configured")
	}
	record, err := s.find(ctx, agencyID, platformKey)
	if err != nil {
		return core.AgencyPlatform{}, err
	}
	return record.toDomain(), nil
}

func (s *AgencyPlatformStore) Upsert(ctx context.Context, in core.AgencyPlatform) (core.AgencyPlatform, error) {
	if s == nil || s.repo == nil {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: agency platform store is not configured")
	}
	agencyID := strings.TrimSpace(in.AgencyID)
	platformKey := strings.TrimSpace(in.PlatformKey)
	if agencyID == "" {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: agency id is required")
	}
	if platformKey == "" {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: platform key is required")
	}
	now := time.Now().UTC()

	existing, err := s.find(ctx, agencyID, platformKey)
	if err == nil {
		existing.Pam = newPamConfigRecord(in.Pam)
		existing.Enabled = in.Enabled
		existing.UpdatedAt = now
		updated, updateErr := s.repo.Update(ctx, existing, repository.UpdateByID(existing.ID))
		if updateErr != nil {
			return core.AgencyPlatform{}, updateErr
		}
		return updated.toDomain(), nil
	}
	if !isNotFound(err) {
		return core.AgencyPlatform{}, err
	}

	in.AgencyID = agencyID
	in.PlatformKey = platformKey
	if strings.TrimSpace(in.ID) == "" {
		in.ID = uuid.NewString()
	}
	created, err := s.repo.Create(ctx, newAgencyPlatformRecord(in, now))
	if err != nil {
		return core.AgencyPlatform{}, err
	}
	return created.toDomain(), nil
}

func (s *AgencyPlatformStore) ListByAgency(ctx context.Context, agencyID string) ([]core.AgencyPlatform, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: agency platform store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("agency_id", "=", strings.TrimSpace(agencyID)),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL")
		}),
		repository.OrderBy("platform_key ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.AgencyPlatform, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (s *AgencyPlatformStore) Delete(ctx context.Context, agencyID, platformKey string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: agency platform store is not configured")
	}
	record, err := s.find(ctx, agencyID, platformKey)
	if err != nil {
		return err
	}
	_, err = s.db.NewDelete().
		Model((*agencyPlatformRecord)(nil)).
		Where("id = ?", record.ID).
		Exec(ctx)
	return err
}

func (s *AgencyPlatformStore) find(ctx context.Context, agencyID, platformKey string) (*agencyPlatformRecord, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("agency_id", "=", strings.TrimSpace(agencyID)),
		repository.SelectBy("platform_key", "=", strings.TrimSpace(platformKey)),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL")
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", core.ErrAgencyPlatformNotFound, agencyID, platformKey)
	}
	return records[0], nil
}
