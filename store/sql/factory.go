package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-access/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	agencyPlatformStore *AgencyPlatformStore
	accessItemStore     *AccessItemStore
	evidenceStore       *EvidenceStore
	activityStore       *ActivityStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.agencyPlatformStore != nil && f.accessItemStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) AgencyPlatformStore() core.AgencyPlatformStore {
	if f == nil {
		return nil
	}
	return f.agencyPlatformStore
}

func (f *RepositoryFactory) AccessItemStore() core.AccessItemStore {
	if f == nil {
		return nil
	}
	return f.accessItemStore
}

func (f *RepositoryFactory) EvidenceStore() core.EvidenceStore {
	if f == nil {
		return nil
	}
	return f.evidenceStore
}

func (f *RepositoryFactory) ActivitySink() core.ActivitySink {
	if f == nil {
		return nil
	}
	return f.activityStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	agencyPlatformStore, err := NewAgencyPlatformStore(f.db)
	if err != nil {
		return err
	}
	f.agencyPlatformStore = agencyPlatformStore
	accessItemStore, err := NewAccessItemStore(f.db)
	if err != nil {
		return err
	}
	f.accessItemStore = accessItemStore
	evidenceStore, err := NewEvidenceStore(f.db)
	if err != nil {
		return err
	}
	f.evidenceStore = evidenceStore
	activityStore, err := NewActivityStore(f.db)
	if err != nil {
		return err
	}
	f.activityStore = activityStore

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
