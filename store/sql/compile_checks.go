package sqlstore

import "github.com/goliatone/go-access/core"

var (
	_ core.AgencyPlatformStore    = (*AgencyPlatformStore)(nil)
	_ core.AccessItemStore        = (*AccessItemStore)(nil)
	_ core.EvidenceStore          = (*EvidenceStore)(nil)
	_ core.ActivitySink           = (*ActivityStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
