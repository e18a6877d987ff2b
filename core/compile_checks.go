package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ AgencyPlatformStore = (*MemoryAgencyPlatformStore)(nil)
	_ AccessItemStore     = (*MemoryAccessItemStore)(nil)
	_ EvidenceStore       = (*MemoryEvidenceStore)(nil)
	_ ActivitySink        = (*MemoryActivitySink)(nil)

	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
