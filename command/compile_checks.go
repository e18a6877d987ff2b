package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[GrantMessage]                = (*GrantCommand)(nil)
	_ gocmd.Commander[VerifyMessage]               = (*VerifyCommand)(nil)
	_ gocmd.Commander[RevokeMessage]               = (*RevokeCommand)(nil)
	_ gocmd.Commander[RecordEvidenceMessage]       = (*RecordEvidenceCommand)(nil)
	_ gocmd.Commander[UpsertAgencyPlatformMessage] = (*UpsertAgencyPlatformCommand)(nil)
)
