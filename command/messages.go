package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-access/core"
)

const (
	TypeGrant                = "access.command.grant"
	TypeVerify               = "access.command.verify"
	TypeRevoke               = "access.command.revoke"
	TypeRecordEvidence       = "access.command.evidence.record"
	TypeUpsertAgencyPlatform = "access.command.agency_platform.upsert"
)

type GrantMessage struct {
	Request core.OperationRequest
}

func (GrantMessage) Type() string { return TypeGrant }

func (m GrantMessage) Validate() error {
	return validateOperation(m.Request)
}

type VerifyMessage struct {
	Request core.OperationRequest
}

func (VerifyMessage) Type() string { return TypeVerify }

func (m VerifyMessage) Validate() error {
	return validateOperation(m.Request)
}

type RevokeMessage struct {
	Request core.OperationRequest
}

func (RevokeMessage) Type() string { return TypeRevoke }

func (m RevokeMessage) Validate() error {
	return validateOperation(m.Request)
}

type RecordEvidenceMessage struct {
	Record core.EvidenceRecord
}

func (RecordEvidenceMessage) Type() string { return TypeRecordEvidence }

func (m RecordEvidenceMessage) Validate() error {
	if strings.TrimSpace(m.Record.PlatformKey) == "" {
		return fmt.Errorf("command: platform key is required")
	}
	if strings.TrimSpace(m.Record.ArtifactRef) == "" {
		return fmt.Errorf("command: artifact reference is required")
	}
	return nil
}

type UpsertAgencyPlatformMessage struct {
	Record core.AgencyPlatform
}

func (UpsertAgencyPlatformMessage) Type() string { return TypeUpsertAgencyPlatform }

func (m UpsertAgencyPlatformMessage) Validate() error {
	if strings.TrimSpace(m.Record.AgencyID) == "" {
		return fmt.Errorf("command: agency id is required")
	}
	if strings.TrimSpace(m.Record.PlatformKey) == "" {
		return fmt.Errorf("command: platform key is required")
	}
	if m.Record.Pam != nil {
		if err := m.Record.Pam.Validate(); err != nil {
			return fmt.Errorf("command: %w", err)
		}
	}
	return nil
}

// Deeper request validation happens inside the service against the platform
// manifest; messages only gate on routing fields.
func validateOperation(req core.OperationRequest) error {
	if strings.TrimSpace(req.PlatformKey) == "" {
		return fmt.Errorf("command: platform key is required")
	}
	return nil
}
