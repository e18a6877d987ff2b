package command

import (
	"context"

	"github.com/goliatone/go-access/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	Grant(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error)
	Verify(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error)
	Revoke(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error)
	RecordEvidence(ctx context.Context, record core.EvidenceRecord) (core.EvidenceRecord, error)
	UpsertAgencyPlatform(ctx context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error)
}

type GrantCommand struct {
	service MutatingService
}

func NewGrantCommand(service MutatingService) *GrantCommand {
	return &GrantCommand{service: service}
}

func (c *GrantCommand) Execute(ctx context.Context, msg GrantMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: grant service is required")
	}
	out, err := c.service.Grant(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type VerifyCommand struct {
	service MutatingService
}

func NewVerifyCommand(service MutatingService) *VerifyCommand {
	return &VerifyCommand{service: service}
}

func (c *VerifyCommand) Execute(ctx context.Context, msg VerifyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: verify service is required")
	}
	out, err := c.service.Verify(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RevokeCommand struct {
	service MutatingService
}

func NewRevokeCommand(service MutatingService) *RevokeCommand {
	return &RevokeCommand{service: service}
}

func (c *RevokeCommand) Execute(ctx context.Context, msg RevokeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: revoke service is required")
	}
	out, err := c.service.Revoke(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RecordEvidenceCommand struct {
	service MutatingService
}

func NewRecordEvidenceCommand(service MutatingService) *RecordEvidenceCommand {
	return &RecordEvidenceCommand{service: service}
}

func (c *RecordEvidenceCommand) Execute(ctx context.Context, msg RecordEvidenceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: evidence service is required")
	}
	out, err := c.service.RecordEvidence(ctx, msg.Record)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpsertAgencyPlatformCommand struct {
	service MutatingService
}

func NewUpsertAgencyPlatformCommand(service MutatingService) *UpsertAgencyPlatformCommand {
	return &UpsertAgencyPlatformCommand{service: service}
}

func (c *UpsertAgencyPlatformCommand) Execute(ctx context.Context, msg UpsertAgencyPlatformMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: agency platform service is required")
	}
	out, err := c.service.UpsertAgencyPlatform(ctx, msg.Record)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
