package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/identity"
)

// NewRotationSweepMessage builds the queue message for one agency rotation
// sweep. The idempotency key pins the message to the sweep day so a
// re-enqueued schedule does not double-run.
func NewRotationSweepMessage(agencyID string, day time.Time) *core.JobExecutionMessage {
	agencyID = strings.TrimSpace(agencyID)
	return &core.JobExecutionMessage{
		JobID:          JobIDRotationSweep,
		Parameters:     map[string]any{"agency_id": agencyID},
		IdempotencyKey: fmt.Sprintf("%s::%s::%s", JobIDRotationSweep, agencyID, day.UTC().Format("2006-01-02")),
	}
}

// NewEvidenceReminderMessage builds the queue message for one agency evidence
// reminder pass.
func NewEvidenceReminderMessage(agencyID string, day time.Time) *core.JobExecutionMessage {
	agencyID = strings.TrimSpace(agencyID)
	return &core.JobExecutionMessage{
		JobID:          JobIDEvidenceReminder,
		Parameters:     map[string]any{"agency_id": agencyID},
		IdempotencyKey: fmt.Sprintf("%s::%s::%s", JobIDEvidenceReminder, agencyID, day.UTC().Format("2006-01-02")),
	}
}

// RotationSweep finds shared-credential identities whose rotation is due and
// records an activity entry per identity. Rotation execution itself lives in
// the external vault tooling; the sweep only surfaces the work.
type RotationSweep struct {
	registry *identity.Registry
	sink     core.ActivitySink
	logger   core.Logger
}

func NewRotationSweep(registry *identity.Registry, sink core.ActivitySink, logger core.Logger) (*RotationSweep, error) {
	if registry == nil {
		return nil, fmt.Errorf("gojob: identity registry is required")
	}
	return &RotationSweep{registry: registry, sink: sink, logger: logger}, nil
}

func (j *RotationSweep) Run(ctx context.Context, agencyID string, now time.Time) (int, error) {
	if j == nil || j.registry == nil {
		return 0, fmt.Errorf("gojob: rotation sweep is not configured")
	}
	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return 0, fmt.Errorf("gojob: agency id is required")
	}

	due, err := j.registry.RotationDue(ctx, agencyID, now)
	if err != nil {
		return 0, err
	}
	for _, record := range due {
		if j.logger != nil {
			j.logger.Info("rotation due",
				"agency_id", agencyID,
				"identity_id", record.ID,
				"email", record.Email,
			)
		}
		if j.sink == nil {
			continue
		}
		entry := core.ActivityEntry{
			AgencyID:    agencyID,
			PlatformKey: "vault",
			Operation:   "rotation.due",
			Identity:    record.Email,
			Status:      core.ActivityStatusManual,
			Detail:      fmt.Sprintf("credential rotation due for identity %s", record.ID),
			Metadata: map[string]any{
				"identity_id":   record.ID,
				"identity_kind": string(record.Kind),
			},
			CreatedAt: now.UTC(),
		}
		if err := j.sink.Record(ctx, entry); err != nil {
			return 0, err
		}
	}
	return len(due), nil
}

// EvidenceReminder surfaces access items stuck in pending_evidence so the
// agency chases the missing upload.
type EvidenceReminder struct {
	items  core.AccessItemStore
	sink   core.ActivitySink
	logger core.Logger
}

func NewEvidenceReminder(items core.AccessItemStore, sink core.ActivitySink, logger core.Logger) (*EvidenceReminder, error) {
	if items == nil {
		return nil, fmt.Errorf("gojob: access item store is required")
	}
	return &EvidenceReminder{items: items, sink: sink, logger: logger}, nil
}

func (j *EvidenceReminder) Run(ctx context.Context, agencyID string, now time.Time) (int, error) {
	if j == nil || j.items == nil {
		return 0, fmt.Errorf("gojob: evidence reminder is not configured")
	}
	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return 0, fmt.Errorf("gojob: agency id is required")
	}

	items, err := j.items.ListByAgency(ctx, agencyID)
	if err != nil {
		return 0, err
	}
	reminded := 0
	for _, item := range items {
		if item.Status != core.AccessItemStatusPendingEvidence {
			continue
		}
		reminded++
		if j.logger != nil {
			j.logger.Info("evidence upload pending",
				"agency_id", agencyID,
				"access_item_id", item.ID,
				"platform_key", item.PlatformKey,
			)
		}
		if j.sink == nil {
			continue
		}
		entry := core.ActivityEntry{
			AgencyID:    agencyID,
			PlatformKey: item.PlatformKey,
			Operation:   "evidence.remind",
			AccessType:  item.AccessItemType,
			Identity:    item.Identity,
			Status:      core.ActivityStatusManual,
			Detail:      fmt.Sprintf("evidence upload pending for access item %s", item.ID),
			Metadata:    map[string]any{"access_item_id": item.ID},
			CreatedAt:   now.UTC(),
		}
		if err := j.sink.Record(ctx, entry); err != nil {
			return reminded, err
		}
	}
	return reminded, nil
}

// Dispatcher routes dequeued messages to the registered jobs.
type Dispatcher struct {
	rotation *RotationSweep
	evidence *EvidenceReminder
}

func NewDispatcher(rotation *RotationSweep, evidence *EvidenceReminder) *Dispatcher {
	return &Dispatcher{rotation: rotation, evidence: evidence}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *core.JobExecutionMessage) error {
	if d == nil {
		return fmt.Errorf("gojob: dispatcher is not configured")
	}
	if msg == nil {
		return fmt.Errorf("gojob: execution message is required")
	}
	agencyID := parameterString(msg.Parameters, "agency_id")
	now := time.Now().UTC()

	switch strings.TrimSpace(msg.JobID) {
	case JobIDRotationSweep:
		if d.rotation == nil {
			return fmt.Errorf("gojob: rotation sweep job is not registered")
		}
		_, err := d.rotation.Run(ctx, agencyID, now)
		return err
	case JobIDEvidenceReminder:
		if d.evidence == nil {
			return fmt.Errorf("gojob: evidence reminder job is not registered")
		}
		_, err := d.evidence.Run(ctx, agencyID, now)
		return err
	default:
		return fmt.Errorf("gojob: unknown job id %q", msg.JobID)
	}
}

func parameterString(parameters map[string]any, key string) string {
	if len(parameters) == 0 {
		return ""
	}
	value, ok := parameters[key]
	if !ok || value == nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
