package core

import (
	"context"
	"time"

	"guildcore/pkg/domain"
)

// Logger is the minimal structured logging contract used by the service.
// Keyvals are alternating keys and values.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface. A nil function falls
// back to UTC wall time.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f()
}

// AuditStatus describes the outcome recorded in an audit entry.
type AuditStatus string

// Audit entry outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry captures one service operation for the audit trail.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries for completed operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

// MetricsRecorder receives operation timing and outcome observations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan ends a started span with the operation's terminal error, if any.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type operationInfo struct {
	entity domain.EntityType
	action domain.Action
}

// operationMetadata maps service operations to the entity and action recorded
// in audit entries.
var operationMetadata = map[string]operationInfo{
	"create_guild": {domain.EntityGuild, domain.ActionCreate},
	"update_guild": {domain.EntityGuild, domain.ActionUpdate},
	"delete_guild": {domain.EntityGuild, domain.ActionDelete},

	"create_member": {domain.EntityMember, domain.ActionCreate},
	"update_member": {domain.EntityMember, domain.ActionUpdate},
	"delete_member": {domain.EntityMember, domain.ActionDelete},

	"create_cycle": {domain.EntityCycle, domain.ActionCreate},
	"update_cycle": {domain.EntityCycle, domain.ActionUpdate},
	"delete_cycle": {domain.EntityCycle, domain.ActionDelete},

	"create_pitch":   {domain.EntityPitch, domain.ActionCreate},
	"update_pitch":   {domain.EntityPitch, domain.ActionUpdate},
	"delete_pitch":   {domain.EntityPitch, domain.ActionDelete},
	"transfer_pitch": {domain.EntityPitch, domain.ActionUpdate},

	"create_scope":     {domain.EntityScope, domain.ActionCreate},
	"update_scope":     {domain.EntityScope, domain.ActionUpdate},
	"delete_scope":     {domain.EntityScope, domain.ActionDelete},
	"prioritize_scope": {domain.EntityScopePosition, domain.ActionUpdate},

	"create_breadboard":          {domain.EntityBreadboard, domain.ActionCreate},
	"update_breadboard":          {domain.EntityBreadboard, domain.ActionUpdate},
	"delete_breadboard":          {domain.EntityBreadboard, domain.ActionDelete},
	"attach_breadboard_artifact": {domain.EntityBreadboard, domain.ActionUpdate},

	"create_event": {domain.EntityEvent, domain.ActionCreate},
	"update_event": {domain.EntityEvent, domain.ActionUpdate},
	"delete_event": {domain.EntityEvent, domain.ActionDelete},

	"open_wallet":            {domain.EntityWallet, domain.ActionCreate},
	"post_semos_transaction": {domain.EntitySemosTransaction, domain.ActionCreate},
	"mint_emission":          {domain.EntitySemosEmission, domain.ActionCreate},
	"set_semos_rate":         {domain.EntitySemosRate, domain.ActionCreate},

	"record_timesheet": {domain.EntityTimesheet, domain.ActionCreate},
	"update_timesheet": {domain.EntityTimesheet, domain.ActionUpdate},
	"delete_timesheet": {domain.EntityTimesheet, domain.ActionDelete},

	"place_bet":  {domain.EntityBet, domain.ActionCreate},
	"update_bet": {domain.EntityBet, domain.ActionUpdate},
	"delete_bet": {domain.EntityBet, domain.ActionDelete},

	"record_hill_chart_snapshot": {domain.EntityHillChartSnapshot, domain.ActionCreate},

	"create_chowder_item": {domain.EntityChowderItem, domain.ActionCreate},
	"update_chowder_item": {domain.EntityChowderItem, domain.ActionUpdate},
	"delete_chowder_item": {domain.EntityChowderItem, domain.ActionDelete},

	"create_idea_list": {domain.EntityIdeaList, domain.ActionCreate},
	"update_idea_list": {domain.EntityIdeaList, domain.ActionUpdate},
	"delete_idea_list": {domain.EntityIdeaList, domain.ActionDelete},

	"create_idea_item": {domain.EntityIdeaItem, domain.ActionCreate},
	"update_idea_item": {domain.EntityIdeaItem, domain.ActionUpdate},
	"delete_idea_item": {domain.EntityIdeaItem, domain.ActionDelete},
}

// instrument wraps one service operation with tracing, metrics, audit, and
// error logging. entityID may be resolved lazily by fn via the returned id.
func (s *Service) instrument(ctx context.Context, operation string, fn func(ctx context.Context) (string, error)) error {
	ctx, span := s.tracer.Start(ctx, operation)
	start := s.clock.Now()
	entityID, err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	span.End(err)

	s.metrics.Observe(ctx, operation, err == nil, duration)

	entry := AuditEntry{
		Operation: operation,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: start,
	}
	if meta, ok := operationMetadata[operation]; ok {
		entry.Entity = meta.entity
		entry.Action = meta.action
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error("operation failed", "operation", operation, "entity_id", entityID, "error", err)
	} else {
		s.logger.Debug("operation completed", "operation", operation, "entity_id", entityID, "duration", duration)
	}
	s.audit.Record(ctx, entry)
	return err
}
