package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/events"
	"github.com/spec-kit/club-access-service/internal/repository"
)

const defaultAuditTimeout = 3 * time.Second

type operatorCtxKey struct{}

// WithOperator tags ctx with the operator driving the request so audit
// entries can name them.
func WithOperator(ctx context.Context, operatorID string) context.Context {
	if operatorID == "" {
		return ctx
	}
	return context.WithValue(ctx, operatorCtxKey{}, operatorID)
}

func actorFromContext(ctx context.Context) events.Actor {
	id, ok := ctx.Value(operatorCtxKey{}).(string)
	if !ok || id == "" {
		return events.Actor{}
	}
	return events.Actor{OperatorID: &id}
}

// AuditService persists badge flow events into the NFC debug log.
type AuditService struct {
	dispatcher events.Dispatcher
	logs       repository.DebugLogRepository
	logger     *zap.Logger
	timeout    time.Duration
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logs repository.DebugLogRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logs:       logs,
		logger:     logger.Named("audit"),
		timeout:    defaultAuditTimeout,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handleBadgeAttempt)
	}
}

// handleBadgeAttempt writes one debug log entry. The write runs detached
// from the request's cancellation but bounded by the audit timeout;
// failures are logged and never reach the badge flow.
func (a *AuditService) handleBadgeAttempt(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BadgeAttemptPayload)
	if !ok {
		a.logger.Error("unexpected audit payload", zap.String("event_type", string(event.Type)), zap.String("payload_type", fmt.Sprintf("%T", event.Payload)))
		return nil
	}

	raw := make(map[string]any, len(payload.Context)+2)
	for k, v := range payload.Context {
		raw[k] = v
	}
	raw["event"] = string(event.Type)
	if event.Actor.OperatorID != nil {
		raw["operator_id"] = *event.Actor.OperatorID
	}

	entry := &domain.DebugLogEntry{
		Token:   payload.Token,
		Status:  payload.Status,
		Payload: raw,
	}
	if event.DeviceID != "" {
		deviceID := event.DeviceID
		entry.DeviceID = &deviceID
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	if err := a.logs.Create(writeCtx, entry); err != nil {
		a.logger.Error("audit write failed",
			zap.String("event_type", string(event.Type)),
			zap.String("status", payload.Status),
			zap.Error(err))
		return nil
	}
	a.logger.Debug("audit written", zap.Int64("id", entry.ID), zap.String("status", entry.Status))
	return nil
}
