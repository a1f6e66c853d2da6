package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/club-access-service/internal/cache"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/events"
	"github.com/spec-kit/club-access-service/internal/repository"
	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

const historyLimit = 50

// CardDirectory is the badge side of the access directory: enrollment
// sessions on a reader and card-to-user lookups.
type CardDirectory interface {
	StartCardSession(ctx context.Context, deviceID string) (string, error)
	WaitForCardToken(ctx context.Context, sessionID string) (string, error)
	DeleteCardSession(ctx context.Context, sessionID string) error
	FindUserByCardToken(ctx context.Context, token string) (*domain.DirectoryUser, error)
}

// SessionService coordinates the badge binding flow:
// read, resolve, hold pending, confirm or cancel.
type SessionService struct {
	directory     CardDirectory
	sessions      *cache.SessionCache
	resolver      *MemberResolver
	members       repository.MemberRepository
	logs          repository.DebugLogRepository
	dispatcher    events.Dispatcher
	defaultReader string
	logger        *zap.Logger
	now           func() time.Time
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	Directory     CardDirectory
	Sessions      *cache.SessionCache
	MemberRepo    repository.MemberRepository
	DebugLogRepo  repository.DebugLogRepository
	Dispatcher    events.Dispatcher
	DefaultReader string
	Logger        *zap.Logger
}

// ReadResult is the outcome of one read on a reader.
type ReadResult struct {
	DeviceID           string
	CardDetected       bool
	Token              string
	User               *domain.DirectoryUser
	Member             *domain.Member
	DirectoryAvailable bool
}

// ConfirmInput is the operator's confirmation of a pending read.
type ConfirmInput struct {
	Token    string
	FullName string
	DeviceID string
}

// BindResult identifies the member a card was confirmed for.
type BindResult struct {
	MemberID   int64
	MemberName string
	Timestamp  time.Time
	DeviceID   string
}

// CancelResult reports what a cancel touched.
type CancelResult struct {
	DeviceID        string
	RemoteSessionID string
	RemoteCancelled bool
}

// BulkAssignment is one requested token to member pairing.
type BulkAssignment struct {
	Token    string
	MemberID int64
}

// BulkAssignRow is the validated form of one pairing.
type BulkAssignRow struct {
	Token      string
	MemberID   int64
	MemberName string
	Error      string
}

// BulkAssignResult summarises a bulk assignment.
type BulkAssignResult struct {
	Results []BulkAssignRow
	Errors  []BulkAssignRow
	Total   int
}

// Success reports whether every row validated.
func (r BulkAssignResult) Success() bool {
	return len(r.Errors) == 0
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		directory:     deps.Directory,
		sessions:      deps.Sessions,
		resolver:      NewMemberResolver(deps.MemberRepo),
		members:       deps.MemberRepo,
		logs:          deps.DebugLogRepo,
		dispatcher:    deps.Dispatcher,
		defaultReader: deps.DefaultReader,
		logger:        logger,
		now:           time.Now,
	}
}

// Read waits for a card on the reader and resolves it. deviceID scopes the
// session key; when empty the global slot and the default reader are used.
// A resolved card becomes the pending session of the key, replacing any
// older one. Directory outages degrade to an unresolved identity.
func (s *SessionService) Read(ctx context.Context, deviceID string) (*ReadResult, error) {
	reader := deviceID
	if reader == "" {
		reader = s.defaultReader
	}
	if reader == "" {
		return nil, apperrors.NewValidationError("device_id required, no default reader configured", nil)
	}

	result := &ReadResult{DeviceID: deviceID, DirectoryAvailable: true}

	token, err := s.readToken(ctx, deviceID, reader)
	if err != nil {
		s.logger.Warn("reader unavailable", zap.String("reader", reader), zap.Error(err))
		result.DirectoryAvailable = false
	}
	if token == "" {
		s.record(ctx, events.EventBadgeRead, deviceID, "", domain.DebugStatusNoCard, map[string]any{
			"device_id": nullable(deviceID),
		})
		return result, nil
	}
	result.CardDetected = true
	result.Token = token

	user, err := s.directory.FindUserByCardToken(ctx, token)
	if err != nil {
		s.logger.Warn("card lookup degraded", zap.String("device_id", deviceID), zap.Error(err))
		result.DirectoryAvailable = false
	}
	result.User = user

	if user != nil {
		pending := domain.PendingSession{
			DeviceID:         deviceID,
			Token:            token,
			ExternalUserID:   user.ID,
			ExternalFullName: user.FullName,
			CreatedAt:        s.now().UTC(),
		}
		if err := s.sessions.PutPending(ctx, pending); err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		member, err := s.resolver.Preview(ctx, user.FullName)
		if err != nil {
			s.logger.Warn("member preview failed", zap.Error(err))
		}
		result.Member = member
	}

	status := domain.DebugStatusUnknown
	if result.Member != nil {
		status = domain.DebugStatusSuccess
	}
	s.record(ctx, events.EventBadgeRead, deviceID, token, status, readContext(result))
	return result, nil
}

// Bind is Read for the binding screen: no card and an unknown card are errors.
func (s *SessionService) Bind(ctx context.Context, deviceID string) (*ReadResult, error) {
	result, err := s.Read(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	details := map[string]any{"device_id": nullable(deviceID)}
	if !result.CardDetected {
		return nil, ErrNoCard.WithDetails(details)
	}
	if result.User == nil {
		details["token"] = result.Token
		return nil, ErrDirectoryUserNotFound.WithDetails(details)
	}
	return result, nil
}

// readToken opens an enrollment session, records its id so a concurrent
// cancel can close it, and waits for a card. The session is closed again
// once the wait ends.
func (s *SessionService) readToken(ctx context.Context, deviceID, reader string) (string, error) {
	sessionID, err := s.directory.StartCardSession(ctx, reader)
	if err != nil {
		return "", err
	}
	if err := s.sessions.PutActiveSession(ctx, deviceID, sessionID); err != nil {
		s.logger.Warn("store reader session id", zap.String("session_id", sessionID), zap.Error(err))
	}

	token, err := s.directory.WaitForCardToken(ctx, sessionID)
	s.closeReaderSession(ctx, deviceID, sessionID)
	return token, err
}

func (s *SessionService) closeReaderSession(ctx context.Context, deviceID, sessionID string) {
	current, err := s.sessions.ActiveSession(ctx, deviceID)
	if err != nil || current != sessionID {
		// cancelled meanwhile, or a newer read owns the key
		return
	}
	if err := s.directory.DeleteCardSession(ctx, sessionID); err != nil {
		s.logger.Debug("close reader session", zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := s.sessions.DeleteActiveSession(ctx, deviceID); err != nil {
		s.logger.Warn("evict reader session id", zap.Error(err))
	}
}

// ConfirmBind binds the pending card to the member named by the operator.
// The pending session must hold exactly the given token. The pending entry
// is kept, so a confirmation can be repeated until it expires.
func (s *SessionService) ConfirmBind(ctx context.Context, input ConfirmInput) (*BindResult, error) {
	token := strings.TrimSpace(input.Token)
	auditCtx := map[string]any{
		"device_id":  nullable(input.DeviceID),
		"unifi_name": input.FullName,
	}

	if token == "" {
		return nil, s.reject(ctx, input.DeviceID, token, auditCtx,
			apperrors.NewValidationError("token required", map[string]any{"field": "token"}))
	}

	pending, err := s.sessions.Pending(ctx, input.DeviceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if pending == nil || pending.Token != token {
		return nil, s.reject(ctx, input.DeviceID, token, auditCtx, ErrNoPendingSession)
	}
	auditCtx["unifi_id"] = pending.ExternalUserID

	if strings.TrimSpace(input.FullName) == "" {
		return nil, s.reject(ctx, input.DeviceID, token, auditCtx,
			apperrors.NewValidationError("name required", map[string]any{"field": "unifi_name"}))
	}

	member, err := s.resolver.Resolve(ctx, input.FullName)
	if err != nil {
		return nil, s.reject(ctx, input.DeviceID, token, auditCtx, err)
	}

	result := &BindResult{
		MemberID:   member.ID,
		MemberName: member.String(),
		Timestamp:  s.now().UTC(),
		DeviceID:   input.DeviceID,
	}
	auditCtx["member_id"] = member.ID
	auditCtx["member_name"] = result.MemberName
	s.record(ctx, events.EventBindConfirmed, input.DeviceID, token, domain.DebugStatusSuccess, auditCtx)
	return result, nil
}

// Cancel closes the reader session of the key, when one is known, and
// evicts the key's cache entries. ErrNoActiveSession wins when nothing was
// pending; ErrRemoteCancelFailed reports a failed remote close otherwise.
func (s *SessionService) Cancel(ctx context.Context, deviceID string) (*CancelResult, error) {
	pending, err := s.sessions.Pending(ctx, deviceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	remoteID, err := s.sessions.ActiveSession(ctx, deviceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := &CancelResult{DeviceID: deviceID, RemoteSessionID: remoteID}
	var remoteErr error
	if remoteID != "" {
		remoteErr = s.directory.DeleteCardSession(ctx, remoteID)
		result.RemoteCancelled = remoteErr == nil
		if remoteErr != nil {
			s.logger.Warn("remote cancel failed", zap.String("session_id", remoteID), zap.Error(remoteErr))
		}
	}

	if err := s.sessions.DeletePending(ctx, deviceID); err != nil {
		s.logger.Warn("evict pending session", zap.Error(err))
	}
	if err := s.sessions.DeleteActiveSession(ctx, deviceID); err != nil {
		s.logger.Warn("evict reader session id", zap.Error(err))
	}

	token := ""
	if pending != nil {
		token = pending.Token
	}
	details := map[string]any{
		"device_id":         nullable(deviceID),
		"remote_session_id": nullable(remoteID),
		"remote_cancelled":  result.RemoteCancelled,
	}

	switch {
	case pending == nil:
		return nil, s.reject(ctx, deviceID, token, details, ErrNoActiveSession.WithDetails(details))
	case remoteErr != nil:
		return nil, s.reject(ctx, deviceID, token, details, ErrRemoteCancelFailed.WithDetails(details))
	}

	s.record(ctx, events.EventSessionCancelled, deviceID, token, domain.DebugStatusCancel, details)
	return result, nil
}

// BulkAssign validates token to member pairings row by row. Nothing is
// persisted; rows failing validation are reported in Errors.
func (s *SessionService) BulkAssign(ctx context.Context, assignments []BulkAssignment) (*BulkAssignResult, error) {
	if len(assignments) == 0 {
		return nil, apperrors.NewValidationError("no assignments given", nil)
	}

	result := &BulkAssignResult{
		Results: []BulkAssignRow{},
		Errors:  []BulkAssignRow{},
		Total:   len(assignments),
	}
	for _, assignment := range assignments {
		row := BulkAssignRow{Token: strings.TrimSpace(assignment.Token), MemberID: assignment.MemberID}
		auditCtx := map[string]any{"member_id": assignment.MemberID}

		if row.Token == "" || row.MemberID <= 0 {
			row.Error = "token or member id missing"
			result.Errors = append(result.Errors, row)
			s.record(ctx, events.EventBulkAssignRow, "", row.Token, "VALIDATION_FAILED", auditCtx)
			continue
		}

		member, err := s.members.GetByID(ctx, row.MemberID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
			row.Error = "member not found"
			result.Errors = append(result.Errors, row)
			s.record(ctx, events.EventBulkAssignRow, "", row.Token, ErrMemberNotFound.Code, auditCtx)
			continue
		}

		row.MemberName = member.String()
		auditCtx["member_name"] = row.MemberName
		result.Results = append(result.Results, row)
		s.record(ctx, events.EventBulkAssignRow, "", row.Token, domain.DebugStatusSuccess, auditCtx)
	}
	return result, nil
}

// History returns the latest audit entries, optionally for one device.
func (s *SessionService) History(ctx context.Context, deviceID string) ([]domain.DebugLogEntry, error) {
	filter := repository.DebugLogFilter{Limit: historyLimit}
	if deviceID != "" {
		filter.DeviceID = &deviceID
	}
	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Logs returns the whole audit trail, newest first.
func (s *SessionService) Logs(ctx context.Context) ([]domain.DebugLogEntry, error) {
	entries, err := s.logs.List(ctx, repository.DebugLogFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// reject audits a failed attempt under the error's code and returns err.
func (s *SessionService) reject(ctx context.Context, deviceID, token string, auditCtx map[string]any, err error) error {
	status := "error"
	if domainErr := apperrors.ToDomainError(err); domainErr != nil {
		status = domainErr.Code
	}
	eventType := events.EventBindRejected
	if errors.Is(err, ErrNoActiveSession) || errors.Is(err, ErrRemoteCancelFailed) {
		eventType = events.EventSessionCancelled
	}
	s.record(ctx, eventType, deviceID, token, status, auditCtx)
	return err
}

func (s *SessionService) record(ctx context.Context, eventType events.EventType, deviceID, token, status string, auditCtx map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		DeviceID:  deviceID,
		Actor:     actorFromContext(ctx),
		Timestamp: s.now().UTC(),
		Payload: events.BadgeAttemptPayload{
			Token:   token,
			Status:  status,
			Context: auditCtx,
		},
	})
}

func readContext(result *ReadResult) map[string]any {
	auditCtx := map[string]any{
		"device_id":   nullable(result.DeviceID),
		"unifi_name":  nil,
		"unifi_id":    nil,
		"member_name": nil,
	}
	if result.User != nil {
		auditCtx["unifi_name"] = result.User.FullName
		auditCtx["unifi_id"] = result.User.ID
	}
	if result.Member != nil {
		auditCtx["member_name"] = result.Member.String()
	}
	return auditCtx
}

// nullable renders "" as JSON null in audit payloads.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
