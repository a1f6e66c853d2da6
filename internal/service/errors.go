package service

import (
	"net/http"

	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

// Error codes of the badge flow. Match with errors.Is; DomainError compares
// by code, so copies carrying details still match.
var (
	ErrNoPendingSession      = apperrors.NewDomainError("NO_PENDING_SESSION", "no valid pending session for this token", http.StatusForbidden, nil)
	ErrInvalidName           = apperrors.NewDomainError("INVALID_NAME", "name must contain first and last name", http.StatusBadRequest, nil)
	ErrMemberNotFound        = apperrors.NewDomainError("MEMBER_NOT_FOUND", "member not found", http.StatusNotFound, nil)
	ErrNoActiveSession       = apperrors.NewDomainError("NO_ACTIVE_SESSION", "no active session", http.StatusNotFound, nil)
	ErrRemoteCancelFailed    = apperrors.NewDomainError("REMOTE_CANCEL_FAILED", "cancelling the reader session failed", http.StatusBadGateway, nil)
	ErrNoCard                = apperrors.NewDomainError("NO_CARD", "no card detected", http.StatusBadRequest, nil)
	ErrDirectoryUserNotFound = apperrors.NewDomainError("DIRECTORY_USER_NOT_FOUND", "no directory user holds this card", http.StatusNotFound, nil)
	ErrDirectoryUnavailable  = apperrors.NewDomainError("DIRECTORY_UNAVAILABLE", "access directory unavailable", http.StatusBadGateway, nil)
	ErrDeviceAlreadyAssigned = apperrors.NewDomainError("DEVICE_ALREADY_ASSIGNED", "device already assigned to another room", http.StatusConflict, nil)
	ErrDeviceNotFound        = apperrors.NewDomainError("DEVICE_NOT_FOUND", "device not found", http.StatusNotFound, nil)
)
