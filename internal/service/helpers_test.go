package service

import (
	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

func codeOf(err error) string {
	if domainErr := apperrors.ToDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return ""
}
