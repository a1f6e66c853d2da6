package worker

import (
	"github.com/spec-kit/club-access-service/internal/service"
)

// StartAuditWorker registers the audit log subscribers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
