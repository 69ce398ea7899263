package handlers

import (
	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
	"voting-api/internal/database/repositories"
)

const defaultAuditLimit = 50

// GetAuditLogs lists audit entries newest first; admin only
func GetAuditLogs(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query models.AuditQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}
		if query.Limit == 0 {
			query.Limit = defaultAuditLimit
		}

		logs, err := services.AuditLogRepository().GetAuditLogs(c.Request.Context(), repositories.AuditFilter{
			Action: query.Action,
			UserID: query.UserID,
			Limit:  query.Limit,
			Offset: query.Offset,
		})
		if err != nil {
			respondError(c, services, "get_audit_logs", err)
			return
		}

		respondOK(c, "Audit logs retrieved successfully", models.AuditLogPage{
			Logs: logs,
			Pagination: models.PaginationInfo{
				Limit:    query.Limit,
				Offset:   query.Offset,
				Returned: len(logs),
			},
		})
	}
}
