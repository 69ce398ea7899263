package interfaces

import (
	"context"

	"voting-api/internal/auth"
	"voting-api/internal/database"
	"voting-api/internal/database/repositories"
	"voting-api/internal/realtime"
	"voting-api/internal/voting"
	"voting-api/pkg/config"
	"voting-api/pkg/logger"
)

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	AuthService() AuthServiceInterface
	RoleCheck() *auth.RoleCheck
	Voting() *voting.Service
	Hub() *realtime.Hub
	UserRepository() *repositories.UserRepository
	AuditLogRepository() *repositories.AuditLogRepository
	RecordAudit(ctx context.Context, entry *database.AuditLog)
	Health(ctx context.Context) error
}
