package api

import (
	"context"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/auth"
	"voting-api/internal/database"
	"voting-api/internal/database/repositories"
	"voting-api/internal/realtime"
	"voting-api/internal/voting"
	"voting-api/pkg/config"
	"voting-api/pkg/logger"
)

// Services contains all the dependencies for API handlers
type Services struct {
	// Core dependencies
	DB     *database.DB
	Logger *logger.Logger
	Config *config.Config

	tokens    *auth.TokenService
	roleCheck *auth.RoleCheck
	voting    *voting.Service
	hub       *realtime.Hub

	// Repositories
	userRepository      *repositories.UserRepository
	candidateRepository *repositories.CandidateRepository
	voteRepository      *repositories.VoteRepository
	auditLogRepository  *repositories.AuditLogRepository
}

// NewServices creates a new services container. The hub is only attached
// to the voting workflow when the realtime feed is enabled.
func NewServices(db *database.DB, log *logger.Logger, cfg *config.Config) *Services {
	s := &Services{
		DB:     db,
		Logger: log,
		Config: cfg,
	}

	s.userRepository = repositories.NewUserRepository(db)
	s.candidateRepository = repositories.NewCandidateRepository(db)
	s.voteRepository = repositories.NewVoteRepository(db)
	s.auditLogRepository = repositories.NewAuditLogRepository(db)

	s.tokens = auth.NewTokenService(cfg.Security)
	s.roleCheck = auth.NewRoleCheck(s.userRepository)
	s.voting = voting.NewService(
		s.userRepository,
		s.candidateRepository,
		s.voteRepository,
		s.roleCheck.IsAdmin,
		log,
	)

	s.hub = realtime.NewHub(cfg.Realtime, log)
	if cfg.Realtime.Enabled {
		s.voting.SetPublisher(s.hub)
	}

	return s
}

// Interface implementations
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

func (s *Services) GetConfig() *config.Config {
	return s.Config
}

func (s *Services) AuthService() interfaces.AuthServiceInterface {
	return s.tokens
}

func (s *Services) RoleCheck() *auth.RoleCheck {
	return s.roleCheck
}

func (s *Services) Voting() *voting.Service {
	return s.voting
}

func (s *Services) Hub() *realtime.Hub {
	return s.hub
}

func (s *Services) UserRepository() *repositories.UserRepository {
	return s.userRepository
}

func (s *Services) AuditLogRepository() *repositories.AuditLogRepository {
	return s.auditLogRepository
}

// RecordAudit stores an audit entry. Failures are logged and swallowed so
// auditing never fails the request it describes.
func (s *Services) RecordAudit(ctx context.Context, entry *database.AuditLog) {
	s.Logger.AuditLogger(entry.Action, entry.UserID, entry.Resource, entry.Details)
	if err := s.auditLogRepository.InsertAuditLog(ctx, entry); err != nil {
		s.Logger.StructuredError(err, map[string]interface{}{
			"operation": "insert_audit_log",
			"action":    entry.Action,
		})
	}
}

// Health checks the database connection
func (s *Services) Health(ctx context.Context) error {
	return s.DB.Health(ctx)
}
