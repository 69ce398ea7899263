package repositories

import (
	"context"
	"time"

	"voting-api/internal/database"
)

type AuditLogRepository struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// AuditFilter narrows an audit log listing
type AuditFilter struct {
	Action string
	UserID string
	Limit  int
	Offset int
}

// InsertAuditLog inserts a new audit log entry
func (r *AuditLogRepository) InsertAuditLog(ctx context.Context, log *database.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO audit_logs (action, user_id, resource, details, ip_address, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	args := []interface{}{log.Action, log.UserID, log.Resource, log.Details, log.IPAddress, log.CreatedAt}

	// lib/pq does not implement LastInsertId
	if r.db.Dialect == database.Postgres {
		return r.db.QueryRowContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&log.ID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// GetAuditLogs retrieves audit logs newest first with pagination and filtering
func (r *AuditLogRepository) GetAuditLogs(ctx context.Context, filter AuditFilter) ([]database.AuditLog, error) {
	query := `
        SELECT id, action, user_id, resource, details, ip_address, created_at
        FROM audit_logs
        WHERE 1=1
    `
	args := []interface{}{}

	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []database.AuditLog{}
	for rows.Next() {
		var log database.AuditLog
		err := rows.Scan(&log.ID, &log.Action, &log.UserID, &log.Resource,
			&log.Details, &log.IPAddress, &log.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
