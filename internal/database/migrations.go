package database

import (
	"fmt"
)

// RunMigrations executes database migrations
func RunMigrations(db *DB) error {
	migrations := []string{
		createUsersTable,
		createCandidatesTable,
		createVotesTable,
		createAuditLogsTable(db.Dialect),
		createIndices,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// Database schema definitions. Types are limited to those shared by
// SQLite and PostgreSQL.
const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    age INTEGER NOT NULL DEFAULT 0,
    email VARCHAR(255),
    mobile VARCHAR(20),
    address TEXT NOT NULL DEFAULT '',
    national_id VARCHAR(32) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(10) NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

const createCandidatesTable = `
CREATE TABLE IF NOT EXISTS candidates (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    party VARCHAR(100) NOT NULL,
    age INTEGER NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// votes.user_id is a weak reference: no foreign key, unique per voter
const createVotesTable = `
CREATE TABLE IF NOT EXISTS votes (
    id VARCHAR(36) PRIMARY KEY,
    candidate_id VARCHAR(36) NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
    user_id VARCHAR(36) NOT NULL UNIQUE,
    receipt VARCHAR(66) NOT NULL,
    created_at TIMESTAMP NOT NULL
);`

func createAuditLogsTable(d Dialect) string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == Postgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}
	return `
CREATE TABLE IF NOT EXISTS audit_logs (
    ` + idColumn + `,
    action VARCHAR(100) NOT NULL,
    user_id VARCHAR(36),
    resource VARCHAR(100),
    details TEXT,
    ip_address VARCHAR(45),
    created_at TIMESTAMP NOT NULL
);`
}

const createIndices = `
CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id, created_at);
CREATE INDEX IF NOT EXISTS idx_candidates_tally ON candidates(vote_count, party, name);
CREATE INDEX IF NOT EXISTS idx_audit_logs_composite ON audit_logs(action, created_at);
`
