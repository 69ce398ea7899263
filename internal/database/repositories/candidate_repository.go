package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"voting-api/internal/database"
)

const candidateColumns = `id, name, party, age, vote_count, created_at, updated_at`

type CandidateRepository struct {
	db *database.DB
}

func NewCandidateRepository(db *database.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// MaxCandidateFieldLength matches the name and party column widths
const MaxCandidateFieldLength = 100

// ValidateCandidate enforces the stored field constraints
func ValidateCandidate(c *database.Candidate) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(c.Party) == "" {
		return fmt.Errorf("party is required: %w", ErrInvalid)
	}
	if utf8.RuneCountInString(c.Name) > MaxCandidateFieldLength {
		return fmt.Errorf("name exceeds %d characters: %w", MaxCandidateFieldLength, ErrInvalid)
	}
	if utf8.RuneCountInString(c.Party) > MaxCandidateFieldLength {
		return fmt.Errorf("party exceeds %d characters: %w", MaxCandidateFieldLength, ErrInvalid)
	}
	if c.Age <= 0 {
		return fmt.Errorf("age must be positive: %w", ErrInvalid)
	}
	return nil
}

func scanCandidate(row scanner) (*database.Candidate, error) {
	var c database.Candidate
	if err := row.Scan(&c.ID, &c.Name, &c.Party, &c.Age, &c.VoteCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Votes = []database.Vote{}
	return &c, nil
}

// Create persists a new candidate with no votes
func (r *CandidateRepository) Create(ctx context.Context, c *database.Candidate) error {
	if err := ValidateCandidate(c); err != nil {
		return err
	}

	now := time.Now().UTC()
	c.VoteCount = 0
	c.Votes = []database.Vote{}
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
        INSERT INTO candidates (` + candidateColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		c.ID, c.Name, c.Party, c.Age, c.VoteCount, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetByID retrieves a candidate together with its vote records
func (r *CandidateRepository) GetByID(ctx context.Context, candidateID string) (*database.Candidate, error) {
	return r.getWithVotes(ctx, r.db, candidateID)
}

func (r *CandidateRepository) getWithVotes(ctx context.Context, q queryer, candidateID string) (*database.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = ?`
	c, err := scanCandidate(q.QueryRowContext(ctx, r.db.Rebind(query), candidateID))
	if err != nil {
		return nil, notFoundOr(err, ErrCandidateNotFound)
	}

	votes, err := r.listVotes(ctx, q, candidateID)
	if err != nil {
		return nil, err
	}
	c.Votes = votes
	return c, nil
}

func (r *CandidateRepository) listVotes(ctx context.Context, q queryer, candidateID string) ([]database.Vote, error) {
	query := `
        SELECT id, candidate_id, user_id, receipt, created_at
        FROM votes
        WHERE candidate_id = ?
        ORDER BY created_at ASC, id ASC
    `
	rows, err := q.QueryContext(ctx, r.db.Rebind(query), candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []database.Vote{}
	for rows.Next() {
		var v database.Vote
		if err := rows.Scan(&v.ID, &v.CandidateID, &v.UserID, &v.Receipt, &v.VotedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// List returns all candidates ordered by name, without vote records
func (r *CandidateRepository) List(ctx context.Context) ([]database.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []database.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update merges the patch into the stored candidate and returns the result
func (r *CandidateRepository) Update(ctx context.Context, candidateID string, patch database.CandidatePatch) (*database.Candidate, error) {
	var updated *database.Candidate
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := r.getWithVotes(ctx, tx, candidateID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Party != nil {
			c.Party = *patch.Party
		}
		if patch.Age != nil {
			c.Age = *patch.Age
		}
		if err := ValidateCandidate(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()

		query := `UPDATE candidates SET name = ?, party = ?, age = ?, updated_at = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, r.db.Rebind(query), c.Name, c.Party, c.Age, c.UpdatedAt, c.ID); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a candidate and its vote records, returning what was removed
func (r *CandidateRepository) Delete(ctx context.Context, candidateID string) (*database.Candidate, error) {
	var removed *database.Candidate
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := r.getWithVotes(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM votes WHERE candidate_id = ?`), candidateID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM candidates WHERE id = ?`), candidateID); err != nil {
			return err
		}
		removed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *CandidateRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return runInTx(ctx, r.db, fn)
}

// runInTx commits when fn succeeds and rolls back otherwise
func runInTx(ctx context.Context, db *database.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
