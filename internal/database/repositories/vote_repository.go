package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voting-api/internal/database"
)

type VoteRepository struct {
	db *database.DB
}

func NewVoteRepository(db *database.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// CastVote applies a vote as one unit: the voter's has_voted flag flips
// false→true only for non-admins, the candidate's count is incremented and
// the vote record is appended. Any failure leaves nothing persisted.
func (r *VoteRepository) CastVote(ctx context.Context, vote *database.Vote) error {
	if vote.VotedAt.IsZero() {
		vote.VotedAt = time.Now().UTC()
	}

	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		markVoted := `
            UPDATE users SET has_voted = ?, updated_at = ?
            WHERE id = ? AND has_voted = ? AND role <> ?
        `
		result, err := tx.ExecContext(ctx, r.db.Rebind(markVoted),
			true, vote.VotedAt, vote.UserID, false, database.RoleAdmin)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return r.classifyIneligible(ctx, tx, vote.UserID)
		}

		increment := `UPDATE candidates SET vote_count = vote_count + 1, updated_at = ? WHERE id = ?`
		result, err = tx.ExecContext(ctx, r.db.Rebind(increment), vote.VotedAt, vote.CandidateID)
		if err != nil {
			return err
		}
		n, err = result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCandidateNotFound
		}

		insert := `
            INSERT INTO votes (id, candidate_id, user_id, receipt, created_at)
            VALUES (?, ?, ?, ?, ?)
        `
		_, err = tx.ExecContext(ctx, r.db.Rebind(insert),
			vote.ID, vote.CandidateID, vote.UserID, vote.Receipt, vote.VotedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
}

// classifyIneligible explains why the conditional update matched no row
func (r *VoteRepository) classifyIneligible(ctx context.Context, tx *sql.Tx, userID string) error {
	var role string
	var hasVoted bool
	err := tx.QueryRowContext(ctx, r.db.Rebind(`SELECT role, has_voted FROM users WHERE id = ?`), userID).
		Scan(&role, &hasVoted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrUserNotFound
	case err != nil:
		return err
	case hasVoted:
		return ErrAlreadyVoted
	default:
		return ErrNotEligible
	}
}

// Tally returns vote counts ordered by count descending. Ties are broken by
// party, then name, then id so the order is deterministic.
func (r *VoteRepository) Tally(ctx context.Context) ([]database.TallyEntry, error) {
	query := `
        SELECT id, name, party, vote_count
        FROM candidates
        ORDER BY vote_count DESC, party ASC, name ASC, id ASC
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []database.TallyEntry{}
	for rows.Next() {
		var e database.TallyEntry
		if err := rows.Scan(&e.CandidateID, &e.Name, &e.Party, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountVotes returns the number of vote records attached to a candidate
func (r *VoteRepository) CountVotes(ctx context.Context, candidateID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM votes WHERE candidate_id = ?`), candidateID).
		Scan(&count)
	return count, err
}
