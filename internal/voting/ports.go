package voting

import (
	"context"

	"voting-api/internal/database"
)

// UserStore is the read side of the credential store used by the workflow
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*database.User, error)
}

// CandidateStore persists candidates and their vote records
type CandidateStore interface {
	Create(ctx context.Context, c *database.Candidate) error
	GetByID(ctx context.Context, candidateID string) (*database.Candidate, error)
	List(ctx context.Context) ([]database.Candidate, error)
	Update(ctx context.Context, candidateID string, patch database.CandidatePatch) (*database.Candidate, error)
	Delete(ctx context.Context, candidateID string) (*database.Candidate, error)
}

// BallotBox applies votes atomically and aggregates them
type BallotBox interface {
	CastVote(ctx context.Context, vote *database.Vote) error
	Tally(ctx context.Context) ([]database.TallyEntry, error)
}

// TallyPublisher is notified with a fresh tally after every change
type TallyPublisher interface {
	PublishTally(tally []database.TallyEntry)
}
