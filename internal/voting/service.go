// Package voting holds the candidate administration and vote casting
// workflow, independent of HTTP and SQL.
package voting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voting-api/internal/auth"
	"voting-api/internal/database"
	"voting-api/pkg/logger"
)

// CandidateInput is the payload for creating a candidate
type CandidateInput struct {
	Name  string
	Party string
	Age   int
}

// Service runs the voting workflow against its stores
type Service struct {
	users      UserStore
	candidates CandidateStore
	ballots    BallotBox
	isAdmin    auth.AdminPredicate
	publisher  TallyPublisher
	publishMu  sync.Mutex
	logger     *logger.Logger
	now        func() time.Time
}

// NewService wires the workflow. isAdmin gates every administrative write.
func NewService(users UserStore, candidates CandidateStore, ballots BallotBox, isAdmin auth.AdminPredicate, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Service{
		users:      users,
		candidates: candidates,
		ballots:    ballots,
		isAdmin:    isAdmin,
		logger:     log.WithComponent("voting"),
		now:        time.Now,
	}
}

// SetPublisher registers the receiver of tally updates
func (s *Service) SetPublisher(p TallyPublisher) {
	s.publisher = p
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	if s.isAdmin == nil || !s.isAdmin(ctx, actorID) {
		return ErrNotAdmin
	}
	return nil
}

// CreateCandidate persists a new candidate with no votes
func (s *Service) CreateCandidate(ctx context.Context, actorID string, in CandidateInput) (*database.Candidate, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	candidate := &database.Candidate{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(in.Name),
		Party: strings.TrimSpace(in.Party),
		Age:   in.Age,
		Votes: []database.Vote{},
	}
	if err := s.candidates.Create(ctx, candidate); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Candidate created", "candidate_id", candidate.ID, "actor_id", actorID)
	s.publish(ctx)
	return candidate, nil
}

// UpdateCandidate merges the patch into an existing candidate
func (s *Service) UpdateCandidate(ctx context.Context, actorID, candidateID string, patch database.CandidatePatch) (*database.Candidate, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	updated, err := s.candidates.Update(ctx, candidateID, trimPatch(patch))
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Candidate updated", "candidate_id", candidateID, "actor_id", actorID)
	s.publish(ctx)
	return updated, nil
}

func trimPatch(p database.CandidatePatch) database.CandidatePatch {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Party != nil {
		party := strings.TrimSpace(*p.Party)
		p.Party = &party
	}
	return p
}

// DeleteCandidate removes a candidate and returns what was removed
func (s *Service) DeleteCandidate(ctx context.Context, actorID, candidateID string) (*database.Candidate, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	removed, err := s.candidates.Delete(ctx, candidateID)
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Candidate deleted", "candidate_id", candidateID, "actor_id", actorID)
	s.publish(ctx)
	return removed, nil
}

// ListCandidates returns every candidate ordered by name
func (s *Service) ListCandidates(ctx context.Context) ([]database.Candidate, error) {
	return s.candidates.List(ctx)
}

// CastVote records the caller's single vote. Every eligibility check runs
// before any write; the write itself is one atomic unit in the ballot box,
// which re-checks eligibility so concurrent casts cannot double count.
func (s *Service) CastVote(ctx context.Context, candidateID, userID string) (*database.Vote, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, translate(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	if user.HasVoted {
		return nil, ErrAlreadyVoted
	}
	if user.IsAdmin() {
		return nil, ErrAdminCannotVote
	}

	vote := &database.Vote{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		UserID:      userID,
		// postgres keeps microseconds; truncating keeps receipts verifiable
		VotedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	vote.Receipt = NewReceipt(vote)

	if err := s.ballots.CastVote(ctx, vote); err != nil {
		mapped := translate(err)
		if errors.Is(mapped, ErrAlreadyVoted) {
			s.logger.Warning("Concurrent vote rejected", "user_id", userID, "candidate_id", candidateID)
		}
		return nil, mapped
	}

	s.logger.VotingLogger("vote_cast", userID, candidateID, vote.Receipt)
	s.publish(ctx)
	return vote, nil
}

// Tally returns the vote count per candidate, highest first
func (s *Service) Tally(ctx context.Context) ([]database.TallyEntry, error) {
	tally, err := s.ballots.Tally(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute tally: %w", err)
	}
	return tally, nil
}

// publish pushes a fresh tally. Reads and pushes are serialized so a
// snapshot never reaches the publisher after a newer one.
func (s *Service) publish(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	tally, err := s.Tally(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh tally for subscribers", "error", err)
		return
	}
	s.publisher.PublishTally(tally)
}
