package voting

import (
	"errors"
	"fmt"

	"voting-api/internal/database/repositories"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyVoted      = errors.New("user has already voted")
	ErrAdminCannotVote   = errors.New("admins are not allowed to vote")
	ErrNotAdmin          = errors.New("admin role required")
	ErrInvalidCandidate  = errors.New("invalid candidate")
)

// translate maps store errors onto the workflow's error set
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrCandidateNotFound):
		return ErrCandidateNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrAlreadyVoted):
		return ErrAlreadyVoted
	case errors.Is(err, repositories.ErrNotEligible):
		return ErrAdminCannotVote
	case errors.Is(err, repositories.ErrInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	default:
		return err
	}
}
