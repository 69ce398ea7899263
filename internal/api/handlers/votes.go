package handlers

import (
	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
)

// CastVote records the caller's vote for the candidate in the path
func CastVote(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		candidateID := c.Param("id")

		vote, err := services.Voting().CastVote(c.Request.Context(), candidateID, userID)
		if err != nil {
			respondError(c, services, "cast_vote", err)
			return
		}

		audit(c, services, "vote_cast", userID, "candidate:"+candidateID, "receipt="+vote.Receipt)
		respondOK(c, "Vote recorded successfully", models.VoteResponse{
			VoteID:  vote.ID,
			Receipt: vote.Receipt,
			VotedAt: vote.VotedAt.Unix(),
		})
	}
}

// GetVoteCount returns the tally, highest count first
func GetVoteCount(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tally, err := services.Voting().Tally(c.Request.Context())
		if err != nil {
			respondError(c, services, "vote_count", err)
			return
		}
		respondOK(c, "", models.ToTally(tally))
	}
}
