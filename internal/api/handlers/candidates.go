package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
	"voting-api/internal/database"
	"voting-api/internal/voting"
)

// ListCandidates returns every candidate without vote details
func ListCandidates(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidates, err := services.Voting().ListCandidates(c.Request.Context())
		if err != nil {
			respondError(c, services, "list_candidates", err)
			return
		}
		respondOK(c, "", models.ToCandidateSummaries(candidates))
	}
}

// requireAdmin rejects non-admin callers before the body is read
func requireAdmin(c *gin.Context, services interfaces.Services) bool {
	if services.RoleCheck().IsAdmin(c.Request.Context(), currentUserID(c)) {
		return true
	}
	respondError(c, services, "require_admin", voting.ErrNotAdmin)
	return false
}

// CreateCandidate adds a candidate; admin only
func CreateCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, services) {
			return
		}

		var req models.CandidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}

		actorID := currentUserID(c)
		candidate, err := services.Voting().CreateCandidate(c.Request.Context(), actorID, voting.CandidateInput{
			Name:  req.Name,
			Party: req.Party,
			Age:   req.Age,
		})
		if err != nil {
			respondError(c, services, "create_candidate", err)
			return
		}

		audit(c, services, "candidate_created", actorID, "candidate:"+candidate.ID, candidate.Name)
		respondOK(c, "Candidate created", candidate)
	}
}

// UpdateCandidate applies a partial update; admin only
func UpdateCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, services) {
			return
		}

		var req models.CandidatePatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}

		actorID := currentUserID(c)
		candidateID := c.Param("id")
		patch := database.CandidatePatch{Name: req.Name, Party: req.Party, Age: req.Age}

		candidate, err := services.Voting().UpdateCandidate(c.Request.Context(), actorID, candidateID, patch)
		if err != nil {
			respondError(c, services, "update_candidate", err)
			return
		}

		audit(c, services, "candidate_updated", actorID, "candidate:"+candidateID, describePatch(patch))
		respondOK(c, "Candidate updated", candidate)
	}
}

// DeleteCandidate removes a candidate; admin only
func DeleteCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, services) {
			return
		}

		actorID := currentUserID(c)
		candidateID := c.Param("id")

		removed, err := services.Voting().DeleteCandidate(c.Request.Context(), actorID, candidateID)
		if err != nil {
			respondError(c, services, "delete_candidate", err)
			return
		}

		audit(c, services, "candidate_deleted", actorID, "candidate:"+candidateID,
			fmt.Sprintf("votes_removed=%d", removed.VoteCount))
		respondOK(c, "Candidate deleted", removed)
	}
}

func describePatch(p database.CandidatePatch) string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Party != nil {
		fields = append(fields, "party")
	}
	if p.Age != nil {
		fields = append(fields, "age")
	}
	return fmt.Sprintf("fields=%v", fields)
}
