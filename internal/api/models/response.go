package models

import "voting-api/internal/database"

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"0b7c5c1e-9a38-4a43-a8a6-2f1b0c8f3c61"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string            `json:"code" example:"INVALID_REQUEST"`
	Message string            `json:"message" example:"Invalid request parameters"`
	Details string            `json:"details,omitempty" example:"Field 'nationalId' is required"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SignupResponse carries the created account and its first token
type SignupResponse struct {
	User  *database.User `json:"response"`
	Token string         `json:"token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// ProfileResponse wraps the caller's account
type ProfileResponse struct {
	User *database.User `json:"user"`
}

// CandidateSummary is the public listing view of a candidate
type CandidateSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party"`
	Age   int    `json:"age"`
}

// VoteResponse represents vote submission response
type VoteResponse struct {
	VoteID  string `json:"vote_id"`
	Receipt string `json:"receipt" example:"0x5c1e..."`
	VotedAt int64  `json:"voted_at" example:"1640995200"`
}

// TallyEntry is one row of the public vote count
type TallyEntry struct {
	Party string `json:"party"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HealthResponse represents service health
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	Timestamp   int64  `json:"timestamp" example:"1640995200"`
	Version     string `json:"version" example:"1.0.0"`
	Database    string `json:"database" example:"connected"`
	Subscribers int    `json:"subscribers"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Limit    int `json:"limit" example:"50"`
	Offset   int `json:"offset" example:"0"`
	Returned int `json:"returned" example:"12"`
}

// AuditLogPage is one page of audit entries
type AuditLogPage struct {
	Logs       []database.AuditLog `json:"logs"`
	Pagination PaginationInfo      `json:"pagination"`
}

// ToCandidateSummaries projects candidates onto the listing view
func ToCandidateSummaries(candidates []database.Candidate) []CandidateSummary {
	out := make([]CandidateSummary, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateSummary{ID: c.ID, Name: c.Name, Party: c.Party, Age: c.Age})
	}
	return out
}

// ToTally projects the stored tally onto the public view
func ToTally(entries []database.TallyEntry) []TallyEntry {
	out := make([]TallyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TallyEntry{Party: e.Party, Name: e.Name, Count: e.Count})
	}
	return out
}
