package database

import "time"

// Roles a user can hold
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// User represents a registered account
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Age          int       `db:"age" json:"age"`
	Email        string    `db:"email" json:"email,omitempty"`
	Mobile       string    `db:"mobile" json:"mobile,omitempty"`
	Address      string    `db:"address" json:"address"`
	NationalID   string    `db:"national_id" json:"nationalId"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never include in JSON
	Role         string    `db:"role" json:"role"`
	HasVoted     bool      `db:"has_voted" json:"hasVoted"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the administrative role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Candidate represents a candidate standing for election
type Candidate struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Party     string    `db:"party" json:"party"`
	Age       int       `db:"age" json:"age"`
	VoteCount int       `db:"vote_count" json:"voteCount"`
	Votes     []Vote    `db:"-" json:"votes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CandidatePatch carries the fields of a partial candidate update
type CandidatePatch struct {
	Name  *string
	Party *string
	Age   *int
}

// Empty reports whether the patch changes nothing
func (p CandidatePatch) Empty() bool {
	return p.Name == nil && p.Party == nil && p.Age == nil
}

// Vote is the immutable record linking a voter to one candidate
type Vote struct {
	ID          string    `db:"id" json:"id"`
	CandidateID string    `db:"candidate_id" json:"-"`
	UserID      string    `db:"user_id" json:"user"`
	Receipt     string    `db:"receipt" json:"receipt"`
	VotedAt     time.Time `db:"created_at" json:"votedAt"`
}

// TallyEntry is one row of the aggregated vote count
type TallyEntry struct {
	CandidateID string `json:"-"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	Count       int    `json:"count"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	UserID    string    `db:"user_id" json:"user_id"`
	Resource  string    `db:"resource" json:"resource"`
	Details   string    `db:"details" json:"details"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
