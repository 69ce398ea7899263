package voting

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"voting-api/internal/database"
)

// NewReceipt derives a Keccak-256 receipt binding the vote id, voter,
// candidate and cast time. Any edit to the stored record breaks it.
func NewReceipt(vote *database.Vote) string {
	payload := strings.Join([]string{
		vote.ID,
		vote.UserID,
		vote.CandidateID,
		strconv.FormatInt(vote.VotedAt.UTC().UnixNano(), 10),
	}, "|")
	return crypto.Keccak256Hash([]byte(payload)).Hex()
}

// VerifyReceipt reports whether the vote still matches its receipt
func VerifyReceipt(vote *database.Vote) bool {
	return vote.Receipt != "" && strings.EqualFold(vote.Receipt, NewReceipt(vote))
}
