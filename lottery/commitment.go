package lottery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// RevealPayload is the body of the reveal_random message
type RevealPayload struct {
	LuckyNumbers []uint16 `json:"lucky_numbers"`
	RandomSeed   string   `json:"random_seed"`
}

// NewRevealPayload sorts a copy of numbers and renders the seed as decimal
func NewRevealPayload(numbers []uint16, seed uint16) RevealPayload {
	sorted := append([]uint16{}, numbers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return RevealPayload{
		LuckyNumbers: sorted,
		RandomSeed:   strconv.Itoa(int(seed)),
	}
}

// BuildCommitment returns hex(sha256(json(reveal payload))). The contract
// checks the later reveal_random body against this hash, so the commitment
// binds both the numbers (with repeats for multipliers) and the seed.
func BuildCommitment(numbers []uint16, seed uint16) string {
	payload, _ := json.Marshal(NewRevealPayload(numbers, seed))
	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:])
}

// ValidCommitment reports whether hash is 64 lowercase hex characters
func ValidCommitment(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}

	for _, c := range hash {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}

	return true
}
