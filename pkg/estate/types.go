// Package estate holds the core orchestration logic of the client:
// the asset cache, the transaction status slot, the activity history,
// and the creation and disclosure flows that tie the ledger, the
// encryption relayer, and the local identity together.
package estate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Property is one tokenized real-estate record as read from the ledger.
// Public fields are stored in clear on-chain; the price exists only as a
// ciphertext handle until it has been disclosed and verified.
type Property struct {
	ID          string
	Name        string
	Description string
	PublicArea  uint64
	PublicRooms uint64
	ValueHandle string
	Creator     string
	CreatedAt   time.Time

	// Verified is monotonic: once the clear price has been accepted
	// on-chain it never reverts to false.
	Verified bool

	// DisclosedValue is meaningful only when Verified is true. An
	// unverified value is a local guess and must be treated as absent.
	DisclosedValue uint64
}

// VerifiedValue returns the disclosed price, gated on verification.
// Consumers must use this accessor instead of reading DisclosedValue
// directly so that unverified values are never displayed.
func (p Property) VerifiedValue() (uint64, bool) {
	if !p.Verified {
		return 0, false
	}
	return p.DisclosedValue, true
}

// Draft carries the raw user input for a new property. Numeric fields
// stay strings until the flow parses them.
type Draft struct {
	Name        string
	Location    string
	Price       string
	Area        string
	Rooms       string
	Description string
}

// EncryptedInput is the ciphertext plus attestation proof produced by the
// encryption relayer, ready to be submitted in a create transaction.
type EncryptedInput struct {
	Ciphertext []byte
	Proof      []byte
}

// NewPropertyID generates a fresh asset id. The millisecond prefix keeps
// ids roughly sortable by creation time; the uuid suffix closes the
// collision window of a pure timestamp.
func NewPropertyID() string {
	return fmt.Sprintf("property-%d-%s", time.Now().UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// ParsePrice converts the draft price to the integer that gets encrypted.
// Non-numeric input deliberately parses as 0 rather than being rejected;
// see DESIGN.md before changing this.
func ParsePrice(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCount parses the clear numeric draft fields (area, rooms) with the
// same lenient policy as ParsePrice.
func ParseCount(s string) uint64 {
	return ParsePrice(s)
}
