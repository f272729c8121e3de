package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a prefixed, lexicographically sortable entity ID.
// Example: res_01J8FA3VH2T4Q9W5X6Y7Z8A9B0
func New(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return prefix + "_" + id.String()
}

// GenerateReference creates short human-readable references for audit trails
// and payment confirmations. Example: PAY-4821XKQZ
func GenerateReference(prefix string) string {
	const chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Use milliseconds mod 10000 (last 4 digits)
	timestamp := time.Now().UnixMilli() % 10000

	b := make([]byte, 4)
	for i := range b {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		b[i] = chars[num.Int64()]
	}

	return fmt.Sprintf("%s-%04d%s", prefix, timestamp, string(b))
}
