// File: internal/ident/generator.go
package ident

import (
	"crypto/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints the service's prefixed identifiers. ULIDs carry a
// millisecond timestamp plus entropy, which keeps ids unique for the process
// lifetime without any coordination. Uniqueness is probabilistic, not
// cryptographic; the transaction ledger re-checks auto ids on insertion.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *Generator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// NewSessionID returns a payment session identifier (PAY...).
func (g *Generator) NewSessionID() string { return "PAY" + g.next() }

// NewSubscriptionID returns a subscription identifier (SUB...).
func (g *Generator) NewSubscriptionID() string { return "SUB" + g.next() }

// AutoTransactionBase returns the base for an auto-activation transaction id.
// The ledger appends a counter suffix if the base is already consumed.
func AutoTransactionBase(now time.Time) string {
	return "AUTO_ACTIVATED_" + strconv.FormatInt(now.UnixMilli(), 10)
}
