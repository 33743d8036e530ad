// File: internal/infra/memory/tx_ledger.go
package memory

import (
	"context"
	"strconv"
	"sync"

	"upi-subscription-api/internal/domain/ports/repository"
)

var _ repository.TransactionLedger = (*TransactionLedger)(nil)

// TransactionLedger is the append-only set of consumed transaction ids.
// Entries are never removed for the life of the process.
type TransactionLedger struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewTransactionLedger() *TransactionLedger {
	return &TransactionLedger{used: make(map[string]struct{})}
}

// Claim is check-then-insert under one lock: of any number of concurrent
// claims for the same id, exactly one succeeds.
func (l *TransactionLedger) Claim(ctx context.Context, transactionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, used := l.used[transactionID]; used {
		return false, nil
	}
	l.used[transactionID] = struct{}{}
	return true, nil
}

// MintAuto probes base, base_1, base_2, ... and inserts the first free id.
// Probing and insertion share the lock, so a probed-free id cannot be stolen
// before it is inserted.
func (l *TransactionLedger) MintAuto(ctx context.Context, base string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := base
	for counter := 1; ; counter++ {
		if _, used := l.used[id]; !used {
			break
		}
		id = base + "_" + strconv.Itoa(counter)
	}
	l.used[id] = struct{}{}
	return id, nil
}

func (l *TransactionLedger) ListAll(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.used))
	for id := range l.used {
		out = append(out, id)
	}
	return out, nil
}
