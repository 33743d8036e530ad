package repository

import "context"

// TransactionLedger is the set of consumed transaction ids. The set only
// grows; an id present in the ledger can never be accepted again.
type TransactionLedger interface {
	// Claim atomically checks membership and inserts. It returns true when
	// the id was free and is now consumed, false on replay. The check and
	// insert are a single critical section so two concurrent claims of the
	// same id cannot both succeed.
	Claim(ctx context.Context, transactionID string) (bool, error)
	// MintAuto claims a collision-free id derived from base, appending an
	// incrementing _n suffix as needed. Probing and insertion happen under
	// the same critical section as Claim.
	MintAuto(ctx context.Context, base string) (string, error)
	ListAll(ctx context.Context) ([]string, error)
}
