package model

import "context"

// Stores groups the per-request store handles bound to one unit-of-work.
type Stores interface {
	Users() UserStore
	Sessions() SessionStore
}

// UnitOfWork runs fn against stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise; one call
// is one commit boundary.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
