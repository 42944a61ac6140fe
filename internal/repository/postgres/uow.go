package postgres

import (
	"context"

	"github.com/dtroode/tooodo-server/internal/dbx"
	"github.com/dtroode/tooodo-server/internal/model"
)

var _ model.UnitOfWork = (*UnitOfWork)(nil)
var _ model.Stores = (*txStores)(nil)

// UnitOfWork implements model.UnitOfWork over a Connection. Every Do call is
// one transaction and therefore one commit boundary.
type UnitOfWork struct {
	db *Connection
}

// NewUnitOfWork constructs a unit-of-work bound to the connection.
func NewUnitOfWork(db *Connection) *UnitOfWork {
	return &UnitOfWork{db: db}
}

type txStores struct {
	users    *UserRepository
	sessions *SessionRepository
}

func (s *txStores) Users() model.UserStore       { return s.users }
func (s *txStores) Sessions() model.SessionStore { return s.sessions }

// Do runs fn with stores bound to a fresh transaction.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s model.Stores) error) error {
	return dbx.WithTx(ctx, u.db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txStores{
			users:    NewUserRepository(tx),
			sessions: NewSessionRepository(tx),
		})
	})
}
