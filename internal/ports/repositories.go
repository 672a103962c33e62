package ports

import (
	"context"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/domain/orders"
)

// UnitOfWork wraps a function in a DB transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository persists finalized order snapshots. CreateOrder MUST be
// idempotent on OrderID: a retried finalization of an unchanged session
// produces the same id and must not fail or duplicate rows.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *orders.Order) error
	GetByID(ctx context.Context, orderID string) (*orders.Order, error)
}

// SessionStore is a disjoint mapping from customer identifier to session.
// No cross-customer visibility.
type SessionStore interface {
	// Get returns the stored session or a fresh init session; a miss is not an error.
	Get(ctx context.Context, customerID string) (*conversation.Session, error)
	// Save replaces the stored session for session.CustomerID atomically.
	Save(ctx context.Context, session *conversation.Session) error
	// Delete removes the session entirely (used by cancellation).
	Delete(ctx context.Context, customerID string) error
}

// CatalogEntry is one product in the read-only catalog.
type CatalogEntry struct {
	Code  string
	Name  string
	Price orders.Money
}

// Catalog is the read-only product lookup. Lookup is case-insensitive on the
// code; the price is snapshotted by the caller, never re-looked-up.
type Catalog interface {
	Lookup(code string) (CatalogEntry, bool)
	List() []CatalogEntry
}
