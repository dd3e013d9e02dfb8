package ports

import (
	"context"

	"tradeLedger/internal/domain"
)

// AccountRepository defines the interface for storing and retrieving journal accounts.
type AccountRepository interface {
	// CreateAccount saves a new account and returns its assigned ID.
	// An empty record ID is replaced by a generated one.
	CreateAccount(ctx context.Context, acc *domain.AccountRecord) (string, error)
	// FindAccountByID retrieves an account by its ID.
	// Returns nil, nil if not found.
	FindAccountByID(ctx context.Context, id string) (*domain.AccountRecord, error)
	// ListAccounts retrieves all accounts ordered by name.
	ListAccounts(ctx context.Context) ([]*domain.AccountRecord, error)
}

// TradeRepository defines the interface for storing and retrieving logged trades.
// Records are returned in their raw persisted shape; parsing is the caller's concern.
type TradeRepository interface {
	// CreateTrade appends a trade to an account and returns its assigned ID.
	CreateTrade(ctx context.Context, trade *domain.TradeRecord) (string, error)
	// DeleteTrade removes a trade from an account.
	// Returns an error wrapping ErrNotFound if no such trade exists.
	DeleteTrade(ctx context.Context, accountID, tradeID string) error
	// FindByAccount retrieves every trade of an account in insertion order.
	FindByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error)
}
