package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3" // SQLite driver

	"tradeLedger/internal/domain"
	"tradeLedger/internal/ports"
)

// Repository implements the ports.AccountRepository and ports.TradeRepository interfaces using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/trade_ledger.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Data directory checked/created", map[string]interface{}{"path": filepath.Dir(dbPath)})

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// Numeric columns are TEXT: values are stored exactly as received and parsed on read.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		starting_balance TEXT NULL,
		fields TEXT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		account_id TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
		symbol TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT '',
		pnl TEXT NULL,
		rr TEXT NULL,
		date TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL DEFAULT '',
		extra_data TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		UNIQUE (account_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_trades_account_seq ON trades (account_id, seq);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- AccountRepository Implementation ---

// CreateAccount saves a new account and returns its ID.
func (r *Repository) CreateAccount(ctx context.Context, acc *domain.AccountRecord) (string, error) {
	const query = `
	INSERT INTO accounts (id, name, starting_balance, fields, created_at)
	VALUES (?, ?, ?, ?, ?)`

	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, query,
		acc.ID, acc.Name, nullNumeric(acc.StartingBalance), nullString(acc.Fields), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert account %q: %w", acc.Name, mapError(err))
	}
	r.logger.Debug(ctx, "Account created", map[string]interface{}{"accountID": acc.ID, "name": acc.Name})
	return acc.ID, nil
}

// FindAccountByID retrieves an account by ID.
func (r *Repository) FindAccountByID(ctx context.Context, id string) (*domain.AccountRecord, error) {
	const query = `
	SELECT id, name, starting_balance, fields
	FROM accounts
	WHERE id = ?`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Account not found by ID", map[string]interface{}{"accountID": id})
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query account by ID %s: %w: %w", id, ports.ErrQueryFailed, err)
	}
	return acc, nil
}

// ListAccounts retrieves all accounts ordered by name.
func (r *Repository) ListAccounts(ctx context.Context) ([]*domain.AccountRecord, error) {
	const query = `
	SELECT id, name, starting_balance, fields
	FROM accounts
	ORDER BY name COLLATE NOCASE, created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	accounts := make([]*domain.AccountRecord, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account during ListAccounts: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// --- TradeRepository Implementation ---

// CreateTrade appends a trade to its account and returns the trade ID.
func (r *Repository) CreateTrade(ctx context.Context, trade *domain.TradeRecord) (string, error) {
	const query = `
	INSERT INTO trades (id, account_id, symbol, outcome, pnl, rr, date, direction, extra_data, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	extra := trade.ExtraData
	if extra == "" {
		extra = "{}"
	}

	_, err := r.db.ExecContext(ctx, query,
		trade.ID, trade.AccountID, trade.Symbol, trade.Outcome,
		nullNumeric(trade.PnL), nullNumeric(trade.RR),
		trade.Date, trade.Direction, extra, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert trade %s for account %s: %w", trade.ID, trade.AccountID, mapError(err))
	}
	r.logger.Debug(ctx, "Trade created", map[string]interface{}{
		"tradeID": trade.ID, "accountID": trade.AccountID, "symbol": trade.Symbol, "pnl": string(trade.PnL),
	})
	return trade.ID, nil
}

// DeleteTrade removes one trade from an account.
func (r *Repository) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	const query = `DELETE FROM trades WHERE account_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query, accountID, tradeID)
	if err != nil {
		return fmt.Errorf("failed to delete trade %s: %w: %w", tradeID, ports.ErrDeleteFailed, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete trade %s: %w", tradeID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade %s not found in account %s: %w", tradeID, accountID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade deleted", map[string]interface{}{"tradeID": tradeID, "accountID": accountID})
	return nil
}

// FindByAccount retrieves every trade of an account in insertion order.
func (r *Repository) FindByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error) {
	const query = `
	SELECT id, account_id, symbol, outcome, pnl, rr, date, direction, extra_data
	FROM trades
	WHERE account_id = ?
	ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for account %s: %w: %w", accountID, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]*domain.TradeRecord, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during FindByAccount: %w", err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(s scanner) (*domain.AccountRecord, error) {
	acc := &domain.AccountRecord{}
	var balance, fields sql.NullString
	if err := s.Scan(&acc.ID, &acc.Name, &balance, &fields); err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	acc.StartingBalance = domain.Numeric(balance.String)
	acc.Fields = fields.String
	return acc, nil
}

func scanTrade(s scanner) (*domain.TradeRecord, error) {
	t := &domain.TradeRecord{}
	var pnl, rr sql.NullString
	err := s.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.Outcome, &pnl, &rr, &t.Date, &t.Direction, &t.ExtraData)
	if err != nil {
		return nil, err
	}
	t.PnL = domain.Numeric(pnl.String)
	t.RR = domain.Numeric(rr.String)
	return t, nil
}

func nullNumeric(n domain.Numeric) sql.NullString {
	return nullString(string(n))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// mapError translates driver errors into the ports error set.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ports.ErrDuplicateEntry, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", ports.ErrQueryFailed, err)
}
