package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradeLedger/config"
	"tradeLedger/internal/analytics"
	"tradeLedger/internal/domain"
	"tradeLedger/internal/ports"
)

// JournalService loads trade journals from storage and derives analytics from them.
// Every read re-fetches the collection and recomputes from scratch; nothing is cached.
type JournalService struct {
	cfg      *config.Config
	logger   ports.Logger
	accounts ports.AccountRepository
	trades   ports.TradeRepository
	metrics  ports.JournalMetrics
}

// NewJournalService creates a new application service instance.
func NewJournalService(
	cfg *config.Config,
	logger ports.Logger,
	accounts ports.AccountRepository,
	trades ports.TradeRepository,
) (*JournalService, error) {
	if cfg == nil || logger == nil || accounts == nil || trades == nil {
		return nil, fmt.Errorf("%w: missing required dependencies for JournalService", ports.ErrConfigurationError)
	}
	if cfg.Limits.MaxEquityGroups <= 0 || cfg.Limits.BreakdownLimit <= 0 || cfg.Limits.BreakdownLimitEnlarged <= 0 {
		return nil, fmt.Errorf("%w: chart limits must be positive", ports.ErrConfigurationError)
	}

	return &JournalService{
		cfg:      cfg,
		logger:   logger,
		accounts: accounts,
		trades:   trades,
	}, nil
}

// SetMetrics attaches a counter sink. Nil disables counting.
func (s *JournalService) SetMetrics(m ports.JournalMetrics) {
	s.metrics = m
}

// Journal is an account with its parsed trades.
type Journal struct {
	Account domain.Account
	Trades  []domain.Trade
	Skipped int // records dropped for an unusable date or outcome
}

// LoadJournal fetches an account and parses its trade records. Records with an
// invalid date or outcome are skipped and logged.
func (s *JournalService) LoadJournal(ctx context.Context, accountID string) (*Journal, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	records, err := s.trades.FindByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load trades", map[string]interface{}{"accountID": accountID})
		return nil, fmt.Errorf("failed to load trades for account %s: %w", accountID, err)
	}

	j := &Journal{Account: account, Trades: make([]domain.Trade, 0, len(records))}
	for _, rec := range records {
		t, err := rec.ToTrade(account.Fields)
		if err != nil {
			j.Skipped++
			s.logger.Warn(ctx, "Skipping malformed trade record", map[string]interface{}{
				"accountID": accountID,
				"tradeID":   rec.ID,
				"reason":    err.Error(),
			})
			continue
		}
		j.Trades = append(j.Trades, t)
	}
	if j.Skipped > 0 && s.metrics != nil {
		s.metrics.RecordsSkipped(j.Skipped)
	}
	return j, nil
}

func (s *JournalService) findAccount(ctx context.Context, accountID string) (domain.Account, error) {
	rec, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load account", map[string]interface{}{"accountID": accountID})
		return domain.Account{}, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if rec == nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", accountID, ports.ErrNotFound)
	}
	return rec.ToAccount(), nil
}

// --- Analytics ---

// Summary computes the headline metrics of an account.
func (s *JournalService) Summary(ctx context.Context, accountID string) (analytics.Summary, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(j.Trades, j.Account.StartingBalance), nil
}

// StreakView is the streak analysis plus the consistency score.
type StreakView struct {
	analytics.Streaks
	ConsistencyScore int `json:"consistency_score"`
}

// Streaks computes win/loss runs and the share of profitable days.
func (s *JournalService) Streaks(ctx context.Context, accountID string) (StreakView, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return StreakView{}, err
	}
	return StreakView{
		Streaks:          analytics.AnalyzeStreaks(j.Trades),
		ConsistencyScore: analytics.ConsistencyScore(j.Trades),
	}, nil
}

// EquityQuery carries the equity chart selectors.
type EquityQuery struct {
	Group    string
	Enlarged bool
	Hidden   []string
}

// EquityCurve builds the equity chart of an account.
func (s *JournalService) EquityCurve(ctx context.Context, accountID string, q EquityQuery) (analytics.EquityCurve, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return analytics.EquityCurve{}, err
	}
	key, err := analytics.ParseGroupKey(q.Group, j.Account.Fields)
	if err != nil {
		return analytics.EquityCurve{}, err
	}
	return analytics.BuildEquityCurve(j.Trades, j.Account.StartingBalance, analytics.EquityOptions{
		Group:     key,
		Enlarged:  q.Enlarged,
		Hidden:    q.Hidden,
		MaxGroups: s.cfg.Limits.MaxEquityGroups,
	}), nil
}

// BreakdownQuery carries the bar chart selectors.
type BreakdownQuery struct {
	Group    string
	Metric   string
	Enlarged bool
}

// Breakdown ranks an account's trades by a categorical field. Ungrouped
// selectors are rejected with analytics.ErrInvalidGroupKey.
func (s *JournalService) Breakdown(ctx context.Context, accountID string, q BreakdownQuery) (analytics.Breakdown, error) {
	metric, err := analytics.ParseMetric(q.Metric)
	if err != nil {
		return analytics.Breakdown{}, err
	}
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return analytics.Breakdown{}, err
	}
	key, err := analytics.ParseGroupKey(q.Group, j.Account.Fields)
	if err != nil {
		return analytics.Breakdown{}, err
	}
	return analytics.BuildBreakdown(j.Trades, analytics.BreakdownOptions{
		Group:         key,
		Metric:        metric,
		Enlarged:      q.Enlarged,
		Limit:         s.cfg.Limits.BreakdownLimit,
		EnlargedLimit: s.cfg.Limits.BreakdownLimitEnlarged,
	})
}

// DailyPnL sums an account's pnl per calendar date.
func (s *JournalService) DailyPnL(ctx context.Context, accountID string, includeNonTrading bool) ([]analytics.DayPnL, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return analytics.DailyPnL(j.Trades, includeNonTrading), nil
}

// WeekdayPnL sums an account's pnl per weekday.
func (s *JournalService) WeekdayPnL(ctx context.Context, accountID string) ([]analytics.WeekdayPnL, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return analytics.WeekdayBreakdown(j.Trades), nil
}

// ReportQuery carries the selectors of a full report.
type ReportQuery struct {
	Group                 string
	Enlarged              bool
	Hidden                []string
	IncludeNonTradingDays bool
}

// Report computes every analytics view of an account in one pass over storage.
func (s *JournalService) Report(ctx context.Context, accountID string, q ReportQuery) (analytics.Report, error) {
	j, err := s.LoadJournal(ctx, accountID)
	if err != nil {
		return analytics.Report{}, err
	}
	key, err := analytics.ParseGroupKey(q.Group, j.Account.Fields)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.BuildReport(j.Trades, j.Account.StartingBalance, analytics.ReportOptions{
		Group:                 key,
		Enlarged:              q.Enlarged,
		Hidden:                q.Hidden,
		IncludeNonTradingDays: q.IncludeNonTradingDays,
		Limits:                s.cfg.Limits,
	}), nil
}

// --- Accounts and trades ---

// NewAccount is the input of CreateAccount.
type NewAccount struct {
	Name            string                   `json:"name"`
	StartingBalance domain.Numeric           `json:"starting_balance"`
	Fields          []domain.FieldDefinition `json:"fields,omitempty"`
}

// CreateAccount stores a new account. An absent starting balance defaults to
// domain.DefaultStartingBalance; a present but unparseable one is rejected.
func (s *JournalService) CreateAccount(ctx context.Context, in NewAccount) (domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Account{}, fmt.Errorf("%w: account name is required", ports.ErrInvalidRequest)
	}

	balance := domain.DefaultStartingBalance
	if strings.TrimSpace(string(in.StartingBalance)) != "" {
		if !in.StartingBalance.Valid() {
			return domain.Account{}, fmt.Errorf("%w: starting balance %q is not a number", ports.ErrInvalidRequest, string(in.StartingBalance))
		}
		balance = in.StartingBalance.Decimal()
	}

	fields := domain.DefaultFields()
	if len(in.Fields) > 0 {
		fields = domain.NormalizeFields(in.Fields)
	}

	account := domain.Account{Name: name, StartingBalance: balance, Fields: fields}
	rec := account.Record()
	id, err := s.accounts.CreateAccount(ctx, &rec)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to create account", map[string]interface{}{"name": name})
		return domain.Account{}, err
	}
	account.ID = id
	s.logger.Info(ctx, "Account created", map[string]interface{}{"accountID": id, "name": name})
	return account, nil
}

// ListAccounts returns every account.
func (s *JournalService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	records, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to list accounts")
		return nil, err
	}
	out := make([]domain.Account, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToAccount())
	}
	return out, nil
}

// AddTrade validates and stores a trade. Symbol, outcome and date must be
// usable; pnl and rr default to zero when absent.
func (s *JournalService) AddTrade(ctx context.Context, accountID string, rec domain.TradeRecord) (domain.Trade, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return domain.Trade{}, err
	}

	rec.AccountID = accountID
	if strings.TrimSpace(rec.Symbol) == "" {
		return domain.Trade{}, fmt.Errorf("%w: symbol is required", ports.ErrInvalidRequest)
	}
	if strings.TrimSpace(string(rec.PnL)) != "" && !rec.PnL.Valid() {
		return domain.Trade{}, fmt.Errorf("%w: pnl %q is not a number", ports.ErrInvalidRequest, string(rec.PnL))
	}
	trade, err := rec.ToTrade(account.Fields)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
	}

	normalized := trade.Record()
	id, err := s.trades.CreateTrade(ctx, &normalized)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to store trade", map[string]interface{}{"accountID": accountID, "symbol": trade.Symbol})
		return domain.Trade{}, err
	}
	trade.ID = id
	return trade, nil
}

// ImportResult counts the outcome of ImportTrades.
type ImportResult struct {
	Imported int
	Rejected int
}

// ImportTrades adds records one by one. Invalid records are logged and counted,
// storage failures abort the import.
func (s *JournalService) ImportTrades(ctx context.Context, accountID string, records []domain.TradeRecord) (ImportResult, error) {
	var res ImportResult
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return res, fmt.Errorf("%w: %w", ports.ErrTimeout, err)
			}
			return res, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
		}
		_, err := s.AddTrade(ctx, accountID, rec)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, ports.ErrInvalidRequest):
			res.Rejected++
			s.logger.Warn(ctx, "Rejected trade during import", map[string]interface{}{
				"accountID": accountID, "row": i + 1, "reason": err.Error(),
			})
		default:
			return res, err
		}
	}
	s.logger.Info(ctx, "Import finished", map[string]interface{}{
		"accountID": accountID, "imported": res.Imported, "rejected": res.Rejected,
	})
	return res, nil
}

// DeleteTrade removes a trade from an account.
func (s *JournalService) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	if _, err := s.findAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.trades.DeleteTrade(ctx, accountID, tradeID); err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Error(ctx, err, "Failed to delete trade", map[string]interface{}{"accountID": accountID, "tradeID": tradeID})
		}
		return err
	}
	s.logger.Info(ctx, "Trade deleted", map[string]interface{}{"accountID": accountID, "tradeID": tradeID})
	return nil
}
