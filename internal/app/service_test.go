package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeLedger/config"
	"tradeLedger/internal/analytics"
	"tradeLedger/internal/domain"
	"tradeLedger/internal/ports"
)

// Mock implementations
type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockMetrics struct {
	skipped []int
}

func (m *mockMetrics) RecordsSkipped(n int) {
	m.skipped = append(m.skipped, n)
}

type mockAccountRepo struct {
	accounts map[string]*domain.AccountRecord
	order    []string
	findErr  error
	nextID   int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*domain.AccountRecord)}
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, acc *domain.AccountRecord) (string, error) {
	if acc.ID == "" {
		m.nextID++
		acc.ID = fmt.Sprintf("acc-%d", m.nextID)
	}
	if _, ok := m.accounts[acc.ID]; ok {
		return "", ports.ErrDuplicateEntry
	}
	cp := *acc
	m.accounts[acc.ID] = &cp
	m.order = append(m.order, acc.ID)
	return acc.ID, nil
}

func (m *mockAccountRepo) FindAccountByID(ctx context.Context, id string) (*domain.AccountRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	acc, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (m *mockAccountRepo) ListAccounts(ctx context.Context) ([]*domain.AccountRecord, error) {
	out := make([]*domain.AccountRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.accounts[id])
	}
	return out, nil
}

type mockTradeRepo struct {
	trades    []*domain.TradeRecord
	createErr error
	findErr   error
	nextID    int
}

func (m *mockTradeRepo) CreateTrade(ctx context.Context, trade *domain.TradeRecord) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	if trade.ID == "" {
		m.nextID++
		trade.ID = fmt.Sprintf("t-%d", m.nextID)
	}
	cp := *trade
	m.trades = append(m.trades, &cp)
	return trade.ID, nil
}

func (m *mockTradeRepo) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	for i, t := range m.trades {
		if t.AccountID == accountID && t.ID == tradeID {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trade %s: %w", tradeID, ports.ErrNotFound)
}

func (m *mockTradeRepo) FindByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]*domain.TradeRecord, 0)
	for _, t := range m.trades {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{Limits: analytics.DefaultLimits()}
}

type fixture struct {
	svc      *JournalService
	logger   *mockLogger
	accounts *mockAccountRepo
	trades   *mockTradeRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{logger: &mockLogger{}, accounts: newMockAccountRepo(), trades: &mockTradeRepo{}}
	svc, err := NewJournalService(testConfig(), f.logger, f.accounts, f.trades)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// seed stores an account with raw trade records, bypassing validation.
func (f *fixture) seed(balance domain.Numeric, records ...domain.TradeRecord) string {
	id, _ := f.accounts.CreateAccount(context.Background(), &domain.AccountRecord{Name: "Main", StartingBalance: balance})
	for i := range records {
		rec := records[i]
		rec.AccountID = id
		f.trades.CreateTrade(context.Background(), &rec)
	}
	return id
}

func rec(symbol, outcome string, pnl domain.Numeric, date string) domain.TradeRecord {
	return domain.TradeRecord{Symbol: symbol, Outcome: outcome, PnL: pnl, Date: date}
}

func TestNewJournalService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		logger  ports.Logger
		wantErr bool
	}{
		{"valid", testConfig(), &mockLogger{}, false},
		{"nil config", nil, &mockLogger{}, true},
		{"nil logger", testConfig(), nil, true},
		{"zero limits", &config.Config{}, &mockLogger{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewJournalService(tt.cfg, tt.logger, newMockAccountRepo(), &mockTradeRepo{})
			if tt.wantErr {
				assert.ErrorIs(t, err, ports.ErrConfigurationError)
				assert.Nil(t, svc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestJournalService_LoadJournal_SkipsMalformed(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000",
		rec("EURUSD", "win", "100", "2024-01-01"),
		rec("EURUSD", "maybe", "5", "2024-01-02"),
		rec("EURUSD", "loss", "-50", "31/01/2024"),
		rec("GBPUSD", "WIN", "oops", "2024-01-03"),
	)

	j, err := f.svc.LoadJournal(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, j.Trades, 2)
	assert.Equal(t, 2, j.Skipped)
	assert.Len(t, f.logger.warnMsgs, 2)
	assert.True(t, j.Trades[1].PnL.IsZero(), "malformed pnl becomes zero")
}

func TestJournalService_SkippedRecordsCounted(t *testing.T) {
	f := newFixture(t)
	m := &mockMetrics{}
	f.svc.SetMetrics(m)
	id := f.seed("10000",
		rec("EURUSD", "win", "100", "2024-01-01"),
		rec("EURUSD", "draw", "5", "2024-01-02"),
	)
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, id)
	require.NoError(t, err)
	_, err = f.svc.Streaks(ctx, id)
	require.NoError(t, err)
	_, err = f.svc.DailyPnL(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, m.skipped)

	clean := f.seed("10000", rec("EURUSD", "win", "100", "2024-01-01"))
	_, err = f.svc.Summary(ctx, clean)
	require.NoError(t, err)
	assert.Len(t, m.skipped, 3, "nothing skipped, nothing counted")
}

func TestJournalService_LoadJournal_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.LoadJournal(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	id := f.seed("10000")
	f.trades.findErr = ports.ErrQueryFailed
	_, err = f.svc.LoadJournal(context.Background(), id)
	assert.ErrorIs(t, err, ports.ErrQueryFailed)
	assert.NotEmpty(t, f.logger.errorMsgs)
}

func TestJournalService_Summary(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000",
		rec("EURUSD", "win", "100", "2024-01-01"),
		rec("EURUSD", "loss", "-50", "2024-01-02"),
		rec("EURUSD", "win", "200", "2024-01-03"),
	)

	s, err := f.svc.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "250", s.TotalPnL.String())
	assert.Equal(t, "10250", s.CurrentBalance.String())
	assert.Equal(t, 67, s.WinRate)
}

func TestJournalService_Summary_DefaultBalance(t *testing.T) {
	f := newFixture(t)
	id := f.seed("not a number")

	s, err := f.svc.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "10000", s.StartingBalance.String())
}

func TestJournalService_Streaks(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000",
		rec("A", "loss", "-10", "2024-01-01"),
		rec("A", "loss", "-20", "2024-01-02"),
		rec("A", "loss", "-30", "2024-01-03"),
		rec("A", "loss", "-40", "2024-01-04"),
	)

	st, err := f.svc.Streaks(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, st.MaxLosses)
	assert.Equal(t, -4, st.CurrentStreak)
	assert.Equal(t, 0, st.ConsistencyScore)
}

func TestJournalService_EquityAndBreakdown(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000",
		rec("EURUSD", "win", "100", "2024-01-01"),
		rec("GBPUSD", "loss", "-50", "2024-01-02"),
		rec("EURUSD", "win", "200", "2024-01-03"),
	)
	ctx := context.Background()

	curve, err := f.svc.EquityCurve(ctx, id, EquityQuery{Group: "symbol"})
	require.NoError(t, err)
	assert.Len(t, curve.Series, 2)

	curve, err = f.svc.EquityCurve(ctx, id, EquityQuery{Group: "session"})
	require.NoError(t, err)
	require.Len(t, curve.Series, 1)
	assert.Equal(t, analytics.UnknownGroup, curve.Series[0].Name)

	b, err := f.svc.Breakdown(ctx, id, BreakdownQuery{Group: "session"})
	require.NoError(t, err)
	assert.Empty(t, b.Entries)

	b, err = f.svc.Breakdown(ctx, id, BreakdownQuery{Group: "symbol", Metric: "winrate"})
	require.NoError(t, err)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "EURUSD", b.Entries[0].Name)

	_, err = f.svc.Breakdown(ctx, id, BreakdownQuery{Group: ""})
	assert.ErrorIs(t, err, analytics.ErrInvalidGroupKey)

	_, err = f.svc.Breakdown(ctx, id, BreakdownQuery{Group: "symbol", Metric: "sharpe"})
	assert.ErrorIs(t, err, analytics.ErrInvalidMetric)

	_, err = f.svc.EquityCurve(ctx, id, EquityQuery{Group: "pnl"})
	assert.ErrorIs(t, err, analytics.ErrInvalidGroupKey)
}

func TestJournalService_CalendarViews(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000",
		rec("EURUSD", "win", "100", "2024-04-01"),
		rec("EURUSD", "loss", "-30", "2024-04-03"),
	)
	ctx := context.Background()

	days, err := f.svc.DailyPnL(ctx, id, false)
	require.NoError(t, err)
	assert.Len(t, days, 2)

	days, err = f.svc.DailyPnL(ctx, id, true)
	require.NoError(t, err)
	assert.Len(t, days, 3)

	weekdays, err := f.svc.WeekdayPnL(ctx, id)
	require.NoError(t, err)
	require.Len(t, weekdays, 5)
	assert.Equal(t, "100", weekdays[0].PnL.String())
}

func TestJournalService_Report(t *testing.T) {
	f := newFixture(t)
	id := f.seed("5000",
		rec("EURUSD", "win", "100", "2024-04-01"),
		rec("EURUSD", "loss", "-30", "2024-04-03"),
	)

	r, err := f.svc.Report(context.Background(), id, ReportQuery{Group: "symbol"})
	require.NoError(t, err)
	assert.Equal(t, "5070", r.Summary.CurrentBalance.String())
	assert.Equal(t, "symbol", r.Equity.Group)

	_, err = f.svc.Report(context.Background(), id, ReportQuery{Group: "nope"})
	assert.ErrorIs(t, err, analytics.ErrInvalidGroupKey)
}

func TestJournalService_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		in          NewAccount
		wantBalance string
		wantErr     error
	}{
		{"default balance", NewAccount{Name: "Main"}, "10000", nil},
		{"explicit balance", NewAccount{Name: "Prop", StartingBalance: "2500.5"}, "2500.5", nil},
		{"blank name", NewAccount{Name: "  "}, "", ports.ErrInvalidRequest},
		{"bad balance", NewAccount{Name: "X", StartingBalance: "lots"}, "", ports.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			acc, err := f.svc.CreateAccount(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, acc.ID)
			assert.Equal(t, tt.wantBalance, acc.StartingBalance.String())
			assert.Len(t, acc.Fields, len(domain.DefaultFields()))

			list, err := f.svc.ListAccounts(context.Background())
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, acc.ID, list[0].ID)
		})
	}
}

func TestJournalService_CreateAccount_CustomFields(t *testing.T) {
	f := newFixture(t)
	acc, err := f.svc.CreateAccount(context.Background(), NewAccount{
		Name:   "Custom",
		Fields: []domain.FieldDefinition{{ID: "setup", Label: "Setup", Type: domain.FieldSelect, Enabled: true}},
	})
	require.NoError(t, err)
	_, ok := domain.FindField(acc.Fields, "setup")
	assert.True(t, ok)
	_, ok = domain.FindField(acc.Fields, domain.FieldIDPnL)
	assert.True(t, ok, "fixed fields are always present")
}

func TestJournalService_AddTrade(t *testing.T) {
	tests := []struct {
		name    string
		rec     domain.TradeRecord
		wantErr error
	}{
		{"valid", rec("EURUSD", "Win", "120.5", "2024-05-01"), nil},
		{"absent pnl defaults to zero", rec("EURUSD", "breakeven", "", "2024-05-01"), nil},
		{"blank symbol", rec(" ", "win", "1", "2024-05-01"), ports.ErrInvalidRequest},
		{"bad outcome", rec("EURUSD", "draw", "1", "2024-05-01"), domain.ErrInvalidOutcome},
		{"bad date", rec("EURUSD", "win", "1", "yesterday"), domain.ErrInvalidDate},
		{"bad pnl", rec("EURUSD", "win", "ten", "2024-05-01"), ports.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.seed("10000")

			trade, err := f.svc.AddTrade(context.Background(), id, tt.rec)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ports.ErrInvalidRequest)
				assert.Empty(t, f.trades.trades)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, trade.ID)
			require.Len(t, f.trades.trades, 1)
			stored := f.trades.trades[0]
			assert.Equal(t, id, stored.AccountID)
			assert.Equal(t, "2024-05-01", stored.Date)
			assert.Equal(t, string(trade.Outcome), stored.Outcome)
		})
	}
}

func TestJournalService_AddTrade_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddTrade(context.Background(), "ghost", rec("EURUSD", "win", "1", "2024-05-01"))
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestJournalService_ImportTrades(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000")

	res, err := f.svc.ImportTrades(context.Background(), id, []domain.TradeRecord{
		rec("EURUSD", "win", "10", "2024-05-01"),
		rec("EURUSD", "nah", "10", "2024-05-02"),
		rec("GBPUSD", "loss", "-5", "2024-05-03"),
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Rejected: 1}, res)
	assert.Len(t, f.logger.warnMsgs, 1)

	f.trades.createErr = errors.New("disk full")
	_, err = f.svc.ImportTrades(context.Background(), id, []domain.TradeRecord{rec("EURUSD", "win", "10", "2024-05-01")})
	assert.EqualError(t, err, "disk full")
}

func TestJournalService_ImportTrades_Canceled(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.ImportTrades(ctx, id, []domain.TradeRecord{rec("EURUSD", "win", "10", "2024-05-01")})
	assert.ErrorIs(t, err, ports.ErrContextCanceled)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err = f.svc.ImportTrades(ctx, id, []domain.TradeRecord{rec("EURUSD", "win", "10", "2024-05-01")})
	assert.ErrorIs(t, err, ports.ErrTimeout)
}

func TestJournalService_DeleteTrade(t *testing.T) {
	f := newFixture(t)
	id := f.seed("10000", rec("EURUSD", "win", "10", "2024-05-01"))
	tradeID := f.trades.trades[0].ID
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteTrade(ctx, id, tradeID))
	assert.Empty(t, f.trades.trades)

	assert.ErrorIs(t, f.svc.DeleteTrade(ctx, id, tradeID), ports.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteTrade(ctx, "ghost", tradeID), ports.ErrNotFound)
}
