package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeRecord_ToTrade(t *testing.T) {
	tests := []struct {
		name    string
		rec     TradeRecord
		wantErr error
		check   func(t *testing.T, tr Trade)
	}{
		{
			name: "well formed record",
			rec: TradeRecord{
				ID: "t1", AccountID: "a1", Symbol: " EURUSD ", Outcome: "Win",
				PnL: "125.50", RR: "2.5", Date: "2024-03-15", Direction: "LONG",
				ExtraData: `{"session":"London","rating":"4"}`,
			},
			check: func(t *testing.T, tr Trade) {
				assert.Equal(t, "EURUSD", tr.Symbol)
				assert.Equal(t, OutcomeWin, tr.Outcome)
				assert.Equal(t, "125.5", tr.PnL.String())
				assert.Equal(t, "2.5", tr.RR.String())
				assert.Equal(t, DirectionLong, tr.Direction)
				assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tr.Date)
				assert.Equal(t, "London", tr.Extra.Text("session"))
				v, ok := tr.Extra.Get("rating")
				require.True(t, ok)
				assert.Equal(t, ValueRating, v.Kind)
				assert.Equal(t, 4.0, v.Number)
			},
		},
		{
			name: "malformed numbers become zero",
			rec:  TradeRecord{ID: "t2", Symbol: "NQ", Outcome: "loss", PnL: "abc", RR: "", Date: "2024-03-15"},
			check: func(t *testing.T, tr Trade) {
				assert.True(t, tr.PnL.IsZero())
				assert.True(t, tr.RR.IsZero())
			},
		},
		{
			name: "negative rr is clamped to zero",
			rec:  TradeRecord{ID: "t3", Symbol: "NQ", Outcome: "loss", PnL: "-10", RR: "-1", Date: "2024-03-15"},
			check: func(t *testing.T, tr Trade) {
				assert.True(t, tr.RR.IsZero())
				assert.Equal(t, "-10", tr.PnL.String())
			},
		},
		{
			name: "timestamp keeps its calendar day",
			rec:  TradeRecord{ID: "t4", Symbol: "ES", Outcome: "breakeven", Date: "2024-03-15T23:30:00-05:00"},
			check: func(t *testing.T, tr Trade) {
				assert.Equal(t, "2024-03-15", FormatDate(tr.Date))
				assert.Equal(t, DirectionNone, tr.Direction)
			},
		},
		{
			name:    "invalid date is reported",
			rec:     TradeRecord{ID: "t5", Symbol: "ES", Outcome: "win", Date: "15/03/2024"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "unknown outcome is reported",
			rec:     TradeRecord{ID: "t6", Symbol: "ES", Outcome: "draw", Date: "2024-03-15"},
			wantErr: ErrInvalidOutcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := tt.rec.ToTrade(DefaultFields())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestTradeRecord_UnmarshalMixedNumerics(t *testing.T) {
	raw := `[
		{"id":"1","symbol":"BTC","outcome":"win","pnl":150,"rr":"1.5","date":"2024-01-02","direction":null,"extra_data":"{}"},
		{"id":"2","symbol":"BTC","outcome":"loss","pnl":"-75.25","rr":null,"date":"2024-01-03","direction":"short","extra_data":"not json"}
	]`
	var recs []TradeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &recs))
	require.Len(t, recs, 2)

	first, err := recs[0].ToTrade(nil)
	require.NoError(t, err)
	assert.Equal(t, "150", first.PnL.String())
	assert.Equal(t, "1.5", first.RR.String())
	assert.Equal(t, DirectionNone, first.Direction)

	second, err := recs[1].ToTrade(nil)
	require.NoError(t, err)
	assert.Equal(t, "-75.25", second.PnL.String())
	assert.True(t, second.RR.IsZero())
	assert.Equal(t, DirectionShort, second.Direction)
	assert.Empty(t, second.Extra)
}

func TestTrade_RecordRoundTrip(t *testing.T) {
	rec := TradeRecord{
		ID: "t1", AccountID: "a1", Symbol: "EURUSD", Outcome: "win",
		PnL: "100", RR: "2", Date: "2024-05-01", Direction: "short",
		ExtraData: `{"confidence":"High","riskPercent":1.5}`,
	}
	tr, err := rec.ToTrade(DefaultFields())
	require.NoError(t, err)

	back, err := tr.Record().ToTrade(DefaultFields())
	require.NoError(t, err)
	assert.Equal(t, tr.Symbol, back.Symbol)
	assert.True(t, tr.PnL.Equal(back.PnL))
	assert.Equal(t, tr.Date, back.Date)
	assert.Equal(t, tr.Extra, back.Extra)
}

func TestNumeric(t *testing.T) {
	assert.True(t, Numeric("12.5").Valid())
	assert.False(t, Numeric("").Valid())
	assert.False(t, Numeric("1e").Valid())
	assert.Equal(t, "0", Numeric("NaN").Decimal().String())

	out, err := json.Marshal(struct {
		A Numeric `json:"a"`
		B Numeric `json:"b"`
	}{A: "3.25", B: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3.25,"b":null}`, string(out))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-02-29", "2024-02-29T10:00:00Z", "2024-02-29 10:00:00"} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, "2024-02-29", FormatDate(d))
	}
	for _, s := range []string{"", "2023-02-29", "Invalid Date", "29-02-2024"} {
		_, ok := ParseDate(s)
		assert.False(t, ok, s)
	}
}
