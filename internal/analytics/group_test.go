package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeLedger/internal/domain"
)

func TestParseGroupKey(t *testing.T) {
	fields := domain.DefaultFields()

	tests := []struct {
		in      string
		want    GroupKey
		wantErr bool
	}{
		{"", ByTotal, false},
		{"total", ByTotal, false},
		{"None", ByTotal, false},
		{"symbol", BySymbol, false},
		{"direction", ByDirection, false},
		{"session", ByField("session"), false},
		{"rr", ByField("rr"), false},
		{"pnl", GroupKey{}, true},
		{"date", GroupKey{}, true},
		{"strategy", GroupKey{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGroupKey(tt.in, fields)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGroupKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupKey_String(t *testing.T) {
	assert.Equal(t, "total", ByTotal.String())
	assert.Equal(t, "symbol", BySymbol.String())
	assert.Equal(t, "direction", ByDirection.String())
	assert.Equal(t, "session", ByField("session").String())
}

func TestPartition_ByRR(t *testing.T) {
	a := mk("2024-01-01", domain.OutcomeWin, 10)
	a.RR = decimal.RequireFromString("2")
	b := mk("2024-01-02", domain.OutcomeWin, 10)
	c := mk("2024-01-03", domain.OutcomeLoss, -10)
	c.RR = decimal.RequireFromString("2")

	groups := partition([]domain.Trade{a, b, c}, ByField(domain.FieldIDRR), func(v string) (string, bool) {
		return v, v != ""
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "2", groups[0].name)
	assert.Len(t, groups[0].trades, 2)
}
