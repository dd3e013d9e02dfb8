package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tradeLedger/internal/analytics"
	"tradeLedger/internal/domain"
)

// TradeCSVHeader is the column order written by WriteTradeRecordsCSV.
var TradeCSVHeader = []string{"id", "symbol", "outcome", "pnl", "rr", "date", "direction", "extra_data"}

var requiredTradeColumns = []string{"symbol", "outcome", "date"}

// ReadTradeRecordsCSV reads trade records from CSV with a header row. Columns
// are matched by name in any order; symbol, outcome and date are required and
// the rest default to empty.
func ReadTradeRecordsCSV(r io.Reader) ([]domain.TradeRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredTradeColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", name)
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]domain.TradeRecord, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		records = append(records, domain.TradeRecord{
			ID:        get(row, "id"),
			Symbol:    get(row, "symbol"),
			Outcome:   get(row, "outcome"),
			PnL:       domain.Numeric(get(row, "pnl")),
			RR:        domain.Numeric(get(row, "rr")),
			Date:      get(row, "date"),
			Direction: get(row, "direction"),
			ExtraData: get(row, "extra_data"),
		})
	}
	return records, nil
}

// ReadTradeRecordsFromFile opens filename and reads it with ReadTradeRecordsCSV.
func ReadTradeRecordsFromFile(filename string) ([]domain.TradeRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTradeRecordsCSV(file)
}

// WriteTradeRecordsCSV writes trades in TradeCSVHeader order.
func WriteTradeRecordsCSV(w io.Writer, trades []domain.Trade) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(TradeCSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		rec := t.Record()
		writer.Write([]string{
			rec.ID,
			rec.Symbol,
			rec.Outcome,
			string(rec.PnL),
			string(rec.RR),
			rec.Date,
			rec.Direction,
			rec.ExtraData,
		})
	}
	writer.Flush()
	return writer.Error()
}

// WriteTradesToCSV writes trades to filename, replacing any existing file.
func WriteTradesToCSV(trades []domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteTradeRecordsCSV(file, trades)
}

// WriteDailyPnLCSV writes one row per day: date, pnl, trades.
func WriteDailyPnLCSV(w io.Writer, days []analytics.DayPnL) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"date", "pnl", "trades"})
	for _, d := range days {
		writer.Write([]string{d.Date, d.PnL.String(), strconv.Itoa(d.Trades)})
	}
	writer.Flush()
	return writer.Error()
}
