package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"tradeLedger/config"
	"tradeLedger/internal/adapters/logger"
	"tradeLedger/internal/adapters/sqlite"
	"tradeLedger/internal/analytics"
	"tradeLedger/internal/app"
	"tradeLedger/internal/utils"
)

func main() {
	accountID := flag.String("account", "", "account id to report on")
	group := flag.String("group", "", "extension field to break the results down by")
	metric := flag.String("metric", string(analytics.MetricPnL), "breakdown metric: pnl, winrate, avgpnl or count")
	export := flag.String("export", "", "write the account's trades to this CSV file")
	flag.Parse()

	if *accountID == "" {
		log.Fatalf("-account is required")
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger, err := logger.NewZapLogger(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. Initialize Repository
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer repo.Close()

	svc, err := app.NewJournalService(cfg, appLogger, repo, repo)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}

	ctx := context.Background()
	journal, err := svc.LoadJournal(ctx, *accountID)
	if err != nil {
		log.Fatalf("Error loading journal: %v", err)
	}

	report := analytics.BuildReport(journal.Trades, journal.Account.StartingBalance, analytics.ReportOptions{
		Limits: cfg.Limits,
	})

	fmt.Printf("## %s (%d trades", journal.Account.Name, len(journal.Trades))
	if journal.Skipped > 0 {
		fmt.Printf(", %d skipped", journal.Skipped)
	}
	fmt.Println(")")
	printSummary(report)
	printMonthly(report.Monthly)
	printWeekdays(report.Weekdays)

	if *group != "" {
		b, err := svc.Breakdown(ctx, *accountID, app.BreakdownQuery{Group: *group, Metric: *metric})
		if err != nil {
			log.Fatalf("Error building breakdown: %v", err)
		}
		printBreakdown(b)
	}

	if *export != "" {
		if err := utils.WriteTradesToCSV(journal.Trades, *export); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
		fmt.Printf("\nTrades exported to %s\n", *export)
	}
}

func printSummary(r analytics.Report) {
	s := r.Summary
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Balance\t%s -> %s\t\n", analytics.FormatMoney(s.StartingBalance), analytics.FormatMoney(s.CurrentBalance))
	fmt.Fprintf(w, "Total PnL\t%s\t\n", analytics.FormatMoney(s.TotalPnL))
	fmt.Fprintf(w, "Wins / Losses / BE\t%d / %d / %d\t\n", s.Wins, s.Losses, s.Breakevens)
	fmt.Fprintf(w, "Win rate\t%d%%\t\n", s.WinRate)
	fmt.Fprintf(w, "Profit factor\t%s\t\n", s.ProfitFactor)
	fmt.Fprintf(w, "Avg win / loss\t%d / %d\t\n", s.AvgWin, s.AvgLoss)
	fmt.Fprintf(w, "Expectancy\t%d\t\n", s.Expectancy)
	fmt.Fprintf(w, "Return on risk\t%s\t\n", s.ReturnOnRisk)
	fmt.Fprintf(w, "Monthly growth\t%.2f%%\t\n", s.MonthlyGrowth)
	fmt.Fprintf(w, "Max drawdown\t%s (%.2f%%)\t\n", analytics.FormatMoney(s.MaxDrawdown), s.MaxDrawdownPct)
	fmt.Fprintf(w, "Streaks (max win / max loss / current)\t%d / %d / %d\t\n",
		r.Streaks.MaxWins, r.Streaks.MaxLosses, r.Streaks.CurrentStreak)
	fmt.Fprintf(w, "Consistency\t%d%%\t\n", r.Consistency)
	if r.BestDay != nil {
		fmt.Fprintf(w, "Best day\t%s %s\t\n", r.BestDay.Date, analytics.FormatMoney(r.BestDay.PnL))
		fmt.Fprintf(w, "Worst day\t%s %s\t\n", r.WorstDay.Date, analytics.FormatMoney(r.WorstDay.PnL))
	}
	w.Flush()
}

func printMonthly(months []analytics.MonthPnL) {
	if len(months) == 0 {
		return
	}
	fmt.Println("\n## Monthly PnL")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Month\tTrades\tPnL\t")
	for _, m := range months {
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", m.Month, m.Trades, analytics.FormatMoney(m.PnL))
	}
	w.Flush()
}

func printWeekdays(days []analytics.WeekdayPnL) {
	fmt.Println("\n## PnL by Weekday")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Day\tTrades\tPnL\t")
	for _, d := range days {
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", d.Name, d.Trades, analytics.FormatMoney(d.PnL))
	}
	w.Flush()
}

func printBreakdown(b analytics.Breakdown) {
	fmt.Printf("\n## %s by %s\n", b.Metric, b.Group)
	if len(b.Entries) == 0 {
		fmt.Println("No trades carry this field.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Value\tTrades\tW/L\tTotal\tMetric\t")
	for _, e := range b.Entries {
		fmt.Fprintf(w, "%s\t%d\t%d/%d\t%s\t%s\t\n",
			e.Name, e.Count, e.Wins, e.Losses, analytics.FormatMoney(e.TotalPnL), e.Display)
	}
	w.Flush()
}
