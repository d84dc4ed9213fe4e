package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snoopy0103/upbit-ml-paperbot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled fills",
	Long: `Query and display fill records from a SQLite journal.

Subcommands:
  fill   - Get details of a specific fill by ID
  today  - List fills recorded today
  day    - List fills recorded on a specific day

Examples:
  paperbot journal fill <fill-id>
  paperbot journal today
  paperbot journal day 2026-08-31`,
}

var journalFillCmd = &cobra.Command{
	Use:   "fill <fill-id>",
	Short: "Get details of a specific fill",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalFill,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List fills recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List fills recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalFillCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./paperbot.sqlite", "path to SQLite journal DB")
}

func runJournalFill(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetFill(args[0])
	if err != nil {
		return fmt.Errorf("get fill: %w", err)
	}
	printFill(rec)
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return listFillsForDay(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listFillsForDay(args[0], time.Local)
}

func listFillsForDay(day string, loc *time.Location) error {
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListFillsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query fills: %w", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No fills on %s\n", day)
		return nil
	}
	for _, rec := range recs {
		printFill(rec)
	}
	return nil
}

func printFill(rec journal.FillRecord) {
	fmt.Printf("%s  %s %-4s  price=%.2f qty=%.8f spend=%.2f fee=%.2f pnl=%.2f balance=%.2f  %s\n",
		rec.Time.Format(time.RFC3339), rec.Market, rec.Side,
		rec.Price, rec.Quantity, rec.Spend, rec.Fee, rec.PnL, rec.Balance, rec.Reason)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}
