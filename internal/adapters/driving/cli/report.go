package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportAppID string
	reportFrom  string
	reportTo    string
	reportJSON  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the analytics report for an application",
	Long: `Aggregates recorded search and generation events. Without --from the
window defaults to the last 30 days.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportAppID, "app", "", "application id (defaults from config)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "window start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "window end (YYYY-MM-DD)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	appID, _ := tenant(reportAppID, "")
	if appID == "" {
		return errors.New("application id required (--app or tenant.application_id in config)")
	}

	report, err := analyticsService.Report(context.Background(), appID, reportFrom, reportTo)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if reportJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Match rate: %.2f%%\n", report.MatchRate)
	cmd.Printf("Avg daily searches: %.2f\n", report.AvgDailySearches)
	cmd.Println("Events:")
	for _, c := range report.Counts {
		cmd.Printf("  %-24s %d\n", c.Type, c.Count)
	}
	if len(report.SearchTrends) > 0 {
		cmd.Println("Daily searches:")
		for _, d := range report.SearchTrends {
			cmd.Printf("  %s  %d\n", d.Date, d.Count)
		}
	}
	return nil
}
