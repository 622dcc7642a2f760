package cli

import (
	"fmt"
	"os"
	"strconv"

	"futures-review/internal/analysis"
	"futures-review/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addAnalysisCommands adds the commands that review recorded trades.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSummaryCmd(app))
	rootCmd.AddCommand(newCurveCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
}

func newSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize profit/loss per symbol",
		Long: `Show trade count, total profit/loss, wins, losses and win rate for each
symbol and for all trades together. The win rate is wins per loss in
percent, and 0 when there are no losses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sorted, _ := cmd.Flags().GetBool("sorted")
			report, err := app.report(cmd.Context(), sorted)
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Encode(report)
			}
			if report.Overall.TotalTrades == 0 {
				output.Println("No trades recorded.")
				return nil
			}

			table := NewTable(output, "SYMBOL", "TRADES", "TOTAL P&L", "WINS", "LOSSES", "WIN RATE")
			for _, s := range report.Symbols {
				table.AddRow(
					orDash(s.Symbol),
					strconv.Itoa(s.TotalTrades),
					FormatPnL(s.TotalProfitLoss),
					strconv.Itoa(s.WinningTrades),
					strconv.Itoa(s.LosingTrades),
					FormatPercent(s.WinRate),
				)
			}
			if err := table.Render(); err != nil {
				return err
			}

			// Printed apart from the table so no symbol can be mistaken for it.
			o := report.Overall
			output.Println()
			output.Printf("Overall: %d trades, P&L %s, %d wins, %d losses, win rate %s\n",
				o.TotalTrades, FormatPnL(o.TotalProfitLoss), o.WinningTrades, o.LosingTrades, FormatPercent(o.WinRate))
			return nil
		},
	}
	cmd.Flags().Bool("sorted", false, "order symbols alphabetically instead of by first trade")
	return cmd
}

func newCurveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Show the cumulative profit/loss curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := analysis.NewEngine(app.Journal, app.Logger).Curve(cmd.Context())
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				if points == nil {
					points = []analysis.CurvePoint{}
				}
				return output.Encode(points)
			}
			if len(points) == 0 {
				output.Println("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "P&L", "CUMULATIVE")
			for _, p := range points {
				table.AddRow(strconv.FormatInt(p.ID, 10), p.Symbol, FormatPnL(p.ProfitLoss), FormatPnL(p.Cumulative))
			}
			return table.Render()
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all trades as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := app.Journal.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				return export.WriteCSV(cmd.OutOrStdout(), trades)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := export.WriteCSV(f, trades); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			app.Logger.Info("Trades exported", zap.String("file", path), zap.Int("trades", len(trades)))
			NewOutput(cmd).Printf("Exported %d trades to %s\n", len(trades), path)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "write to this file instead of stdout")
	return cmd
}
