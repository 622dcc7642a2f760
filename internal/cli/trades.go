package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"futures-review/internal/database"
	"futures-review/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addTradeCommands adds the commands that record and read trades.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newInitCmd(app))
	rootCmd.AddCommand(newAddCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newSymbolsCmd(app))
}

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the journal database",
		Long:  "Create the trades table if it does not exist yet. Existing trades are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("init works on a local journal only; the server initializes its own")
			}
			// setup already ran Initialize; report what is there.
			n, err := app.Store.Count(cmd.Context())
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Encode(map[string]interface{}{"path": app.Store.Path(), "trades": n})
			}
			output.Printf("Journal ready at %s (%d trades)\n", app.Store.Path(), n)
			return nil
		},
	}
}

// flagName turns a field name into its command-line flag.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Long: `Record one trade. Every field has its own flag; numeric flags left
out or empty count as zero. The profit/loss is computed from the prices.`,
		Example: `  journal add --symbol CU --direction long --open-price 68000 --close-price 68100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := make(map[string]string, len(models.InputFields))
			for _, field := range models.InputFields {
				if f := cmd.Flags().Lookup(flagName(field)); f != nil && f.Changed {
					raw[field] = f.Value.String()
				}
			}

			in, err := models.ParseFields(raw)
			if err != nil {
				return err
			}
			res, err := app.Journal.Insert(cmd.Context(), in)
			if err != nil {
				return err
			}
			app.Logger.Debug("Trade added", zap.Int64("id", res.ID))

			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Encode(res)
			}
			output.Printf("Recorded trade #%d  P&L %s\n", res.ID, FormatPnL(res.ProfitLoss))
			return nil
		},
	}

	for _, field := range models.InputFields {
		cmd.Flags().String(flagName(field), "", strings.ReplaceAll(field, "_", " "))
	}
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				trades []models.TradeRecord
				err    error
			)
			if cmd.Flags().Changed("symbol") {
				symbol, _ := cmd.Flags().GetString("symbol")
				trades, err = app.Journal.ListBySymbol(cmd.Context(), symbol)
			} else {
				trades, err = app.Journal.ListAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				if trades == nil {
					trades = []models.TradeRecord{}
				}
				return output.Encode(trades)
			}
			if len(trades) == 0 {
				output.Println("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "DIRECTION", "OPENED", "CLOSED", "OPEN", "CLOSE", "P&L")
			for _, t := range trades {
				table.AddRow(
					strconv.FormatInt(t.ID, 10),
					orDash(t.Symbol),
					orDash(t.Direction),
					orDash(t.OpenTime),
					orDash(t.CloseTime),
					FormatMoney(t.OpenPrice),
					FormatMoney(t.ClosePrice),
					FormatPnL(t.ProfitLoss),
				)
			}
			return table.Render()
		},
	}
	cmd.Flags().String("symbol", "", "only trades of this symbol (exact match)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trade id %q", args[0])
			}
			trade, err := app.Journal.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Encode(trade)
			}

			// Walk the JSON form so every column prints in table order.
			b, err := json.Marshal(trade)
			if err != nil {
				return err
			}
			var fields map[string]interface{}
			if err := json.Unmarshal(b, &fields); err != nil {
				return err
			}
			table := NewTable(output, "FIELD", "VALUE")
			for _, col := range database.Columns {
				table.AddRow(col, orDash(fmt.Sprint(fields[col])))
			}
			return table.Render()
		},
	}
}

func newSymbolsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the symbols that have trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols, err := app.Journal.DistinctSymbols(cmd.Context())
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsStructured() {
				if symbols == nil {
					symbols = []string{}
				}
				return output.Encode(symbols)
			}
			for _, s := range symbols {
				output.Println(s)
			}
			return nil
		},
	}
}
