// Package export writes journal records to portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"futures-review/internal/database"
	"futures-review/internal/models"
)

// WriteCSV writes a header row with the table's column names followed by
// one row per record.
func WriteCSV(w io.Writer, records []models.TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(database.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write trade %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func row(r models.TradeRecord) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Symbol,
		r.Direction,
		r.OpenTime,
		strconv.Itoa(r.OpenCycle),
		r.OpenBoundaryMA,
		r.TargetBoundaryMA,
		r.DriveStrategy,
		r.EntryMode,
		r.EntrySignal,
		r.StopLossRule,
		r.TakeProfitRule,
		r.OpenEmotion,
		f(r.OpenPrice),
		f(r.Drawdown),
		f(r.AddPrice),
		f(r.AddPrice1),
		f(r.ReducePrice),
		f(r.ReducePrice1),
		strconv.Itoa(r.CloseCycle),
		r.CloseTime,
		r.CloseBoundaryMA,
		r.ExitSignal,
		r.CloseEmotion,
		f(r.ClosePrice),
		f(r.ProfitLoss),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
