package models

import (
	"strconv"
	"strings"

	"futures-review/internal/errors"
)

// Field names accepted by ParseFields. They match the column names.
const (
	FieldSymbol           = "symbol"
	FieldDirection        = "direction"
	FieldOpenTime         = "open_time"
	FieldOpenCycle        = "open_cycle"
	FieldOpenBoundaryMA   = "open_boundary_ma"
	FieldTargetBoundaryMA = "target_boundary_ma"
	FieldDriveStrategy    = "drive_strategy"
	FieldEntryMode        = "entry_mode"
	FieldEntrySignal      = "entry_signal"
	FieldStopLossRule     = "stop_loss_rule"
	FieldTakeProfitRule   = "take_profit_rule"
	FieldOpenEmotion      = "open_emotion"
	FieldOpenPrice        = "open_price"
	FieldDrawdown         = "drawdown"
	FieldAddPrice         = "add_price"
	FieldAddPrice1        = "add_price1"
	FieldReducePrice      = "reduce_price"
	FieldReducePrice1     = "reduce_price1"
	FieldCloseCycle       = "close_cycle"
	FieldCloseTime        = "close_time"
	FieldCloseBoundaryMA  = "close_boundary_ma"
	FieldExitSignal       = "exit_signal"
	FieldCloseEmotion     = "close_emotion"
	FieldClosePrice       = "close_price"
)

// InputFields lists every field of a TradeInput in column order.
var InputFields = []string{
	FieldSymbol, FieldDirection, FieldOpenTime, FieldOpenCycle,
	FieldOpenBoundaryMA, FieldTargetBoundaryMA, FieldDriveStrategy,
	FieldEntryMode, FieldEntrySignal, FieldStopLossRule, FieldTakeProfitRule,
	FieldOpenEmotion, FieldOpenPrice, FieldDrawdown, FieldAddPrice,
	FieldAddPrice1, FieldReducePrice, FieldReducePrice1, FieldCloseCycle,
	FieldCloseTime, FieldCloseBoundaryMA, FieldExitSignal, FieldCloseEmotion,
	FieldClosePrice,
}

// ParseFields converts raw form values into a TradeInput.
//
// Numeric fields are trimmed; an empty value counts as zero, anything else
// that does not parse is rejected with a ValidationError naming the field.
// Text fields are copied as given. Unknown keys are ignored.
func ParseFields(raw map[string]string) (TradeInput, error) {
	in := TradeInput{
		Symbol:           raw[FieldSymbol],
		Direction:        raw[FieldDirection],
		OpenTime:         raw[FieldOpenTime],
		OpenBoundaryMA:   raw[FieldOpenBoundaryMA],
		TargetBoundaryMA: raw[FieldTargetBoundaryMA],
		DriveStrategy:    raw[FieldDriveStrategy],
		EntryMode:        raw[FieldEntryMode],
		EntrySignal:      raw[FieldEntrySignal],
		StopLossRule:     raw[FieldStopLossRule],
		TakeProfitRule:   raw[FieldTakeProfitRule],
		OpenEmotion:      raw[FieldOpenEmotion],
		CloseTime:        raw[FieldCloseTime],
		CloseBoundaryMA:  raw[FieldCloseBoundaryMA],
		ExitSignal:       raw[FieldExitSignal],
		CloseEmotion:     raw[FieldCloseEmotion],
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{FieldOpenCycle, &in.OpenCycle},
		{FieldCloseCycle, &in.CloseCycle},
	}
	for _, f := range ints {
		v, err := parseInt(f.name, raw[f.name])
		if err != nil {
			return TradeInput{}, err
		}
		*f.dst = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{FieldOpenPrice, &in.OpenPrice},
		{FieldDrawdown, &in.Drawdown},
		{FieldAddPrice, &in.AddPrice},
		{FieldAddPrice1, &in.AddPrice1},
		{FieldReducePrice, &in.ReducePrice},
		{FieldReducePrice1, &in.ReducePrice1},
		{FieldClosePrice, &in.ClosePrice},
	}
	for _, f := range floats {
		v, err := parseFloat(f.name, raw[f.name])
		if err != nil {
			return TradeInput{}, err
		}
		*f.dst = v
	}

	return in, nil
}

func parseInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError(field, s, "must be an integer")
	}
	return v, nil
}

func parseFloat(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewValidationError(field, s, "must be a number")
	}
	return v, nil
}
