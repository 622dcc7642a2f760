package models

import "time"

// TradeRecord is one journaled futures trade as stored in the trades table.
// Field order follows the on-disk column order.
type TradeRecord struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" yaml:"id"`
	Symbol           string    `gorm:"column:symbol" json:"symbol" yaml:"symbol"`
	Direction        string    `gorm:"column:direction" json:"direction" yaml:"direction"`
	OpenTime         string    `gorm:"column:open_time" json:"open_time" yaml:"open_time"`
	OpenCycle        int       `gorm:"column:open_cycle" json:"open_cycle" yaml:"open_cycle"`
	OpenBoundaryMA   string    `gorm:"column:open_boundary_ma" json:"open_boundary_ma" yaml:"open_boundary_ma"`
	TargetBoundaryMA string    `gorm:"column:target_boundary_ma" json:"target_boundary_ma" yaml:"target_boundary_ma"`
	DriveStrategy    string    `gorm:"column:drive_strategy" json:"drive_strategy" yaml:"drive_strategy"`
	EntryMode        string    `gorm:"column:entry_mode" json:"entry_mode" yaml:"entry_mode"`
	EntrySignal      string    `gorm:"column:entry_signal" json:"entry_signal" yaml:"entry_signal"`
	StopLossRule     string    `gorm:"column:stop_loss_rule" json:"stop_loss_rule" yaml:"stop_loss_rule"`
	TakeProfitRule   string    `gorm:"column:take_profit_rule" json:"take_profit_rule" yaml:"take_profit_rule"`
	OpenEmotion      string    `gorm:"column:open_emotion" json:"open_emotion" yaml:"open_emotion"`
	OpenPrice        float64   `gorm:"column:open_price" json:"open_price" yaml:"open_price"`
	Drawdown         float64   `gorm:"column:drawdown" json:"drawdown" yaml:"drawdown"`
	AddPrice         float64   `gorm:"column:add_price" json:"add_price" yaml:"add_price"`
	AddPrice1        float64   `gorm:"column:add_price1" json:"add_price1" yaml:"add_price1"`
	ReducePrice      float64   `gorm:"column:reduce_price" json:"reduce_price" yaml:"reduce_price"`
	ReducePrice1     float64   `gorm:"column:reduce_price1" json:"reduce_price1" yaml:"reduce_price1"`
	CloseCycle       int       `gorm:"column:close_cycle" json:"close_cycle" yaml:"close_cycle"`
	CloseTime        string    `gorm:"column:close_time" json:"close_time" yaml:"close_time"`
	CloseBoundaryMA  string    `gorm:"column:close_boundary_ma" json:"close_boundary_ma" yaml:"close_boundary_ma"`
	ExitSignal       string    `gorm:"column:exit_signal" json:"exit_signal" yaml:"exit_signal"`
	CloseEmotion     string    `gorm:"column:close_emotion" json:"close_emotion" yaml:"close_emotion"`
	ClosePrice       float64   `gorm:"column:close_price" json:"close_price" yaml:"close_price"`
	ProfitLoss       float64   `gorm:"column:profit_loss" json:"profit_loss" yaml:"profit_loss"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at" yaml:"created_at"`
}

// TableName pins the table name shared with existing journal files.
func (TradeRecord) TableName() string {
	return "trades"
}

// TradeInput carries the already-parsed values a caller supplies for a new
// trade. The store assigns the id, the profit/loss and the creation time.
type TradeInput struct {
	Symbol           string  `json:"symbol" yaml:"symbol"`
	Direction        string  `json:"direction" yaml:"direction"`
	OpenTime         string  `json:"open_time" yaml:"open_time"`
	OpenCycle        int     `json:"open_cycle" yaml:"open_cycle"`
	OpenBoundaryMA   string  `json:"open_boundary_ma" yaml:"open_boundary_ma"`
	TargetBoundaryMA string  `json:"target_boundary_ma" yaml:"target_boundary_ma"`
	DriveStrategy    string  `json:"drive_strategy" yaml:"drive_strategy"`
	EntryMode        string  `json:"entry_mode" yaml:"entry_mode"`
	EntrySignal      string  `json:"entry_signal" yaml:"entry_signal"`
	StopLossRule     string  `json:"stop_loss_rule" yaml:"stop_loss_rule"`
	TakeProfitRule   string  `json:"take_profit_rule" yaml:"take_profit_rule"`
	OpenEmotion      string  `json:"open_emotion" yaml:"open_emotion"`
	OpenPrice        float64 `json:"open_price" yaml:"open_price"`
	Drawdown         float64 `json:"drawdown" yaml:"drawdown"`
	AddPrice         float64 `json:"add_price" yaml:"add_price"`
	AddPrice1        float64 `json:"add_price1" yaml:"add_price1"`
	ReducePrice      float64 `json:"reduce_price" yaml:"reduce_price"`
	ReducePrice1     float64 `json:"reduce_price1" yaml:"reduce_price1"`
	CloseCycle       int     `json:"close_cycle" yaml:"close_cycle"`
	CloseTime        string  `json:"close_time" yaml:"close_time"`
	CloseBoundaryMA  string  `json:"close_boundary_ma" yaml:"close_boundary_ma"`
	ExitSignal       string  `json:"exit_signal" yaml:"exit_signal"`
	CloseEmotion     string  `json:"close_emotion" yaml:"close_emotion"`
	ClosePrice       float64 `json:"close_price" yaml:"close_price"`
}

// Record copies the input into a TradeRecord without id, P&L or timestamp.
func (in TradeInput) Record() TradeRecord {
	return TradeRecord{
		Symbol:           in.Symbol,
		Direction:        in.Direction,
		OpenTime:         in.OpenTime,
		OpenCycle:        in.OpenCycle,
		OpenBoundaryMA:   in.OpenBoundaryMA,
		TargetBoundaryMA: in.TargetBoundaryMA,
		DriveStrategy:    in.DriveStrategy,
		EntryMode:        in.EntryMode,
		EntrySignal:      in.EntrySignal,
		StopLossRule:     in.StopLossRule,
		TakeProfitRule:   in.TakeProfitRule,
		OpenEmotion:      in.OpenEmotion,
		OpenPrice:        in.OpenPrice,
		Drawdown:         in.Drawdown,
		AddPrice:         in.AddPrice,
		AddPrice1:        in.AddPrice1,
		ReducePrice:      in.ReducePrice,
		ReducePrice1:     in.ReducePrice1,
		CloseCycle:       in.CloseCycle,
		CloseTime:        in.CloseTime,
		CloseBoundaryMA:  in.CloseBoundaryMA,
		ExitSignal:       in.ExitSignal,
		CloseEmotion:     in.CloseEmotion,
		ClosePrice:       in.ClosePrice,
	}
}

// InsertResult is what the store reports back after a successful insert.
type InsertResult struct {
	ID         int64   `json:"id" yaml:"id"`
	ProfitLoss float64 `json:"profit_loss" yaml:"profit_loss"`
}
