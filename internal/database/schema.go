package database

// Schema is the trades table as laid out in existing futures_review.db files.
// Column order and types must not change.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	open_time TEXT NOT NULL,
	open_cycle INTEGER NOT NULL,
	open_boundary_ma TEXT NOT NULL,
	target_boundary_ma TEXT NOT NULL,
	drive_strategy TEXT NOT NULL,
	entry_mode TEXT NOT NULL,
	entry_signal TEXT NOT NULL,
	stop_loss_rule TEXT NOT NULL,
	take_profit_rule TEXT NOT NULL,
	open_emotion TEXT NOT NULL,
	open_price REAL NOT NULL,
	drawdown REAL NOT NULL,
	add_price REAL NOT NULL,
	add_price1 REAL NOT NULL,
	reduce_price REAL NOT NULL,
	reduce_price1 REAL NOT NULL,
	close_cycle INTEGER NOT NULL,
	close_time TEXT NOT NULL,
	close_boundary_ma TEXT NOT NULL,
	exit_signal TEXT NOT NULL,
	close_emotion TEXT NOT NULL,
	close_price REAL NOT NULL,
	profit_loss REAL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Columns lists the trades columns in table order.
var Columns = []string{
	"id", "symbol", "direction", "open_time", "open_cycle", "open_boundary_ma",
	"target_boundary_ma", "drive_strategy", "entry_mode", "entry_signal",
	"stop_loss_rule", "take_profit_rule", "open_emotion", "open_price",
	"drawdown", "add_price", "add_price1", "reduce_price", "reduce_price1",
	"close_cycle", "close_time", "close_boundary_ma", "exit_signal",
	"close_emotion", "close_price", "profit_loss", "created_at",
}
