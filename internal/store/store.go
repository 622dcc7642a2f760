// Package store persists trade journal records in the local SQLite file.
//
// A Store keeps no open connection. Every operation opens the file, runs,
// and closes it again on every exit path. Several processes writing the same
// file at once are only coordinated by SQLite's own locking.
package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"futures-review/internal/database"
	"futures-review/internal/errors"
	"futures-review/internal/models"
	"futures-review/internal/pnl"
	"futures-review/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the trade record store backed by a single database file.
type Store struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// New creates a store for the database file at path.
func New(path string, logger *zap.Logger) *Store {
	if path == "" {
		path = database.DefaultPath
	}
	return &Store{
		path:   path,
		logger: logger.Named("store"),
		now:    time.Now,
	}
}

// Path returns the database file the store operates on.
func (s *Store) Path() string {
	return s.path
}

// withDB acquires a handle for the duration of fn and always releases it.
func (s *Store) withDB(ctx context.Context, op string, fn func(db *gorm.DB) error) (err error) {
	ctx, span := tracing.Start(ctx, "store."+op, attribute.String("db.path", s.path))
	defer func() { tracing.End(span, err) }()

	db, err := database.Open(s.path)
	if err != nil {
		return errors.NewStorageError(op, err)
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil && err == nil {
			err = errors.NewStorageError(op, cerr)
		}
	}()

	if err := fn(db.WithContext(ctx)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewStorageError(op, errors.ErrTradeNotFound)
		}
		return errors.NewStorageError(op, err)
	}
	return nil
}

// Initialize makes sure the trades table exists. It is safe to call on
// every startup and never touches existing rows.
func (s *Store) Initialize(ctx context.Context) error {
	err := s.withDB(ctx, "initialize", func(db *gorm.DB) error {
		return database.EnsureSchema(db)
	})
	if err != nil {
		s.logger.Error("Failed to initialize schema", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.logger.Debug("Schema ready", zap.String("path", s.path))
	return nil
}

// Insert validates the input, computes its profit/loss and stores it as a
// new record. Nothing is written when validation fails.
func (s *Store) Insert(ctx context.Context, in models.TradeInput) (models.InsertResult, error) {
	if err := Validate(in); err != nil {
		return models.InsertResult{}, err
	}

	rec := in.Record()
	rec.ProfitLoss = pnl.ComputeInput(in)
	rec.CreatedAt = s.now().UTC()

	err := s.withDB(ctx, "insert", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&rec).Error
		})
	})
	if err != nil {
		s.logger.Error("Failed to insert trade", zap.String("symbol", in.Symbol), zap.Error(err))
		return models.InsertResult{}, err
	}

	s.logger.Info("Trade recorded",
		zap.Int64("id", rec.ID),
		zap.String("symbol", rec.Symbol),
		zap.Float64("profit_loss", rec.ProfitLoss),
	)
	return models.InsertResult{ID: rec.ID, ProfitLoss: rec.ProfitLoss}, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id int64) (models.TradeRecord, error) {
	var rec models.TradeRecord
	err := s.withDB(ctx, "get", func(db *gorm.DB) error {
		return db.First(&rec, "id = ?", id).Error
	})
	if err != nil {
		return models.TradeRecord{}, err
	}
	return rec, nil
}

// ListAll returns every record ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]models.TradeRecord, error) {
	var recs []models.TradeRecord
	err := s.withDB(ctx, "list_all", func(db *gorm.DB) error {
		return db.Order("id ASC").Find(&recs).Error
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ListBySymbol returns the records whose symbol equals symbol exactly,
// ordered by id.
func (s *Store) ListBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error) {
	var recs []models.TradeRecord
	err := s.withDB(ctx, "list_by_symbol", func(db *gorm.DB) error {
		return db.Where("symbol = ?", symbol).Order("id ASC").Find(&recs).Error
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// DistinctSymbols returns each stored symbol once, sorted ascending.
func (s *Store) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := s.withDB(ctx, "distinct_symbols", func(db *gorm.DB) error {
		return db.Model(&models.TradeRecord{}).
			Distinct("symbol").
			Order("symbol ASC").
			Pluck("symbol", &symbols).Error
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.withDB(ctx, "count", func(db *gorm.DB) error {
		return db.Model(&models.TradeRecord{}).Count(&n).Error
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Validate rejects input the store refuses to persist. Text fields are
// free-form and may be empty; cycles take any integer. Only prices that
// are not finite numbers are refused.
func Validate(in models.TradeInput) error {
	prices := []struct {
		name string
		v    float64
	}{
		{models.FieldOpenPrice, in.OpenPrice},
		{models.FieldDrawdown, in.Drawdown},
		{models.FieldAddPrice, in.AddPrice},
		{models.FieldAddPrice1, in.AddPrice1},
		{models.FieldReducePrice, in.ReducePrice},
		{models.FieldReducePrice1, in.ReducePrice1},
		{models.FieldClosePrice, in.ClosePrice},
	}
	for _, p := range prices {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return errors.NewValidationError(p.name, fmt.Sprint(p.v), "must be a finite number")
		}
	}
	return nil
}
