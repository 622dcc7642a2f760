package store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"futures-review/internal/database"
	"futures-review/internal/errors"
	"futures-review/internal/models"
	"futures-review/internal/pnl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupStore creates an initialized store on a fresh file. Each operation
// reconnects, so an in-memory database would not survive between calls.
func setupStore(t *testing.T) *Store {
	s := New(filepath.Join(t.TempDir(), database.DefaultPath), zap.NewNop())
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func sampleInput(symbol string) models.TradeInput {
	return models.TradeInput{
		Symbol:           symbol,
		Direction:        "long",
		OpenTime:         "2024-03-01 09:05",
		OpenCycle:        15,
		OpenBoundaryMA:   "MA20",
		TargetBoundaryMA: "MA60",
		DriveStrategy:    "trend follow",
		EntryMode:        "pullback",
		EntrySignal:      "pin bar",
		StopLossRule:     "below swing low",
		TakeProfitRule:   "MA60 touch",
		OpenEmotion:      "calm",
		OpenPrice:        68000.456,
		Drawdown:         150.5,
		AddPrice:         68100,
		AddPrice1:        0,
		ReducePrice:      68400.111,
		ReducePrice1:     0,
		CloseCycle:       60,
		CloseTime:        "2024-03-02 14:55",
		CloseBoundaryMA:  "MA60",
		ExitSignal:       "target",
		CloseEmotion:     "relieved",
		ClosePrice:       68900.999,
	}
}

func TestInsertAndGet_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	fixed := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	in := sampleInput("CU")
	res, err := s.Insert(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, pnl.ComputeInput(in), res.ProfitLoss)

	rec, err := s.Get(ctx, res.ID)
	require.NoError(t, err)

	assert.Equal(t, res.ID, rec.ID)
	assert.Equal(t, res.ProfitLoss, rec.ProfitLoss)
	assert.True(t, fixed.Equal(rec.CreatedAt), "created_at %v", rec.CreatedAt)

	// Everything the caller supplied comes back unchanged.
	rec.ID, rec.ProfitLoss, rec.CreatedAt = 0, 0, time.Time{}
	assert.Equal(t, in.Record(), rec)
}

func TestInsert_AssignsIncreasingIDs(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	var last int64
	for _, sym := range []string{"CU", "AL", "CU", "RB"} {
		res, err := s.Insert(ctx, sampleInput(sym))
		require.NoError(t, err)
		assert.Greater(t, res.ID, last)
		last = res.ID
	}
}

func TestInsert_EmptyNumericFieldsStoreZero(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	in, err := models.ParseFields(map[string]string{
		models.FieldSymbol:     "AL",
		models.FieldOpenPrice:  "19000",
		models.FieldAddPrice:   "",
		models.FieldClosePrice: "19100",
	})
	require.NoError(t, err)

	res, err := s.Insert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.ProfitLoss)

	rec, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.AddPrice)
	assert.Equal(t, 0.0, rec.Drawdown)
	assert.Equal(t, 0, rec.OpenCycle)
}

func TestInsert_ValidationLeavesStoreUntouched(t *testing.T) {
	testCases := []struct {
		name  string
		in    models.TradeInput
		field string
	}{
		{name: "NaN price", in: models.TradeInput{Symbol: "CU", ClosePrice: math.NaN()}, field: models.FieldClosePrice},
		{name: "Infinite add price", in: models.TradeInput{Symbol: "CU", AddPrice1: math.Inf(1)}, field: models.FieldAddPrice1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := setupStore(t)
			ctx := context.Background()

			_, err := s.Insert(ctx, tc.in)
			require.Error(t, err)

			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.False(t, errors.IsStorage(err))

			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestInsert_FreeFormInputIsStored(t *testing.T) {
	testCases := []struct {
		name string
		in   models.TradeInput
	}{
		{name: "Missing symbol", in: models.TradeInput{OpenPrice: 100, ClosePrice: 110}},
		{name: "Blank symbol", in: models.TradeInput{Symbol: "   ", OpenPrice: 1}},
		{name: "Negative open cycle", in: models.TradeInput{Symbol: "CU", OpenCycle: -1}},
		{name: "Negative close cycle", in: models.TradeInput{Symbol: "CU", CloseCycle: -5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := setupStore(t)
			ctx := context.Background()

			res, err := s.Insert(ctx, tc.in)
			require.NoError(t, err)
			assert.Equal(t, pnl.ComputeInput(tc.in), res.ProfitLoss)

			rec, err := s.Get(ctx, res.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.in.Symbol, rec.Symbol)
			assert.Equal(t, tc.in.OpenCycle, rec.OpenCycle)
			assert.Equal(t, tc.in.CloseCycle, rec.CloseCycle)

			recs, err := s.ListBySymbol(ctx, tc.in.Symbol)
			require.NoError(t, err)
			assert.Len(t, recs, 1)
		})
	}
}

func TestListAll_OrderedByID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, sym := range []string{"ZN", "AL", "CU"} {
		_, err := s.Insert(ctx, sampleInput(sym))
		require.NoError(t, err)
	}

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "ZN", recs[0].Symbol)
	assert.Equal(t, "AL", recs[1].Symbol)
	assert.Equal(t, "CU", recs[2].Symbol)
	assert.Less(t, recs[0].ID, recs[1].ID)
	assert.Less(t, recs[1].ID, recs[2].ID)
}

func TestListBySymbol_ExactMatch(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, sym := range []string{"CU", "cu", "CU ", "AL", "CU"} {
		_, err := s.Insert(ctx, sampleInput(sym))
		require.NoError(t, err)
	}

	recs, err := s.ListBySymbol(ctx, "CU")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].ID)
	assert.Equal(t, int64(5), recs[1].ID)

	recs, err = s.ListBySymbol(ctx, "NI")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDistinctSymbols(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	symbols, err := s.DistinctSymbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	for _, sym := range []string{"CU", "AL", "CU"} {
		_, err := s.Insert(ctx, sampleInput(sym))
		require.NoError(t, err)
	}

	symbols, err = s.DistinctSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AL", "CU"}, symbols)
}

func TestInitialize_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, sampleInput("CU"))
	require.NoError(t, err)

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CU", recs[0].Symbol)
}

func TestGet_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTradeNotFound))
	assert.True(t, errors.IsStorage(err))
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Unreachable file", func(t *testing.T) {
		s := New(filepath.Join(t.TempDir(), "missing", "journal.db"), zap.NewNop())

		err := s.Initialize(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsStorage(err))

		_, err = s.Insert(ctx, sampleInput("CU"))
		assert.True(t, errors.IsStorage(err))
	})

	t.Run("Schema never created", func(t *testing.T) {
		s := New(filepath.Join(t.TempDir(), "journal.db"), zap.NewNop())

		_, err := s.ListAll(ctx)
		require.Error(t, err)

		var se *errors.StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "list_all", se.Op)
	})
}

func TestReadsLegacyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), database.DefaultPath)
	s := New(path, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	// A row written with plain SQL, leaving created_at to the
	// column default.
	db, err := database.Open(path)
	require.NoError(t, err)
	err = db.Exec(`INSERT INTO trades (
		symbol, direction, open_time, open_cycle, open_boundary_ma, target_boundary_ma,
		drive_strategy, entry_mode, entry_signal, stop_loss_rule, take_profit_rule,
		open_emotion, open_price, drawdown, add_price, add_price1, reduce_price, reduce_price1,
		close_cycle, close_time, close_boundary_ma, exit_signal, close_emotion, close_price, profit_loss
	) VALUES ('SR', 'short', '', 5, '', '', '', '', '', '', '', '', 6000, 0, 0, 0, 0, 0, 5, '', '', '', '', 5900, -100)`).Error
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	recs, err := s.ListBySymbol(ctx, "SR")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, -100.0, recs[0].ProfitLoss)
	assert.False(t, recs[0].CreatedAt.IsZero())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
