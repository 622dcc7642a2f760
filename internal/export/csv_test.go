package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"futures-review/internal/database"
	"futures-review/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	recs := []models.TradeRecord{
		{
			ID:           1,
			Symbol:       "CU",
			Direction:    "long",
			OpenCycle:    15,
			OpenEmotion:  "calm, focused",
			OpenPrice:    68000.5,
			ClosePrice:   68100.25,
			CloseCycle:   60,
			ProfitLoss:   99.75,
			CreatedAt:    time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
			ExitSignal:   "said \"done\"",
			ReducePrice1: 0,
		},
		{ID: 2, Symbol: "AL", ProfitLoss: -12},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, database.Columns, rows[0])
	for _, r := range rows {
		assert.Len(t, r, len(database.Columns))
	}

	first := rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "CU", first[1])
	assert.Equal(t, "15", first[4])
	assert.Equal(t, "calm, focused", first[12])
	assert.Equal(t, "68000.5", first[13])
	assert.Equal(t, "said \"done\"", first[22])
	assert.Equal(t, "68100.25", first[24])
	assert.Equal(t, "99.75", first[25])
	assert.Equal(t, "2024-03-02T15:00:00Z", first[26])

	assert.Equal(t, "AL", rows[2][1])
	assert.Equal(t, "-12", rows[2][25])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
