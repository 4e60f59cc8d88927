package database

import (
	"context"
	"testing"
	"time"

	"currency_converter/internal/logger"
	"currency_converter/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS conversions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_conversions_created_at").WillReturnResult(sqlmock.NewResult(0, 0))

	db, err := newWithConn(conn, logger.Discard())
	require.NoError(t, err)

	return db, mock
}

func TestNewWithConn_CreateTablesError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS conversions").WillReturnError(assert.AnError)

	_, err = newWithConn(conn, logger.Discard())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveConversion(t *testing.T) {
	db, mock := newTestDB(t)

	conversion := &models.Conversion{
		From:   "BRL",
		To:     "USD",
		Amount: decimal.NewFromInt(100),
		Rate:   models.ConversionRate{Base: "USD", Target: "BRL", Rate: 5, UpdatedAt: "Sat, 18 Oct 2026 00:00:01 +0000"},
		Result: decimal.NewFromInt(20),
	}

	mock.ExpectExec("INSERT INTO conversions").
		WithArgs(sqlmock.AnyArg(), "BRL", "USD", "100", 5.0, "20", "Sat, 18 Oct 2026 00:00:01 +0000", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry, err := db.SaveConversion(context.Background(), conversion)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.CurrencyCode("BRL"), entry.From)
	assert.Equal(t, models.CurrencyCode("USD"), entry.To)
	assert.True(t, entry.Result.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 5.0, entry.Rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveConversion_Error(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec("INSERT INTO conversions").WillReturnError(assert.AnError)

	_, err := db.SaveConversion(context.Background(), &models.Conversion{From: "USD", To: "BRL"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestListConversions(t *testing.T) {
	db, mock := newTestDB(t)

	created := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "from_currency", "to_currency", "amount", "rate", "result", "rate_updated_at", "created_at"}).
		AddRow("b", "USD", "BRL", "10", 5.0, "50", "", created).
		AddRow("a", "BRL", "USD", "100", 5.0, "20", "T", created.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM conversions ORDER BY created_at DESC LIMIT").
		WithArgs(2).
		WillReturnRows(rows)

	entries, err := db.ListConversions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "b", entries[0].ID)
	assert.Equal(t, models.CurrencyCode("USD"), entries[0].From)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, entries[1].Result.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, created, entries[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConversionsBefore(t *testing.T) {
	db, mock := newTestDB(t)

	before := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM conversions WHERE created_at <").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := db.DeleteConversionsBefore(context.Background(), before)
	require.NoError(t, err)

	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
