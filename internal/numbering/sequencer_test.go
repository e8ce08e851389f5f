package numbering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmapi/internal/model"
)

const (
	incrementSQL = `UPDATE document_counters SET last_value = last_value \+ 1 WHERE prefix = \$1 AND year = \$2 RETURNING last_value`
	seedSQL      = `INSERT INTO document_counters \(prefix, year, last_value\) VALUES \(\$1, \$2, \$3\) ON CONFLICT \(prefix, year\) DO NOTHING`
)

func lastNumberSQL(table string) string {
	return `SELECT number FROM ` + table + ` WHERE number LIKE \$1 ORDER BY length\(number\) DESC, number DESC LIMIT 1`
}

var march2025 = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*Sequencer, sqlmock.Sqlmock, func() DBTX) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSequencer(time.UTC), mock, func() DBTX { return db }
}

func TestSequencer_Next_ExistingCounter(t *testing.T) {
	seq, mock, q := newMock(t)

	mock.ExpectQuery(incrementSQL).
		WithArgs("P", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(2))

	got, err := seq.Next(context.Background(), q(), model.DocumentQuote, march2025)

	require.NoError(t, err)
	assert.Equal(t, "P2025-0002", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_FirstOfSeries(t *testing.T) {
	seq, mock, q := newMock(t)

	mock.ExpectQuery(incrementSQL).WithArgs("P", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}))
	mock.ExpectQuery(lastNumberSQL("quotes")).WithArgs("P2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"number"}))
	mock.ExpectExec(seedSQL).WithArgs("P", 2025, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(incrementSQL).WithArgs("P", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))

	got, err := seq.Next(context.Background(), q(), model.DocumentQuote, march2025)

	require.NoError(t, err)
	assert.Equal(t, "P2025-0001", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_SeedsFromStoredNumbers(t *testing.T) {
	seq, mock, q := newMock(t)

	mock.ExpectQuery(incrementSQL).WithArgs("OV", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}))
	mock.ExpectQuery(lastNumberSQL("sales_orders")).WithArgs("OV2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow("OV2025-10000"))
	mock.ExpectExec(seedSQL).WithArgs("OV", 2025, 10000).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(incrementSQL).WithArgs("OV", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(10001))

	got, err := seq.Next(context.Background(), q(), model.DocumentSalesOrder, march2025)

	require.NoError(t, err)
	assert.Equal(t, "OV2025-10001", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_MalformedStoredNumber(t *testing.T) {
	seq, mock, q := newMock(t)

	mock.ExpectQuery(incrementSQL).WithArgs("SC", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}))
	mock.ExpectQuery(lastNumberSQL("service_contracts")).WithArgs("SC2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow("SC2025-final"))

	got, err := seq.Next(context.Background(), q(), model.DocumentServiceContract, march2025)

	assert.ErrorIs(t, err, ErrMalformedNumber)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_NewYearStartsOver(t *testing.T) {
	seq, mock, q := newMock(t)
	jan2026 := time.Date(2026, time.January, 1, 0, 0, 1, 0, time.UTC)

	mock.ExpectQuery(incrementSQL).WithArgs("P", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}))
	mock.ExpectQuery(lastNumberSQL("quotes")).WithArgs("P2026-%").
		WillReturnRows(sqlmock.NewRows([]string{"number"}))
	mock.ExpectExec(seedSQL).WithArgs("P", 2026, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(incrementSQL).WithArgs("P", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))

	got, err := seq.Next(context.Background(), q(), model.DocumentQuote, jan2026)

	require.NoError(t, err)
	assert.Equal(t, "P2026-0001", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_YearInConfiguredLocation(t *testing.T) {
	cet := time.FixedZone("CET", 60*60)
	// 00:30 on New Year's Day in CET, still 2025 in UTC.
	newYearUTC := time.Date(2025, time.December, 31, 23, 30, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(incrementSQL).WithArgs("P", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))
	mock.ExpectQuery(incrementSQL).WithArgs("P", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))

	got, err := NewSequencer(cet).Next(context.Background(), db, model.DocumentQuote, newYearUTC)
	require.NoError(t, err)
	assert.Equal(t, "P2026-0001", got)

	got, err = NewSequencer(time.UTC).Next(context.Background(), db, model.DocumentQuote, newYearUTC)
	require.NoError(t, err)
	assert.Equal(t, "P2025-0042", got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_SequentialCallsAreGapless(t *testing.T) {
	seq, mock, q := newMock(t)

	for i := 1; i <= 3; i++ {
		mock.ExpectQuery(incrementSQL).WithArgs("P", 2025).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(i))
	}

	var got []string
	for i := 0; i < 3; i++ {
		n, err := seq.Next(context.Background(), q(), model.DocumentQuote, march2025)
		require.NoError(t, err)
		got = append(got, n)
	}

	assert.Equal(t, []string{"P2025-0001", "P2025-0002", "P2025-0003"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_InsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(incrementSQL).WithArgs("SC", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(5))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	got, err := NewSequencer(nil).Next(context.Background(), tx, model.DocumentServiceContract, march2025)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "SC2025-0005", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_DatabaseError(t *testing.T) {
	seq, mock, q := newMock(t)

	mock.ExpectQuery(incrementSQL).WithArgs("P", 2025).
		WillReturnError(errors.New("connection reset"))

	_, err := seq.Next(context.Background(), q(), model.DocumentQuote, march2025)

	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencer_Next_UnknownType(t *testing.T) {
	seq, _, q := newMock(t)

	_, err := seq.Next(context.Background(), q(), "invoice", march2025)

	assert.ErrorIs(t, err, ErrUnknownDocumentType)
}
