package grading

import (
	"context"
	"errors"
	"testing"
	"time"

	"sqltester/internal/common"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunnerFixture(t *testing.T, timeout time.Duration, maxRows int) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunner(sqlx.NewDb(db, "sqlmock"), timeout, maxRows), mock
}

func TestRunRendersRows(t *testing.T) {
	runner, mock := newRunnerFixture(t, time.Second, 100)

	mock.ExpectQuery("SELECT id, name, active, note FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active", "note"}).
			AddRow(int64(1), "Ada", true, []byte("first")).
			AddRow(int64(2), "Lin", false, nil))

	got, err := runner.Run(context.Background(), "SELECT id, name, active, note FROM customers;")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "Ada", "true", "first"},
		{"2", "Lin", "false", ""}, // NULL renders as empty string
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCapsResultRows(t *testing.T) {
	runner, mock := newRunnerFixture(t, time.Second, 2)

	mock.ExpectQuery("SELECT id FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3)))

	_, err := runner.Run(context.Background(), "SELECT id FROM orders")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueryRejected), "want ErrQueryRejected, got %v", err)
	assert.Contains(t, err.Error(), "exceeds 2 rows")
}

func TestRunExecutionError(t *testing.T) {
	runner, mock := newRunnerFixture(t, time.Second, 100)

	mock.ExpectQuery("SELECT id FROM nope").
		WillReturnError(errors.New(`relation "nope" does not exist`))

	_, err := runner.Run(context.Background(), "SELECT id FROM nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueryExecution), "want ErrQueryExecution, got %v", err)
	assert.Contains(t, err.Error(), `relation "nope" does not exist`)
}

func TestRunQueryTimeout(t *testing.T) {
	runner, mock := newRunnerFixture(t, 20*time.Millisecond, 100)

	mock.ExpectQuery("SELECT pg_sleep(10)").
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"pg_sleep"}).AddRow(""))

	_, err := runner.Run(context.Background(), "SELECT pg_sleep(10)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueryExecution), "want ErrQueryExecution, got %v", err)
	assert.Contains(t, err.Error(), context.DeadlineExceeded.Error())
}

func TestRunRejectsBeforeExecution(t *testing.T) {
	runner, mock := newRunnerFixture(t, time.Second, 100)

	_, err := runner.Run(context.Background(), "DROP TABLE orders")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueryRejected), "want ErrQueryRejected, got %v", err)
	// No expectations were registered; a rejected query never reaches
	// the pool.
	assert.NoError(t, mock.ExpectationsWereMet())
}
