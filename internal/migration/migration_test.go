package migration

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockDatabase builds a sqlx handle on top of a mock database.
func createMockDatabase(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return sqlx.NewDb(sqlDB, "mysql"), mock
}

// TestRun executes a script with two statements, one of them spanning several lines.
func TestRun(t *testing.T) {
	db, mock := createMockDatabase(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE friends \\( position INT \\);").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE old_friends;").
		WillReturnResult(sqlmock.NewResult(0, 0))

	executed, err := Run(db, strings.NewReader("CREATE TABLE friends (\nposition INT\n);\nDROP TABLE old_friends;\n"))
	assert.NoError(t, err)
	assert.Equal(t, 2, executed)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestRunFailingStatement expects that execution stops at the first failing statement.
func TestRunFailingStatement(t *testing.T) {
	db, mock := createMockDatabase(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO friends").
		WillReturnError(errors.New("duplicate key"))

	executed, err := Run(db, strings.NewReader("INSERT INTO friends VALUES (1);\nINSERT INTO friends VALUES (2);\n"))
	assert.ErrorContains(t, err, "duplicate key")
	assert.Equal(t, 0, executed)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestRunTrailingTextIgnored expects that text after the last semicolon is not executed.
func TestRunTrailingTextIgnored(t *testing.T) {
	db, mock := createMockDatabase(t)
	defer db.Close()

	executed, err := Run(db, strings.NewReader("-- nothing to do\n"))
	assert.NoError(t, err)
	assert.Equal(t, 0, executed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema(t *testing.T) {
	for _, driver := range []string{"mysql", "sqlite"} {
		script, err := Schema(driver)
		require.NoError(t, err, driver)
		data, err := io.ReadAll(script)
		require.NoError(t, err)
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS friends", driver)
		assert.Contains(t, string(data), "birthday_month", driver)
	}

	_, err := Schema("postgres")
	assert.Error(t, err)
}
