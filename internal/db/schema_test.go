package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_RunsEveryStatement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS customers").WillReturnError(errors.New("permission denied"))

	err = Migrate(conn)
	assert.ErrorContains(t, err, "schema statement 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}
