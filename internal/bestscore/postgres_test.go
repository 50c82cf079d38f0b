package bestscore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestPostgresStoreLoad(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"score_key", "score", "updated_at"}).AddRow("best", 1800, time.Now())
	mock.ExpectQuery("SELECT score_key, score, updated_at FROM best_scores").WithArgs("best").WillReturnRows(rows)

	score, err := NewPostgresStore(db, "best").Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1800, score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT score_key, score, updated_at FROM best_scores").WithArgs("best").WillReturnError(sql.ErrNoRows)

	score, err := NewPostgresStore(db, "best").Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestPostgresStoreSave(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO best_scores").WithArgs("best", 2100).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresStore(db, "best").Save(context.Background(), 2100))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO best_scores").WillReturnError(errors.New("connection reset"))

	err := NewPostgresStore(db, "best").Save(context.Background(), 1)

	assert.ErrorIs(t, err, ErrPersistence)
}
