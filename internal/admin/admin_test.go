package admin

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAdminToken(t *testing.T) {
	hash, err := HashAdminToken("s3cret")
	require.NoError(t, err)

	assert.True(t, VerifyAdminToken(hash, "s3cret"))
	assert.False(t, VerifyAdminToken(hash, "wrong"))
	assert.False(t, VerifyAdminToken("", "s3cret"))
	assert.False(t, VerifyAdminToken(hash, ""))
}

func TestLogScoreAction(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "postgres")
	defer db.Close()

	mock.ExpectExec("INSERT INTO score_audit").
		WithArgs("best", "10.0.0.1", ActionResetBestScore, 900, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = LogScoreAction(db, "best", "10.0.0.1", ActionResetBestScore, 900, map[string]interface{}{"by": "test"}, true)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScoreAuditLogs(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "postgres")
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "score_key", "ip", "action", "previous_score", "details", "success", "created_at"}).
		AddRow(1, "best", "10.0.0.1", ActionResetBestScore, 900, []byte(`{}`), true, now)
	mock.ExpectQuery("SELECT (.+) FROM score_audit").WithArgs(10, 0).WillReturnRows(rows)

	logs, err := GetScoreAuditLogs(db, 10, 0)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 900, logs[0].PreviousScore)
	assert.True(t, logs[0].Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}
