package journal

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/kih-api/automation/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS notification_events").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(_insertEvent)).
		WithArgs("transfer_failed", "main", "<b>failed</b>", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Save(context.Background(), notify.Record{
		Kind:       "transfer_failed",
		Channel:    notify.Main,
		Message:    "<b>failed</b>",
		OccurredAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(_insertEvent)).WillReturnError(errors.New("connection refused"))

	err := s.Save(context.Background(), notify.Record{Kind: "job_started", Channel: notify.Development})
	assert.ErrorContains(t, err, "can't save job_started event")
}

func TestRecent(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"kind", "channel", "message", "occurred_at"}).
		AddRow("job_ended", "development", "done", at).
		AddRow("job_started", "development", "start", at.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(_recentEvents)).WithArgs(2).WillReturnRows(rows)

	records, err := s.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "job_ended", records[0].Kind)
	assert.Equal(t, notify.Development, records[0].Channel)
	assert.Equal(t, at, records[0].OccurredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
