package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAdvisoryLock(t *testing.T) {
	tests := []struct {
		name string
		got  bool
	}{
		{"acquired", true},
		{"held by another session", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("pg_try_advisory_lock").
				WithArgs(DispatcherLockKey).
				WillReturnRows(pgxmock.NewRows([]string{"ok"}).AddRow(tt.got))

			ok, err := tryAdvisoryLock(context.Background(), mock, DispatcherLockKey)
			require.NoError(t, err)
			assert.Equal(t, tt.got, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTryAdvisoryLock_StorageError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("pg_try_advisory_lock").
		WithArgs(DispatcherLockKey).
		WillReturnError(errors.New("connection reset"))

	_, err = tryAdvisoryLock(context.Background(), mock, DispatcherLockKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestWatchSession_LostConnection(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection reset"))

	err = watchSession(context.Background(), mock, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrLeadershipLost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchSession_StopsOnCancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, watchSession(ctx, mock, time.Hour))
}
