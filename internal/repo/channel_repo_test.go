package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRepo_CreateAndList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewChannelRepo(mock)

	mock.ExpectQuery("INSERT INTO channels").
		WithArgs(int64(100), "@news", "News").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	// Дубликат external_id допустим.
	mock.ExpectQuery("INSERT INTO channels").
		WithArgs(int64(100), "@news", "News again").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))

	created := time.Now()
	mock.ExpectQuery("FROM channels").
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "external_id", "title", "created_at"}).
			AddRow(int64(1), int64(100), "@news", "News", created).
			AddRow(int64(2), int64(100), "@news", "News again", created))

	id1, err := repo.Create(context.Background(), 100, "@news", "News")
	require.NoError(t, err)
	id2, err := repo.Create(context.Background(), 100, "@news", "News again")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	channels, err := repo.ListByOwner(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "@news", channels[1].ExternalID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM channels").
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewChannelRepo(mock).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStyleRepo_SampleAndClear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStyleRepo(mock)

	mock.ExpectQuery("ORDER BY RANDOM").
		WithArgs(int64(1), 7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "channel_id", "body"}).
			AddRow(int64(10), int64(1), "sample"))
	mock.ExpectExec("DELETE FROM style_examples").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	examples, err := repo.Sample(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "sample", examples[0].Body)

	n, err := repo.Clear(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
