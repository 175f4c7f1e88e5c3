package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

var postColumns = []string{"id", "channel_id", "body", "media_id", "media_kind", "publish_at", "published"}

func newPostRepo(t *testing.T) (*PostRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostRepo(mock, time.UTC), mock
}

func TestPostRepo_Schedule(t *testing.T) {
	repo, mock := newPostRepo(t)

	publishAt := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	mediaID, kind := "file-1", "photo"

	mock.ExpectQuery("INSERT INTO scheduled_posts").
		WithArgs(int64(7), "hello", &mediaID, &kind, publishAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Schedule(context.Background(), 7, "hello", publishAt,
		&domain.Media{ID: "file-1", Kind: domain.MediaKindPhoto})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Schedule_StorageError(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("INSERT INTO scheduled_posts").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Schedule(context.Background(), 7, "hello", time.Now(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostRepo_ListDue(t *testing.T) {
	repo, mock := newPostRepo(t)

	due := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	mediaID, kind := "vid-1", "video"
	rows := pgxmock.NewRows(append(postColumns, "external_id")).
		AddRow(int64(1), int64(7), "text only", nil, nil, due, false, "@chan").
		AddRow(int64(2), int64(7), "with video", &mediaID, &kind, due, false, "@chan")

	now := time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM scheduled_posts p").
		WithArgs(now).
		WillReturnRows(rows)

	posts, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(1), posts[0].ID)
	assert.Nil(t, posts[0].Media)
	assert.Equal(t, "@chan", posts[0].ChannelExternalID)

	require.NotNil(t, posts[1].Media)
	assert.Equal(t, domain.MediaKindVideo, posts[1].Media.Kind)
	assert.Equal(t, "vid-1", posts[1].Media.ID)
	assert.True(t, posts[1].PublishAt.Equal(due))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_MarkPublished_Idempotent(t *testing.T) {
	repo, mock := newPostRepo(t)

	// Первый вызов меняет строку, второй — уже нет, но это не ошибка.
	mock.ExpectExec("UPDATE scheduled_posts").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE scheduled_posts").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.MarkPublished(context.Background(), 5))
	require.NoError(t, repo.MarkPublished(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_LastPendingPublishTime(t *testing.T) {
	repo, mock := newPostRepo(t)

	last := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT MAX").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(&last))

	got, ok, err := repo.LastPendingPublishTime(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(last))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_LastPendingPublishTime_Empty(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("SELECT MAX").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(nil))

	_, ok, err := repo.LastPendingPublishTime(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostRepo_LastPendingPublishTime_ErrorIsNotEmpty(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("SELECT MAX").
		WithArgs(int64(7)).
		WillReturnError(errors.New("i/o timeout"))

	_, ok, err := repo.LastPendingPublishTime(context.Background(), 7)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("FROM scheduled_posts").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepo_Delete_MissingIsNoop(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectExec("DELETE FROM scheduled_posts").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), 99))
}

func TestPostRepo_UpdateText_NotFound(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectExec("UPDATE scheduled_posts SET body").
		WithArgs(int64(99), "new").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.UpdateText(context.Background(), 99, "new"), ErrNotFound)
}

func TestPostRepo_UpdateMedia_Detach(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectExec("UPDATE scheduled_posts SET media_id").
		WithArgs(int64(3), (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateMedia(context.Background(), 3, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_ListPending(t *testing.T) {
	repo, mock := newPostRepo(t)

	first := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)
	mock.ExpectQuery("ORDER BY publish_at ASC").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow(int64(1), int64(7), "a", nil, nil, first, false).
			AddRow(int64(2), int64(7), "b", nil, nil, second, false))

	posts, err := repo.ListPending(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.True(t, posts[0].PublishAt.Before(posts[1].PublishAt))
}

func TestPostRepo_ListPending_CorruptMediaIsNotStorageError(t *testing.T) {
	repo, mock := newPostRepo(t)

	at := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	mediaID := "photo-1"
	mock.ExpectQuery("ORDER BY publish_at ASC").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow(int64(5), int64(7), "a", &mediaID, nil, at, false))

	_, err := repo.ListPending(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptRow)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidMedia)
}

func TestPostRepo_GetByID_StorageError(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("FROM scheduled_posts").
		WithArgs(int64(3)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
