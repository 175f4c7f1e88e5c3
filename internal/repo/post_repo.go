package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shaiso/Ghostwriter/internal/domain"
)

// PostRepo — репозиторий для работы с очередью публикаций.
//
// publish_at хранится как TIMESTAMP без зоны. При записи отбрасывается зона,
// при чтении показания часов переносятся в loc.
type PostRepo struct {
	db  DBTX
	loc *time.Location
}

// NewPostRepo создаёт новый PostRepo. loc=nil означает time.Local.
func NewPostRepo(db DBTX, loc *time.Location) *PostRepo {
	if loc == nil {
		loc = time.Local
	}
	return &PostRepo{db: db, loc: loc}
}

// Schedule ставит пост в очередь (published=false) и возвращает его ID.
func (r *PostRepo) Schedule(ctx context.Context, channelID int64, body string, publishAt time.Time, media *domain.Media) (int64, error) {
	mediaID, mediaKind := mediaArgs(media)

	query := `
		INSERT INTO scheduled_posts (channel_id, body, media_id, media_kind, publish_at, published)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, channelID, body, mediaID, mediaKind, naive(publishAt)).Scan(&id)
	if err != nil {
		return 0, unavailable("insert post", err)
	}
	return id, nil
}

// GetByID возвращает пост по ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduledPost, error) {
	query := `
		SELECT id, channel_id, body, media_id, media_kind, publish_at, published
		FROM scheduled_posts
		WHERE id = $1
	`
	p, err := r.scanPost(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return p, nil
}

// ListDue возвращает неопубликованные посты с publish_at <= now,
// по возрастанию publish_at.
func (r *PostRepo) ListDue(ctx context.Context, now time.Time) ([]domain.DuePost, error) {
	query := `
		SELECT p.id, p.channel_id, p.body, p.media_id, p.media_kind, p.publish_at, p.published,
		       c.external_id
		FROM scheduled_posts p
		JOIN channels c ON c.id = p.channel_id
		WHERE p.published = false
		  AND p.publish_at <= $1
		ORDER BY p.publish_at ASC, p.id ASC
	`
	rows, err := r.db.Query(ctx, query, naive(now.In(r.loc)))
	if err != nil {
		return nil, unavailable("list due posts", err)
	}
	defer rows.Close()

	var posts []domain.DuePost
	for rows.Next() {
		var d domain.DuePost
		var mediaID, mediaKind *string
		err := rows.Scan(
			&d.ID,
			&d.ChannelID,
			&d.Body,
			&mediaID,
			&mediaKind,
			&d.PublishAt,
			&d.Published,
			&d.ChannelExternalID,
		)
		if err != nil {
			return nil, unavailable("scan due post", err)
		}
		if d.Media, err = scanMedia(mediaID, mediaKind); err != nil {
			return nil, fmt.Errorf("due post %d: %w", d.ID, err)
		}
		d.PublishAt = domain.WallClock(d.PublishAt, r.loc)
		posts = append(posts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list due posts", err)
	}
	return posts, nil
}

// MarkPublished помечает пост опубликованным.
// Повторный вызов и несуществующий ID — no-op без ошибки.
func (r *PostRepo) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE scheduled_posts
		SET published = true, published_at = NOW()
		WHERE id = $1 AND published = false
	`, id)
	if err != nil {
		return unavailable("mark published", err)
	}
	return nil
}

// LastPendingPublishTime возвращает MAX(publish_at) по неопубликованным постам канала.
// ok=false, если ожидающих постов нет.
func (r *PostRepo) LastPendingPublishTime(ctx context.Context, channelID int64) (time.Time, bool, error) {
	var last *time.Time
	err := r.db.QueryRow(ctx, `
		SELECT MAX(publish_at)
		FROM scheduled_posts
		WHERE channel_id = $1 AND published = false
	`, channelID).Scan(&last)
	if err != nil {
		return time.Time{}, false, unavailable("last pending publish time", err)
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return domain.WallClock(*last, r.loc), true, nil
}

// ListPending возвращает очередь канала по возрастанию publish_at.
func (r *PostRepo) ListPending(ctx context.Context, channelID int64) ([]domain.ScheduledPost, error) {
	query := `
		SELECT id, channel_id, body, media_id, media_kind, publish_at, published
		FROM scheduled_posts
		WHERE channel_id = $1 AND published = false
		ORDER BY publish_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, channelID)
	if err != nil {
		return nil, unavailable("list pending posts", err)
	}
	defer rows.Close()

	var posts []domain.ScheduledPost
	for rows.Next() {
		p, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list pending posts", err)
	}
	return posts, nil
}

// Delete удаляет пост безусловно. Несуществующий ID — no-op.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM scheduled_posts WHERE id = $1`, id); err != nil {
		return unavailable("delete post", err)
	}
	return nil
}

// UpdateText меняет текст поста.
// Опубликованные посты не защищены от правки — это ответственность оператора.
func (r *PostRepo) UpdateText(ctx context.Context, id int64, body string) error {
	result, err := r.db.Exec(ctx, `UPDATE scheduled_posts SET body = $2 WHERE id = $1`, id, body)
	if err != nil {
		return unavailable("update post text", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMedia прикрепляет (или снимает, media=nil) вложение.
func (r *PostRepo) UpdateMedia(ctx context.Context, id int64, media *domain.Media) error {
	mediaID, mediaKind := mediaArgs(media)
	result, err := r.db.Exec(ctx, `
		UPDATE scheduled_posts SET media_id = $2, media_kind = $3 WHERE id = $1
	`, id, mediaID, mediaKind)
	if err != nil {
		return unavailable("update post media", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentBodies возвращает тексты последних постов канала (новые первыми),
// включая опубликованные. Нужны генератору, чтобы не повторять сюжеты.
func (r *PostRepo) RecentBodies(ctx context.Context, channelID int64, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT body
		FROM scheduled_posts
		WHERE channel_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, channelID, limit)
	if err != nil {
		return nil, unavailable("recent posts", err)
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, unavailable("scan recent post", err)
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("recent posts", err)
	}
	return bodies, nil
}

// --- Helpers ---

func (r *PostRepo) scanPost(row pgx.Row) (*domain.ScheduledPost, error) {
	var p domain.ScheduledPost
	var mediaID, mediaKind *string

	err := row.Scan(
		&p.ID,
		&p.ChannelID,
		&p.Body,
		&mediaID,
		&mediaKind,
		&p.PublishAt,
		&p.Published,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("scan post", err)
	}

	if p.Media, err = scanMedia(mediaID, mediaKind); err != nil {
		return nil, fmt.Errorf("post %d: %w", p.ID, err)
	}
	p.PublishAt = domain.WallClock(p.PublishAt, r.loc)
	return &p, nil
}
