package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shaiso/Ghostwriter/internal/domain"
)

// ChannelRepo — репозиторий для работы с каналами.
type ChannelRepo struct {
	db DBTX
}

// NewChannelRepo создаёт новый ChannelRepo.
func NewChannelRepo(db DBTX) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// Create регистрирует канал и возвращает его ID.
// Уникальность external_id не проверяется.
func (r *ChannelRepo) Create(ctx context.Context, ownerID int64, externalID, title string) (int64, error) {
	query := `
		INSERT INTO channels (owner_id, external_id, title)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, ownerID, externalID, title).Scan(&id); err != nil {
		return 0, unavailable("insert channel", err)
	}
	return id, nil
}

// GetByID возвращает канал по ID.
func (r *ChannelRepo) GetByID(ctx context.Context, id int64) (*domain.Channel, error) {
	query := `
		SELECT id, owner_id, external_id, title, created_at
		FROM channels
		WHERE id = $1
	`
	var c domain.Channel
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.ExternalID, &c.Title, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get channel", err)
	}
	return &c, nil
}

// ListByOwner возвращает каналы оператора.
func (r *ChannelRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Channel, error) {
	query := `
		SELECT id, owner_id, external_id, title, created_at
		FROM channels
		WHERE owner_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, unavailable("list channels", err)
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var c domain.Channel
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.ExternalID, &c.Title, &c.CreatedAt); err != nil {
			return nil, unavailable("scan channel", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list channels", err)
	}
	return channels, nil
}
