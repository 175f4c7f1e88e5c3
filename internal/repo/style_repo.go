package repo

import (
	"context"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

// StyleRepo — репозиторий образцов стиля автора.
type StyleRepo struct {
	db DBTX
}

// NewStyleRepo создаёт новый StyleRepo.
func NewStyleRepo(db DBTX) *StyleRepo {
	return &StyleRepo{db: db}
}

// Add сохраняет образец текста для канала.
func (r *StyleRepo) Add(ctx context.Context, channelID int64, body string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO style_examples (channel_id, body) VALUES ($1, $2) RETURNING id
	`, channelID, body).Scan(&id)
	if err != nil {
		return 0, unavailable("insert style example", err)
	}
	return id, nil
}

// Clear удаляет все образцы канала и возвращает их количество.
func (r *StyleRepo) Clear(ctx context.Context, channelID int64) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM style_examples WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, unavailable("clear style examples", err)
	}
	return result.RowsAffected(), nil
}

// Sample возвращает до n случайных образцов канала.
func (r *StyleRepo) Sample(ctx context.Context, channelID int64, n int) ([]domain.StyleExample, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, channel_id, body
		FROM style_examples
		WHERE channel_id = $1
		ORDER BY RANDOM()
		LIMIT $2
	`, channelID, n)
	if err != nil {
		return nil, unavailable("sample style examples", err)
	}
	defer rows.Close()

	var examples []domain.StyleExample
	for rows.Next() {
		var e domain.StyleExample
		if err := rows.Scan(&e.ID, &e.ChannelID, &e.Body); err != nil {
			return nil, unavailable("scan style example", err)
		}
		examples = append(examples, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("sample style examples", err)
	}
	return examples, nil
}
