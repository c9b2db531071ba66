package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"whisperguard/internal/domain/models"
)

// WhisperRepository reads the whisper feed owned by the publishing
// service. The moderation engine only ever lists recent posts from it;
// it never writes here.
type WhisperRepository struct {
	pool *pgxpool.Pool
}

// NewWhisperRepository creates a new whisper repository
func NewWhisperRepository(pool *pgxpool.Pool) *WhisperRepository {
	return &WhisperRepository{pool: pool}
}

// ListRecentByAuthor returns the author's most recent posts, newest
// first, capped at limit. Implements the engine's HistoryStore.
func (r *WhisperRepository) ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.PostHistoryEntry, error) {
	query := `
		SELECT id, text, like_count, reply_count, duration_seconds, created_at
		FROM whispers
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent whispers: %w", err)
	}
	defer rows.Close()

	var entries []models.PostHistoryEntry
	for rows.Next() {
		var e models.PostHistoryEntry
		if err := rows.Scan(&e.ID, &e.Text, &e.LikeCount, &e.ReplyCount, &e.DurationSeconds, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan whisper row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate whisper rows: %w", err)
	}

	return entries, nil
}
