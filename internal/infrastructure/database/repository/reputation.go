package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"whisperguard/internal/domain/models"
)

// ErrReputationNotFound is returned when a user has no reputation row
var ErrReputationNotFound = errors.New("reputation not found")

// ReputationRepository reads the reputation table owned by the
// reputation service. Read-only from this service's perspective.
type ReputationRepository struct {
	pool *pgxpool.Pool
}

// NewReputationRepository creates a new reputation repository
func NewReputationRepository(pool *pgxpool.Pool) *ReputationRepository {
	return &ReputationRepository{pool: pool}
}

// GetReputation returns the user's current snapshot. Implements the
// engine's ReputationStore.
func (r *ReputationRepository) GetReputation(ctx context.Context, userID uuid.UUID) (*models.ReputationSnapshot, error) {
	query := `
		SELECT user_id, score, level, total_whispers, violation_count, created_at, updated_at
		FROM user_reputation
		WHERE user_id = $1`

	var snap models.ReputationSnapshot
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&snap.UserID, &snap.Score, &snap.Level, &snap.TotalWhispers,
		&snap.ViolationHistory, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReputationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation: %w", err)
	}

	return &snap, nil
}
