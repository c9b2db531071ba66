package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"whisperguard/internal/domain/models"
)

// ViolationRepository persists violation records produced by the
// engine's converter. Records are append-only; appeals that reverse a
// decision live in the moderation workflow, not here.
type ViolationRepository struct {
	pool *pgxpool.Pool
}

// NewViolationRepository creates a new violation repository
func NewViolationRepository(pool *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{pool: pool}
}

// Create inserts a violation record
func (r *ViolationRepository) Create(ctx context.Context, v *models.Violation) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO violations (
			id, user_id, whisper_id, type, severity, confidence,
			description, suggested_action, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.UserID, v.WhisperID, v.Type, v.Severity, v.Confidence,
		v.Description, v.SuggestedAction, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}

	return nil
}

// CreateBatch inserts all records from one analysis in order
func (r *ViolationRepository) CreateBatch(ctx context.Context, violations []models.Violation) error {
	for i := range violations {
		if err := r.Create(ctx, &violations[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListByUser returns a user's violations, newest first, for the
// moderator review feed.
func (r *ViolationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Violation, error) {
	query := `
		SELECT id, user_id, whisper_id, type, severity, confidence,
			   description, suggested_action, created_at
		FROM violations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var violations []models.Violation
	for rows.Next() {
		var v models.Violation
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.WhisperID, &v.Type, &v.Severity,
			&v.Confidence, &v.Description, &v.SuggestedAction, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan violation row: %w", err)
		}
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate violation rows: %w", err)
	}

	return violations, nil
}
