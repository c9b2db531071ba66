package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repositories sharing one connection pool
type Repositories struct {
	Whispers   *WhisperRepository
	Reputation *ReputationRepository
	Violations *ViolationRepository
}

// NewRepositories creates all repositories over the given pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Whispers:   NewWhisperRepository(pool),
		Reputation: NewReputationRepository(pool),
		Violations: NewViolationRepository(pool),
	}
}
