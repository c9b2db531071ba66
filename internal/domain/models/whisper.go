package models

import (
	"time"

	"github.com/google/uuid"
)

// Whisper represents a short-form audio post after transcription.
// The engine only sees the text and acoustic/engagement metadata; the
// audio itself never reaches this service.
type Whisper struct {
	ID              uuid.UUID `json:"id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Text            string    `json:"text"`
	DurationSeconds float64   `json:"duration_seconds"`
	LikeCount       int       `json:"like_count"`
	ReplyCount      int       `json:"reply_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// PostHistoryEntry is the minimal read-only view of a prior post used
// by behavioral analysis.
type PostHistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	Text            string    `json:"text"`
	LikeCount       int       `json:"like_count"`
	ReplyCount      int       `json:"reply_count"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}
