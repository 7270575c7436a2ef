package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation errors for GenerationRecord.
var (
	ErrGenerationIDEmpty       = errors.New("generation ID cannot be empty")
	ErrGenerationUserIDEmpty   = errors.New("generation user ID cannot be empty")
	ErrGenerationModelEmpty    = errors.New("generation model cannot be empty")
	ErrGenerationSourceEmpty   = errors.New("generation source text length must be positive")
	ErrGenerationHashInvalid   = errors.New("generation source text hash must be a SHA-256 hex digest")
	ErrGenerationCountNegative = errors.New("generation count cannot be negative")
	ErrGenerationDurationNeg   = errors.New("generation duration cannot be negative")
)

// GenerationRecord captures the metadata of one completed language model
// invocation. It feeds the daily quota and usage analytics and is independent
// of whether any proposal is later accepted.
type GenerationRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	SourceTextLength int       `json:"source_text_length"`
	SourceTextHash   string    `json:"source_text_hash"`
	GeneratedCount   int       `json:"generated_count"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewGenerationRecord builds a validated record for sourceText. The length is
// measured in characters (runes) and the hash is the SHA-256 hex digest of
// the exact text.
func NewGenerationRecord(
	userID uuid.UUID,
	model string,
	sourceText string,
	generatedCount int,
	duration time.Duration,
	createdAt time.Time,
) (*GenerationRecord, error) {
	record := &GenerationRecord{
		ID:               uuid.New(),
		UserID:           userID,
		Model:            model,
		SourceTextLength: utf8.RuneCountInString(sourceText),
		SourceTextHash:   HashSourceText(sourceText),
		GeneratedCount:   generatedCount,
		DurationMs:       duration.Milliseconds(),
		CreatedAt:        createdAt.UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// HashSourceText returns the SHA-256 hex digest used to detect repeated submissions.
func HashSourceText(sourceText string) string {
	sum := sha256.Sum256([]byte(sourceText))
	return hex.EncodeToString(sum[:])
}

// Validate checks if the GenerationRecord has valid data.
func (r *GenerationRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrGenerationIDEmpty
	}
	if r.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}
	if r.Model == "" {
		return ErrGenerationModelEmpty
	}
	if r.SourceTextLength <= 0 {
		return ErrGenerationSourceEmpty
	}
	if len(r.SourceTextHash) != sha256.Size*2 {
		return ErrGenerationHashInvalid
	}
	if _, err := hex.DecodeString(r.SourceTextHash); err != nil {
		return ErrGenerationHashInvalid
	}
	if r.GeneratedCount < 0 {
		return ErrGenerationCountNegative
	}
	if r.DurationMs < 0 {
		return ErrGenerationDurationNeg
	}
	return nil
}
