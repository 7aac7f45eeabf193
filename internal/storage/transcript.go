package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/deskpet/internal/types"
)

// transcriptModel maps to the transcripts table.
type transcriptModel struct {
	ID        int    `gorm:"primaryKey"`
	SessionID string `gorm:"size:64;index"`
	UserText  string `gorm:"type:text;not null"`
	RawReply  string `gorm:"type:text"`
	Reply     string `gorm:"type:text"`
	Delta     int
	Matched   bool
	MoodScore int
	PetMode   bool
	CreatedAt time.Time `gorm:"index"`
}

func (transcriptModel) TableName() string {
	return "transcripts"
}

// TranscriptRepo accesses chat transcripts.
type TranscriptRepo struct {
	db *gorm.DB
}

// NewTranscriptRepo returns a TranscriptRepo.
func NewTranscriptRepo(db *gorm.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

// Create stores one exchange.
func (r *TranscriptRepo) Create(ctx context.Context, t *types.Transcript) error {
	if t == nil {
		return fmt.Errorf("transcript cannot be nil")
	}
	record := transcriptToModel(*t)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}
	t.ID = record.ID
	t.CreatedAt = record.CreatedAt
	return nil
}

// Recent returns up to limit exchanges for a session, oldest first.
func (r *TranscriptRepo) Recent(ctx context.Context, sessionID string, limit int) ([]types.Transcript, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var records []transcriptModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}

	results := make([]types.Transcript, len(records))
	// Oldest -> newest
	for i, record := range records {
		results[len(records)-1-i] = transcriptFromModel(record)
	}
	return results, nil
}

func transcriptToModel(t types.Transcript) transcriptModel {
	return transcriptModel{
		ID:        t.ID,
		SessionID: t.SessionID,
		UserText:  t.UserText,
		RawReply:  t.RawReply,
		Reply:     t.Reply,
		Delta:     t.Delta,
		Matched:   t.Matched,
		MoodScore: t.MoodScore,
		PetMode:   t.PetMode,
		CreatedAt: t.CreatedAt,
	}
}

func transcriptFromModel(model transcriptModel) types.Transcript {
	return types.Transcript{
		ID:        model.ID,
		SessionID: model.SessionID,
		UserText:  model.UserText,
		RawReply:  model.RawReply,
		Reply:     model.Reply,
		Delta:     model.Delta,
		Matched:   model.Matched,
		MoodScore: model.MoodScore,
		PetMode:   model.PetMode,
		CreatedAt: model.CreatedAt,
	}
}
