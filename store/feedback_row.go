package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"outfitengine/engine"
)

// FeedbackRow persists a recorded reaction to a bundle, keyed for
// idempotency by (user_id, idempotency_key).
type FeedbackRow struct {
	FeedbackID     uint   `gorm:"primaryKey;column:feedback_id"`
	IdempotencyKey string `gorm:"column:idempotency_key;uniqueIndex:idx_feedback_idempotency"`
	UserID         string `gorm:"column:user_id;uniqueIndex:idx_feedback_idempotency"`
	BundleID       string `gorm:"column:bundle_id;index"`
	Type           string `gorm:"column:type"`
	Rating         *int   `gorm:"column:rating"`

	Reasons datatypes.JSON `gorm:"column:reasons;type:jsonb;not null;default:'[]'"`

	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (FeedbackRow) TableName() string { return "feedback" }

// FeedbackStore implements engine.FeedbackStore.
type FeedbackStore struct {
	DB *gorm.DB
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore { return &FeedbackStore{DB: db} }

func (s *FeedbackStore) Record(ctx context.Context, f engine.Feedback) (engine.Feedback, error) {
	var existing FeedbackRow
	err := s.DB.WithContext(ctx).Where("user_id = ? AND idempotency_key = ?", f.UserID, f.IdempotencyKey).First(&existing).Error
	if err == nil {
		return rowToFeedback(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Feedback{}, err
	}

	reasons, err := json.Marshal(f.Reasons)
	if err != nil {
		return engine.Feedback{}, err
	}
	row := FeedbackRow{
		IdempotencyKey: f.IdempotencyKey, UserID: f.UserID, BundleID: f.BundleID,
		Type: string(f.Type), Rating: f.Rating, Reasons: datatypes.JSON(reasons),
		RecordedAt: time.Unix(f.RecordedAt, 0),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return engine.Feedback{}, err
	}
	return rowToFeedback(row), nil
}

func rowToFeedback(row FeedbackRow) engine.Feedback {
	var reasons []string
	_ = json.Unmarshal(row.Reasons, &reasons)
	return engine.Feedback{
		FeedbackID:     itoa(row.FeedbackID),
		IdempotencyKey: row.IdempotencyKey,
		UserID:         row.UserID,
		BundleID:       row.BundleID,
		Type:           engine.FeedbackType(row.Type),
		Reasons:        reasons,
		Rating:         row.Rating,
		RecordedAt:     row.RecordedAt.Unix(),
	}
}

func itoa(id uint) string {
	if id == 0 {
		return ""
	}
	digits := []byte{}
	for id > 0 {
		digits = append([]byte{byte('0' + id%10)}, digits...)
		id /= 10
	}
	return string(digits)
}
