package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"outfitengine/assembly"
	"outfitengine/engine"
)

// BundleRow persists a generated bundle so replace() can be called against
// a bundle_id instead of resending the whole bundle.
type BundleRow struct {
	BundleID string `gorm:"primaryKey;column:bundle_id"`
	UserID   string `gorm:"column:user_id;index"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (BundleRow) TableName() string { return "bundles" }

// BundleStore implements engine.BundleStore.
type BundleStore struct {
	DB *gorm.DB
}

func NewBundleStore(db *gorm.DB) *BundleStore { return &BundleStore{DB: db} }

func (s *BundleStore) Save(ctx context.Context, userID string, b engine.BundleRecord) (string, error) {
	payload, err := json.Marshal(b.Bundle)
	if err != nil {
		return "", err
	}
	row := BundleRow{BundleID: b.BundleID, UserID: userID, Payload: datatypes.JSON(payload), CreatedAt: time.Now()}
	if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
		return "", err
	}
	return b.BundleID, nil
}

func (s *BundleStore) Load(ctx context.Context, userID, bundleID string) (engine.BundleRecord, error) {
	var row BundleRow
	if err := s.DB.WithContext(ctx).Where("bundle_id = ? AND user_id = ?", bundleID, userID).First(&row).Error; err != nil {
		return engine.BundleRecord{}, err
	}
	var bundle assembly.Bundle
	if err := json.Unmarshal(row.Payload, &bundle); err != nil {
		return engine.BundleRecord{}, err
	}
	return engine.BundleRecord{BundleID: row.BundleID, UserID: row.UserID, Bundle: bundle}, nil
}
