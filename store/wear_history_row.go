package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"outfitengine/wardrobe"
)

// WearEntryRow logs a single item wear event, consumed by NoveltyVariety via
// WearHistoryProvider.Recent.
type WearEntryRow struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"column:user_id;index"`
	ItemID string `gorm:"column:item_id;index"`
	WornAt time.Time `gorm:"column:worn_at;index"`
}

func (WearEntryRow) TableName() string { return "wear_entries" }

// WearHistoryProvider implements engine.WearHistoryProvider.
type WearHistoryProvider struct {
	DB *gorm.DB
}

func NewWearHistoryProvider(db *gorm.DB) *WearHistoryProvider { return &WearHistoryProvider{DB: db} }

func (p *WearHistoryProvider) Recent(ctx context.Context, userID string, n int) ([]wardrobe.WearEntry, error) {
	var rows []WearEntryRow
	if err := p.DB.WithContext(ctx).Where("user_id = ?", userID).Order("worn_at desc").Limit(n).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wardrobe.WearEntry, len(rows))
	for i, r := range rows {
		out[i] = wardrobe.WearEntry{ItemID: r.ItemID, UserID: r.UserID, WornAt: r.WornAt.Unix()}
	}
	return out, nil
}

// RecordWorn inserts a wear event, invoked when RecordFeedback receives a
// FeedbackWorn entry.
func (p *WearHistoryProvider) RecordWorn(ctx context.Context, userID, itemID string, wornAt time.Time) error {
	return p.DB.WithContext(ctx).Create(&WearEntryRow{UserID: userID, ItemID: itemID, WornAt: wornAt}).Error
}
