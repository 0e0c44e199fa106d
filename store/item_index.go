package store

import (
	"context"

	"gorm.io/gorm"

	"outfitengine/index"
	"outfitengine/registry"
	"outfitengine/wardrobe"
)

// ItemIndex implements index.IndexQuery against the wardrobe_items table
// using a Where+Find over a gorm.DB, generalized to the retriever's filter
// set. Every decoded row is re-validated against Registry before it can
// reach the beam search: this is the ingress boundary the attribute
// registry gates, since rows can only enter wardrobe_items through
// FromItem/ToItem and there's no separate write-side check.
type ItemIndex struct {
	DB       *gorm.DB
	Registry *registry.Registry
}

func NewItemIndex(db *gorm.DB, reg *registry.Registry) *ItemIndex {
	return &ItemIndex{DB: db, Registry: reg}
}

func (idx *ItemIndex) Search(ctx context.Context, owner wardrobe.Owner, filters index.Filters, limit int, cursor index.Cursor) ([]index.Doc, index.Cursor, error) {
	q := idx.DB.WithContext(ctx).Model(&ItemRow{}).Where("owner = ?", string(owner))
	if filters.Slot != "" {
		q = q.Where("slot = ?", string(filters.Slot))
	}
	if filters.FormalityLow > 0 {
		q = q.Where("formality >= ?", filters.FormalityLow)
	}
	if filters.FormalityHigh > 0 {
		q = q.Where("formality <= ?", filters.FormalityHigh)
	}
	if len(filters.ExcludeItemIDs) > 0 {
		excluded := make([]string, 0, len(filters.ExcludeItemIDs))
		for id := range filters.ExcludeItemIDs {
			excluded = append(excluded, id)
		}
		q = q.Where("item_id NOT IN ?", excluded)
	}
	if cursor != "" {
		q = q.Where("item_id > ?", string(cursor))
	}
	q = q.Order("item_id").Limit(limit)

	var rows []ItemRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	docs := make([]index.Doc, 0, len(rows))
	var nextCursor index.Cursor
	for _, row := range rows {
		item, err := row.ToItem()
		if err != nil {
			continue
		}
		if idx.Registry != nil && len(idx.Registry.Validate(item)) > 0 {
			continue
		}
		if filters.Seasonality != "" && !item.Seasonality.Empty() && !item.Seasonality.Has(filters.Seasonality) {
			continue
		}
		if filters.RequireGroupID != "" && (item.Group == nil || item.Group.GroupID != filters.RequireGroupID) {
			continue
		}
		if forbiddenTagPresent(item, filters.ForbiddenTags) {
			continue
		}
		docs = append(docs, index.Doc{Item: item, OwnerScope: owner})
		nextCursor = index.Cursor(row.ItemID)
	}
	return docs, nextCursor, nil
}

func forbiddenTagPresent(item wardrobe.Item, forbidden []string) bool {
	if len(forbidden) == 0 {
		return false
	}
	forbiddenSet := make(map[string]bool, len(forbidden))
	for _, t := range forbidden {
		forbiddenSet[t] = true
	}
	for _, t := range item.StyleTags {
		if forbiddenSet[t] {
			return true
		}
	}
	return false
}
