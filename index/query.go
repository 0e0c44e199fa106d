// Package index implements the read-only candidate index view, the
// per-slot candidate retriever, and the process-wide bounded shortlist
// cache.
package index

import (
	"context"

	"outfitengine/wardrobe"
)

// Filters is a per-slot candidate query.
type Filters struct {
	Slot            wardrobe.Slot
	Seasonality     wardrobe.Seasonality
	FormalityLow    int
	FormalityHigh   int
	ForbiddenTags   []string
	RequireGroupID  string // when set, only items in this group_id
	ExcludeItemIDs  map[string]bool
}

// Doc is a denormalized item document as the candidate index stores it.
type Doc struct {
	Item       wardrobe.Item
	OwnerScope wardrobe.Owner
}

// Cursor paginates a search result; opaque to callers.
type Cursor string

// IndexQuery is the engine's inward, read-only view of the candidate
// index. Implementations may do I/O; the retriever calls it in parallel
// per slot and per owner scope.
type IndexQuery interface {
	Search(ctx context.Context, owner wardrobe.Owner, filters Filters, limit int, cursor Cursor) ([]Doc, Cursor, error)
}
