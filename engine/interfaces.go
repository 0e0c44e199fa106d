package engine

import (
	"context"
	"time"

	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

// RuleSetProvider supplies the current immutable ruleset, captured once per
// request.
type RuleSetProvider interface {
	Current(ctx context.Context) (*ruleset.Set, error)
}

// ProfileProvider supplies a user's profile snapshot.
type ProfileProvider interface {
	Snapshot(ctx context.Context, userID string) (wardrobe.Profile, error)
}

// WearHistoryProvider supplies recent wear history for NoveltyVariety and
// records new wear events fed in through record_feedback's "worn" type.
type WearHistoryProvider interface {
	Recent(ctx context.Context, userID string, n int) ([]wardrobe.WearEntry, error)
	RecordWorn(ctx context.Context, userID, itemID string, wornAt time.Time) error
}

// Clock is the engine's time source, for recency scoring and determinism
// seeding.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock implementation used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// BundleStore persists generated bundles so replace() can be called against
// a bundle_id rather than requiring the caller to resend the whole bundle.
type BundleStore interface {
	Save(ctx context.Context, userID string, b BundleRecord) (string, error)
	Load(ctx context.Context, userID, bundleID string) (BundleRecord, error)
}
