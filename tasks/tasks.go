// Package tasks defines the asynq payloads and handlers cmd/worker runs:
// cache invalidation and wear-history maintenance jobs.
package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"outfitengine/index"
	"outfitengine/store"
)

const (
	TypeInvalidateUser = "cache:invalidate_user"
	TypeInvalidateAll  = "cache:invalidate_all"
	TypeRecordWorn     = "wear:record"
)

type InvalidateUserPayload struct {
	UserID string `json:"user_id"`
}

type RecordWornPayload struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
	WornAt int64  `json:"worn_at"`
}

// NewInvalidateUserTask builds the task that drops a user's cached
// shortlists after an item is added, updated, or removed. No package in this
// repository enqueues it.
func NewInvalidateUserTask(userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InvalidateUserPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvalidateUser, payload), nil
}

// NewInvalidateAllTask builds the task that drops every cached shortlist
// after a ruleset is published, since a ruleset change can affect all of
// them at once. No package in this repository enqueues it.
func NewInvalidateAllTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeInvalidateAll, nil), nil
}

// NewRecordWornTask lets a caller offload wear-history writes onto the
// worker instead of blocking the request path on them.
func NewRecordWornTask(userID, itemID string, wornAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(RecordWornPayload{UserID: userID, ItemID: itemID, WornAt: wornAt.Unix()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecordWorn, payload), nil
}

func HandleInvalidateUserTask(ctx context.Context, t *asynq.Task, cache *index.ShortlistCache) error {
	var p InvalidateUserPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return cache.InvalidateUser(ctx, p.UserID)
}

func HandleInvalidateAllTask(ctx context.Context, t *asynq.Task, cache *index.ShortlistCache) error {
	return cache.InvalidateAll(ctx)
}

func HandleRecordWornTask(ctx context.Context, t *asynq.Task, wearHist *store.WearHistoryProvider) error {
	var p RecordWornPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return wearHist.RecordWorn(ctx, p.UserID, p.ItemID, time.Unix(p.WornAt, 0))
}
