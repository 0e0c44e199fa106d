package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"outfitengine/config"
	"outfitengine/dbhelper"
	"outfitengine/index"
	"outfitengine/store"
	"outfitengine/tasks"
	"outfitengine/wardrobe"
)

func main() {
	cfg := config.Load()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.AsynqAddr},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"cache": 5,
			"wear":  5,
		}},
	)

	db := dbhelper.SetupDB()
	wearHist := store.NewWearHistoryProvider(db)

	// The worker keeps its own ShortlistCache instance; the generate and
	// replace request paths do not consult ShortlistCache, so invalidations
	// handled here only clear this in-process instance.
	cache, err := index.NewShortlistCache(func(ctx context.Context, userID string, slot wardrobe.Slot) (index.Shortlist, error) {
		return index.Shortlist{}, nil
	})
	if err != nil {
		log.Fatalf("failed to init shortlist cache: %v", err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeInvalidateUser, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleInvalidateUserTask(ctx, t, cache)
	})
	mux.HandleFunc(tasks.TypeInvalidateAll, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleInvalidateAllTask(ctx, t, cache)
	})
	mux.HandleFunc(tasks.TypeRecordWorn, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleRecordWornTask(ctx, t, wearHist)
	})

	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
