package main

import (
	"log"
	"os"
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"

	"outfitengine/config"
	"outfitengine/controllers"
	"outfitengine/dbhelper"
	"outfitengine/engine"
	"outfitengine/registry"
	"outfitengine/store"
)

func main() {
	cfg := config.Load()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      config.GetEnv("ENV", "local"),
			Release:          "outfitengine@1.0.0",
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Recover()
		defer sentry.Flush(2 * time.Second)
	}

	db := dbhelper.SetupDB()

	reg := registry.New(registry.DefaultRoles(), registry.DefaultStyleTags())
	rulesets := store.NewRuleSetProvider(db)
	profiles := store.NewProfileProvider(db)
	wearHist := store.NewWearHistoryProvider(db)
	itemIndex := store.NewItemIndex(db, reg)
	bundles := store.NewBundleStore(db)
	feedback := store.NewFeedbackStore(db)

	eng := engine.New(reg, rulesets, profiles, wearHist, itemIndex, bundles, engine.SystemClock{}, engine.DefaultConfig())

	e := controllers.SetupServer(db, eng, feedback)
	e.Debug = os.Getenv("ENV") != "production"

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	e.Logger.Fatal(e.Start(":8083"))
}
