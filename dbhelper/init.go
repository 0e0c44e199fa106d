package dbhelper

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"outfitengine/config"
	"outfitengine/models"
	"outfitengine/store"
)

// SetupDB opens the Postgres connection and migrates every table this
// service owns.
func SetupDB() *gorm.DB {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		),
	), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	db.Logger.LogMode(logger.Info)

	db.Exec("CREATE EXTENSION if not exists pgcrypto;")

	Migrate(db, &models.UserAccount{})
	Migrate(db, &store.ItemRow{})
	Migrate(db, &store.RulesetRow{})
	Migrate(db, &store.ProfileRow{})
	Migrate(db, &store.WearEntryRow{})
	Migrate(db, &store.BundleRow{})
	Migrate(db, &store.FeedbackRow{})

	return db
}

// SetupTestDB points at a local disposable database for test bootstrap.
func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "outfitengine")
	os.Setenv("DB_PASSWORD", "outfitengine")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "outfitengine_test")
	os.Setenv("DB_PORT", "5432")
	return SetupDB()
}
