package dbhelper

import (
	"log"

	"gorm.io/gorm"

	"outfitengine/models"
	"outfitengine/store"
)

// SetupCleaner returns a function that truncates every table this service
// owns, for use as a test-suite teardown.
func SetupCleaner(db *gorm.DB) func() {
	return func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.FeedbackRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.BundleRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.WearEntryRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.ProfileRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.RulesetRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.ItemRow{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserAccount{})
	}
}

func Migrate(db *gorm.DB, model interface{}) {
	if err := db.AutoMigrate(model); err != nil {
		log.Printf("error migrating %T", model)
		log.Fatal(err)
	}
}
