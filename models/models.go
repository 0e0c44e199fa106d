// Package models holds the thin persisted identity shape the engine's
// outward API sits behind: no billing, subscription, or company tenancy,
// just the caller identity JWT auth needs.
package models

import "time"

// JsonModel is the base model every persisted row embeds.
type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAccount is the caller identity behind a user_id in generate/replace
// calls: authentication only, no wardrobe/profile data (that lives in
// store.ItemRow/store.ProfileRow, keyed by UserAccount.ID).
type UserAccount struct {
	JsonModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	GoogleID string `json:"-"`
	Banned   bool   `gorm:"default:false" json:"-"`
}
