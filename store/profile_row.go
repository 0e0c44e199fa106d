package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"outfitengine/wardrobe"
)

// ProfileRow is a user's persisted styling profile: scalar columns for the
// fields queries filter on, the rest as JSONB, same split as ItemRow.
type ProfileRow struct {
	UserID             string `gorm:"primaryKey;column:user_id"`
	BaselineDressiness int    `gorm:"column:baseline_dressiness"`
	DefaultOccasion    string `gorm:"column:default_occasion"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb;not null;default:'{}'"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ProfileRow) TableName() string { return "user_profiles" }

type profilePayload struct {
	StyleSignature []string                     `json:"style_signature,omitempty"`
	Guardrails     wardrobe.Guardrails          `json:"guardrails,omitempty"`
	Appearance     wardrobe.AppearanceSignature `json:"appearance,omitempty"`
	Body           wardrobe.BodySignature       `json:"body,omitempty"`
}

// ProfileProvider implements engine.ProfileProvider.
type ProfileProvider struct {
	DB *gorm.DB
}

func NewProfileProvider(db *gorm.DB) *ProfileProvider { return &ProfileProvider{DB: db} }

func (p *ProfileProvider) Snapshot(ctx context.Context, userID string) (wardrobe.Profile, error) {
	var row ProfileRow
	err := p.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return wardrobe.Profile{UserID: userID, BaselineDressiness: 3}, nil
	}
	if err != nil {
		return wardrobe.Profile{}, err
	}
	var payload profilePayload
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return wardrobe.Profile{}, err
		}
	}
	return wardrobe.Profile{
		UserID:             row.UserID,
		BaselineDressiness: row.BaselineDressiness,
		DefaultOccasion:    row.DefaultOccasion,
		StyleSignature:     payload.StyleSignature,
		Guardrails:         payload.Guardrails,
		Appearance:         payload.Appearance,
		Body:               payload.Body,
	}, nil
}

// SaveProfile upserts a user's profile, used by onboarding/settings flows
// rather than by the read-only Generate/Replace path.
func (p *ProfileProvider) SaveProfile(ctx context.Context, profile wardrobe.Profile) error {
	payload, err := json.Marshal(profilePayload{
		StyleSignature: profile.StyleSignature,
		Guardrails:     profile.Guardrails,
		Appearance:     profile.Appearance,
		Body:           profile.Body,
	})
	if err != nil {
		return err
	}
	row := ProfileRow{
		UserID: profile.UserID, BaselineDressiness: profile.BaselineDressiness,
		DefaultOccasion: profile.DefaultOccasion, Payload: datatypes.JSON(payload),
		UpdatedAt: time.Now(),
	}
	return p.DB.WithContext(ctx).Save(&row).Error
}
