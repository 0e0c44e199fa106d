// Package store adapts gorm-backed Postgres tables to the interfaces the
// engine package depends on: index.IndexQuery, engine.RuleSetProvider,
// engine.ProfileProvider, engine.WearHistoryProvider, engine.BundleStore,
// engine.FeedbackStore. Item and ruleset payloads are stored as JSONB
// (gorm.io/datatypes), grounded on the pack's
// yungbote-neurobridge-backend MaterialChunkSignal model, which stores its
// variable-shaped signal payload the same way.
package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"outfitengine/color"
	"outfitengine/wardrobe"
)

// ItemRow is the persisted shape of a wardrobe.Item: identity and indexed
// scalar columns for filtering, plus the full attribute set and per-field
// confidence as JSONB so new sparse attributes don't require a migration.
type ItemRow struct {
	ItemID    string `gorm:"primaryKey;column:item_id"`
	OwnerID   string `gorm:"column:owner_id;index"`
	Owner     string `gorm:"column:owner;index"` // "wardrobe" | "catalog"
	Slot      string `gorm:"column:slot;index"`
	Formality int    `gorm:"column:formality;index"`

	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	Confidence datatypes.JSON `gorm:"column:confidence;type:jsonb;not null;default:'{}'"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ItemRow) TableName() string { return "wardrobe_items" }

// itemAttributes is the JSON shape Attributes marshals to/from; it mirrors
// wardrobe.Item field-for-field minus ItemID/Owner/Confidence/UpdatedAt,
// which have their own columns.
type itemAttributes struct {
	Role              string             `json:"role"`
	Seasonality       []string           `json:"seasonality"`
	Color             *color.LCh         `json:"color,omitempty"`
	Pattern           string             `json:"pattern,omitempty"`
	PatternScale      string             `json:"pattern_scale,omitempty"`
	Material          string             `json:"material,omitempty"`
	StyleTags         []string           `json:"style_tags,omitempty"`
	FitProfile        string             `json:"fit_profile,omitempty"`
	TopLengthClass    string             `json:"top_length_class,omitempty"`
	BottomRiseClass   string             `json:"bottom_rise_class,omitempty"`
	ShoulderStructure string             `json:"shoulder_structure,omitempty"`
	Group             *coordGroupPayload `json:"group,omitempty"`
	LeatherFamily     string             `json:"leather_family,omitempty"`
	MetalFamily       string             `json:"metal_family,omitempty"`
	MetalFinish       string             `json:"metal_finish,omitempty"`
	BagKind           string             `json:"bag_kind,omitempty"`
	JewelryKind       string             `json:"jewelry_kind,omitempty"`
	FootwearClass     string             `json:"footwear_class,omitempty"`
}

type coordGroupPayload struct {
	GroupID        string `json:"group_id"`
	SetRole        string `json:"set_role"`
	CoordSetKind   string `json:"coord_set_kind"`
	CohesionPolicy string `json:"cohesion_policy"`
}

// ToItem decodes a row into the engine's sparse-attribute-bag wardrobe.Item.
func (r ItemRow) ToItem() (wardrobe.Item, error) {
	var attrs itemAttributes
	if len(r.Attributes) > 0 {
		if err := json.Unmarshal(r.Attributes, &attrs); err != nil {
			return wardrobe.Item{}, err
		}
	}
	var confidence map[string]float64
	if len(r.Confidence) > 0 {
		if err := json.Unmarshal(r.Confidence, &confidence); err != nil {
			return wardrobe.Item{}, err
		}
	}

	seasons := wardrobe.NewSeasonSet()
	for _, s := range attrs.Seasonality {
		seasons[wardrobe.Seasonality(s)] = true
	}

	var group *wardrobe.CoordGroup
	if attrs.Group != nil {
		group = &wardrobe.CoordGroup{
			GroupID:        attrs.Group.GroupID,
			SetRole:        attrs.Group.SetRole,
			CoordSetKind:   attrs.Group.CoordSetKind,
			CohesionPolicy: wardrobe.CohesionPolicy(attrs.Group.CohesionPolicy),
		}
	}

	return wardrobe.Item{
		ItemID:            r.ItemID,
		Owner:             wardrobe.Owner(r.Owner),
		Role:              attrs.Role,
		Slot:              wardrobe.Slot(r.Slot),
		Formality:         r.Formality,
		Seasonality:       seasons,
		Color:             attrs.Color,
		Pattern:           attrs.Pattern,
		PatternScale:      attrs.PatternScale,
		Material:          attrs.Material,
		StyleTags:         attrs.StyleTags,
		FitProfile:        wardrobe.FitProfile(attrs.FitProfile),
		TopLengthClass:    attrs.TopLengthClass,
		BottomRiseClass:   attrs.BottomRiseClass,
		ShoulderStructure: wardrobe.ShoulderStructure(attrs.ShoulderStructure),
		Group:             group,
		LeatherFamily:     attrs.LeatherFamily,
		MetalFamily:       attrs.MetalFamily,
		MetalFinish:       attrs.MetalFinish,
		BagKind:           attrs.BagKind,
		JewelryKind:       attrs.JewelryKind,
		FootwearClass:     attrs.FootwearClass,
		Confidence:        confidence,
		UpdatedAt:         r.UpdatedAt.Unix(),
	}, nil
}

// FromItem encodes a wardrobe.Item plus its owning user id into a row ready
// for gorm to persist.
func FromItem(ownerID string, it wardrobe.Item) (ItemRow, error) {
	seasons := make([]string, 0, len(it.Seasonality))
	for s := range it.Seasonality {
		seasons = append(seasons, string(s))
	}
	var group *coordGroupPayload
	if it.Group != nil {
		group = &coordGroupPayload{
			GroupID: it.Group.GroupID, SetRole: it.Group.SetRole,
			CoordSetKind: it.Group.CoordSetKind, CohesionPolicy: string(it.Group.CohesionPolicy),
		}
	}
	attrs := itemAttributes{
		Role: it.Role, Seasonality: seasons, Color: it.Color, Pattern: it.Pattern,
		PatternScale: it.PatternScale, Material: it.Material, StyleTags: it.StyleTags,
		FitProfile: string(it.FitProfile), TopLengthClass: it.TopLengthClass,
		BottomRiseClass: it.BottomRiseClass, ShoulderStructure: string(it.ShoulderStructure),
		Group: group, LeatherFamily: it.LeatherFamily, MetalFamily: it.MetalFamily,
		MetalFinish: it.MetalFinish, BagKind: it.BagKind, JewelryKind: it.JewelryKind,
		FootwearClass: it.FootwearClass,
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return ItemRow{}, err
	}
	confJSON, err := json.Marshal(it.Confidence)
	if err != nil {
		return ItemRow{}, err
	}
	return ItemRow{
		ItemID: it.ItemID, OwnerID: ownerID, Owner: string(it.Owner), Slot: string(it.Slot),
		Formality: it.Formality, Attributes: datatypes.JSON(attrsJSON), Confidence: datatypes.JSON(confJSON),
		UpdatedAt: time.Unix(it.UpdatedAt, 0),
	}, nil
}
