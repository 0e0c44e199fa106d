package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"outfitengine/ruleset"
)

// RulesetRow is the persisted pointer to which ruleset version is live, plus
// the tunable-knob overrides (weights, thresholds, accessory mode) a
// ruleset publish can carry without a code deploy. Templates, the layering
// graph, and hard-constraint wiring stay code-defined in package ruleset
// rather than arbitrary DB-driven config.
type RulesetRow struct {
	RulesetID   string `gorm:"primaryKey;column:ruleset_id"`
	Version     string `gorm:"column:version;index"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb;not null;default:'{}'"`
	PublishedAt time.Time      `gorm:"column:published_at"`
	Active      bool           `gorm:"column:active;index"`
}

func (RulesetRow) TableName() string { return "rulesets" }

type rulesetOverrides struct {
	Weights       *ruleset.Weights    `json:"weights,omitempty"`
	Thresholds    *ruleset.Thresholds `json:"thresholds,omitempty"`
	AccessoryMode string              `json:"accessory_mode,omitempty"`
}

// RuleSetProvider implements engine.RuleSetProvider by loading the active
// RulesetRow and layering its overrides on top of ruleset.DefaultRuleSet().
type RuleSetProvider struct {
	DB *gorm.DB
}

func NewRuleSetProvider(db *gorm.DB) *RuleSetProvider { return &RuleSetProvider{DB: db} }

func (p *RuleSetProvider) Current(ctx context.Context) (*ruleset.Set, error) {
	var row RulesetRow
	err := p.DB.WithContext(ctx).Where("active = true").Order("published_at desc").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		base := ruleset.DefaultRuleSet()
		return base, nil
	}
	if err != nil {
		return nil, err
	}

	base := ruleset.DefaultRuleSet()
	base.RulesetID = row.RulesetID
	base.Version = row.Version

	var overrides rulesetOverrides
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &overrides); err != nil {
			return nil, err
		}
	}
	if overrides.Weights != nil {
		base.Weights = *overrides.Weights
	}
	if overrides.Thresholds != nil {
		base.Thresholds = *overrides.Thresholds
	}
	if overrides.AccessoryMode != "" {
		base.AccessoryMode = ruleset.AccessoryMode(overrides.AccessoryMode)
	}
	return base, nil
}
