package ruleset

import "outfitengine/wardrobe"

var defaultLayeringNodes = []wardrobe.Slot{
	wardrobe.SlotTop, wardrobe.SlotMid, wardrobe.SlotOuter, wardrobe.SlotBottom,
	wardrobe.SlotOnePiece, wardrobe.SlotFootwear, wardrobe.SlotBag, wardrobe.SlotBelt,
	wardrobe.SlotJewelry, wardrobe.SlotHeadwear, wardrobe.SlotHosiery,
}

// DefaultRuleSet builds the reference RuleSet used by the demo binaries and
// as the seed data for package store's fixtures. It is versioned "v1".
func DefaultRuleSet() *Set {
	layering := NewLayeringGraph(defaultLayeringNodes, map[wardrobe.Slot][]wardrobe.Slot{
		wardrobe.SlotTop:    {wardrobe.SlotMid},
		wardrobe.SlotMid:    {wardrobe.SlotOuter},
		wardrobe.SlotHosiery: {wardrobe.SlotFootwear},
	})

	hardConstraints := map[string]HardConstraintSpec{
		"layering_order":        {Name: "layering_order", Enabled: true},
		"one_piece_exclusivity": {Name: "one_piece_exclusivity", Enabled: true},
		"strict_coord_integrity": {Name: "strict_coord_integrity", Enabled: true},
		"formality_bounds":      {Name: "formality_bounds", Enabled: true},
		"temperature_safety":    {Name: "temperature_safety", Enabled: true},
		"catalog_cap":           {Name: "catalog_cap", Enabled: true},
		"belt_gate":             {Name: "belt_gate", Enabled: true},
		"coverage":              {Name: "coverage", Enabled: true},
	}

	return &Set{
		RulesetID:           "default",
		Version:             "v1",
		Layering:            layering,
		Templates:           DefaultTemplates(),
		HardConstraints:     hardConstraints,
		Weights:             DefaultWeights(),
		Thresholds:          DefaultThresholds(),
		AccessoryMode:       AccessoryCoordinated,
		AllowCatalogDefault: false,
	}
}
