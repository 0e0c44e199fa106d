package registry

import "outfitengine/wardrobe"

func allApplicable(fields ...string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// DefaultRoles is the reference role/slot table used by the demo binaries
// and the tests. A production deployment would load this from the
// same payload a RuleSet is published from.
func DefaultRoles() map[string]RoleSpec {
	garment := allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldShoulderStructure, FieldGroup)
	return map[string]RoleSpec{
		"shirt":     {Slot: wardrobe.SlotTop, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldTopLengthClass, FieldShoulderStructure, FieldGroup)},
		"tshirt":    {Slot: wardrobe.SlotTop, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldTopLengthClass, FieldGroup)},
		"knit":      {Slot: wardrobe.SlotMid, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldGroup)},
		"vest":      {Slot: wardrobe.SlotMid, Applicable: garment},
		"jacket":    {Slot: wardrobe.SlotOuter, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldShoulderStructure, FieldGroup)},
		"coat":      {Slot: wardrobe.SlotOuter, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldShoulderStructure, FieldGroup)},
		"trousers":  {Slot: wardrobe.SlotBottom, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldBottomRiseClass, FieldGroup)},
		"jeans":     {Slot: wardrobe.SlotBottom, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldBottomRiseClass)},
		"skirt":     {Slot: wardrobe.SlotBottom, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldBottomRiseClass, FieldGroup)},
		"shorts":    {Slot: wardrobe.SlotBottom, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile, FieldBottomRiseClass)},
		"dress":     {Slot: wardrobe.SlotOnePiece, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile)},
		"jumpsuit":  {Slot: wardrobe.SlotOnePiece, Applicable: allApplicable(FieldColor, FieldPattern, FieldPatternScale, FieldFitProfile)},
		"shoes":     {Slot: wardrobe.SlotFootwear, Applicable: allApplicable(FieldColor, FieldPattern, FieldFootwearClass, FieldLeatherFamily)},
		"boots":     {Slot: wardrobe.SlotFootwear, Applicable: allApplicable(FieldColor, FieldFootwearClass, FieldLeatherFamily)},
		"sneakers":  {Slot: wardrobe.SlotFootwear, Applicable: allApplicable(FieldColor, FieldPattern, FieldFootwearClass)},
		"bag":       {Slot: wardrobe.SlotBag, Applicable: allApplicable(FieldColor, FieldBagKind, FieldLeatherFamily)},
		"belt":      {Slot: wardrobe.SlotBelt, Applicable: allApplicable(FieldColor, FieldLeatherFamily, FieldMetalFamily, FieldMetalFinish)},
		"necklace":  {Slot: wardrobe.SlotJewelry, Applicable: allApplicable(FieldColor, FieldJewelryKind, FieldMetalFamily, FieldMetalFinish)},
		"earrings":  {Slot: wardrobe.SlotJewelry, Applicable: allApplicable(FieldJewelryKind, FieldMetalFamily, FieldMetalFinish)},
		"watch":     {Slot: wardrobe.SlotJewelry, Applicable: allApplicable(FieldJewelryKind, FieldMetalFamily, FieldMetalFinish)},
		"hat":       {Slot: wardrobe.SlotHeadwear, Applicable: allApplicable(FieldColor, FieldPattern)},
		"tights":    {Slot: wardrobe.SlotHosiery, Applicable: allApplicable(FieldColor, FieldPattern)},
		"socks":     {Slot: wardrobe.SlotHosiery, Applicable: allApplicable(FieldColor, FieldPattern)},
	}
}

// DefaultStyleTags is the closed style-tag vocabulary used by the reference
// ruleset.
func DefaultStyleTags() []string {
	return []string{
		"minimal", "classic", "business", "smart_casual", "streetwear",
		"athleisure", "romantic", "edgy", "preppy", "bohemian", "coastal",
		"formal", "workwear", "utility", "vintage", "monochrome", "colorful",
	}
}
