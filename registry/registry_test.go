package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outfitengine/color"
	"outfitengine/wardrobe"
)

func newDefaultRegistry() *Registry {
	return New(DefaultRoles(), DefaultStyleTags())
}

func TestValidate_UnknownRole(t *testing.T) {
	r := newDefaultRegistry()
	it := wardrobe.Item{ItemID: "x1", Role: "cape", Slot: wardrobe.SlotOuter}
	violations := r.Validate(it)
	if assert.Len(t, violations, 1) {
		assert.Equal(t, "role", violations[0].Field)
	}
}

func TestValidate_SlotMismatch(t *testing.T) {
	r := newDefaultRegistry()
	it := wardrobe.Item{
		ItemID: "x2", Role: "shirt", Slot: wardrobe.SlotBottom,
		Formality: 3, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm),
	}
	violations := r.Validate(it)
	found := false
	for _, v := range violations {
		if v.Field == "slot" {
			found = true
		}
	}
	assert.True(t, found, "expected a slot-mismatch violation")
}

func TestValidate_FieldNotApplicableToRole(t *testing.T) {
	r := newDefaultRegistry()
	// earrings carry no applicable color field.
	it := wardrobe.Item{
		ItemID: "x3", Role: "earrings", Slot: wardrobe.SlotJewelry,
		Formality: 3, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm),
		Color: &color.LCh{L: 50, C: 10, H: 30},
	}
	violations := r.Validate(it)
	found := false
	for _, v := range violations {
		if v.Field == FieldColor {
			found = true
		}
	}
	assert.True(t, found, "expected a color-not-applicable violation")
}

func TestValidate_UnknownStyleTag(t *testing.T) {
	r := newDefaultRegistry()
	it := wardrobe.Item{
		ItemID: "x4", Role: "shirt", Slot: wardrobe.SlotTop,
		Formality: 3, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm),
		StyleTags: []string{"not_a_real_tag"},
	}
	violations := r.Validate(it)
	found := false
	for _, v := range violations {
		if v.Field == "style_tags" {
			found = true
		}
	}
	assert.True(t, found, "expected an unknown-style-tag violation")
}

func TestValidate_ValidItemHasNoViolations(t *testing.T) {
	r := newDefaultRegistry()
	it := wardrobe.Item{
		ItemID: "x5", Role: "shirt", Slot: wardrobe.SlotTop,
		Formality: 3, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm),
		Color: &color.LCh{L: 50, C: 10, H: 30}, Pattern: "solid",
		StyleTags: []string{"minimal"},
	}
	assert.Empty(t, r.Validate(it))
}

func TestSlotOf_AndApplicableFields_CaseInsensitive(t *testing.T) {
	r := newDefaultRegistry()

	slot, ok := r.SlotOf("Shirt")
	assert.True(t, ok)
	assert.Equal(t, wardrobe.SlotTop, slot)

	fields := r.ApplicableFields("  SHIRT ")
	assert.True(t, fields[FieldColor])
}

func TestNormalizeTag_TrimsAndLowers(t *testing.T) {
	r := newDefaultRegistry()
	assert.Equal(t, "minimal", r.NormalizeTag("  Minimal  "))
}

func TestKnownTag_CaseInsensitive(t *testing.T) {
	r := newDefaultRegistry()
	assert.True(t, r.KnownTag("Streetwear"))
	assert.False(t, r.KnownTag("not_a_real_tag"))
}
