package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitengine/assembly"
	"outfitengine/color"
	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

func item(id string, slot wardrobe.Slot, formality int, seasons ...wardrobe.Seasonality) wardrobe.Item {
	return wardrobe.Item{
		ItemID:      id,
		Owner:       wardrobe.OwnerWardrobe,
		Role:        string(slot),
		Slot:        slot,
		Formality:   formality,
		Seasonality: wardrobe.NewSeasonSet(seasons...),
		Color:       &color.LCh{L: 50, C: 20, H: 100},
	}
}

func TestOnePieceExclusivity(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 3, TemperatureBand: wardrobe.SeasonWarm}
	profile := wardrobe.Profile{BaselineDressiness: 3}

	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotOnePiece, item("dress1", wardrobe.SlotOnePiece, 3, wardrobe.SeasonWarm))
	require.Nil(t, OnePieceExclusivity(p, rs, ctx, profile))

	p2 := p.Commit(wardrobe.SlotTop, item("top1", wardrobe.SlotTop, 3, wardrobe.SeasonWarm))
	v := OnePieceExclusivity(p2, rs, ctx, profile)
	require.NotNil(t, v)
	assert.Equal(t, CodeOnePieceExclusive, v.Code)
}

func TestStrictCoordIntegrity(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}
	profile := wardrobe.Profile{BaselineDressiness: 4}

	g1 := &wardrobe.CoordGroup{GroupID: "g1", SetRole: "suit", CoordSetKind: "suit", CohesionPolicy: wardrobe.CohesionStrict}
	jacket := item("jacket1", wardrobe.SlotOuter, 4, wardrobe.SeasonWarm)
	jacket.Group = g1
	trousers := item("trousers1", wardrobe.SlotBottom, 4, wardrobe.SeasonWarm)
	trousers.Group = g1

	other := &wardrobe.CoordGroup{GroupID: "g2", SetRole: "suit", CoordSetKind: "suit", CohesionPolicy: wardrobe.CohesionStrict}
	otherTrousers := item("trousers2", wardrobe.SlotBottom, 4, wardrobe.SeasonWarm)
	otherTrousers.Group = other

	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotOuter, jacket)
	p = p.Commit(wardrobe.SlotBottom, trousers)
	require.Nil(t, StrictCoordIntegrity(p, rs, ctx, profile))

	p2 := assembly.PartialBundle{}
	p2 = p2.Commit(wardrobe.SlotOuter, jacket)
	p2 = p2.Commit(wardrobe.SlotBottom, otherTrousers)
	v := StrictCoordIntegrity(p2, rs, ctx, profile)
	require.NotNil(t, v)
	assert.Equal(t, CodeStrictCoordBroken, v.Code)
}

func TestFormalityBounds(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 4}
	profile := wardrobe.Profile{BaselineDressiness: 4}
	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotTop, item("t1", wardrobe.SlotTop, 1, wardrobe.SeasonWarm))
	v := FormalityBounds(p, rs, ctx, profile)
	require.NotNil(t, v)
	assert.Equal(t, CodeFormalityBounds, v.Code)
}

func TestTemperatureSafety(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 3, TemperatureBand: wardrobe.SeasonCold}
	profile := wardrobe.Profile{BaselineDressiness: 3}
	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotTop, item("t1", wardrobe.SlotTop, 3, wardrobe.SeasonWarm))
	v := TemperatureSafety(p, rs, ctx, profile)
	require.NotNil(t, v)
	assert.Equal(t, CodeTemperatureSafety, v.Code)
}

func TestCatalogCap(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 3, AllowCatalog: false}
	profile := wardrobe.Profile{BaselineDressiness: 3}
	catalogItem := item("c1", wardrobe.SlotTop, 3, wardrobe.SeasonWarm)
	catalogItem.Owner = wardrobe.OwnerCatalog
	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotTop, catalogItem)
	v := CatalogCap(p, rs, ctx, profile)
	require.NotNil(t, v)
	assert.Equal(t, CodeCatalogCap, v.Code)
}

func TestCoverage_MissingRequiredSlot(t *testing.T) {
	tmpl := ruleset.DefaultTemplates()["casual_day"]
	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotTop, item("t1", wardrobe.SlotTop, 2, wardrobe.SeasonMild))
	v := Coverage(p, tmpl)
	require.NotNil(t, v)
	assert.Equal(t, CodeCoverage, v.Code)
}

// TestMonotonePruning_FormalityIsSticky is the direct analogue of universal property 2:
// once formality bounds fail on a partial, every extension keeps failing.
func TestMonotonePruning_FormalityIsSticky(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	ctx := wardrobe.Context{TargetDressiness: 4}
	profile := wardrobe.Profile{BaselineDressiness: 4}
	p := assembly.PartialBundle{}
	p = p.Commit(wardrobe.SlotTop, item("t1", wardrobe.SlotTop, 1, wardrobe.SeasonWarm))
	require.NotNil(t, FormalityBounds(p, rs, ctx, profile))

	extended := p.Commit(wardrobe.SlotBottom, item("b1", wardrobe.SlotBottom, 4, wardrobe.SeasonWarm))
	require.NotNil(t, FormalityBounds(extended, rs, ctx, profile))
}
