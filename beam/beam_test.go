package beam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitengine/color"
	"outfitengine/constraints"
	"outfitengine/index"
	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

type fakeIndex struct {
	byOwnerSlot map[wardrobe.Owner]map[wardrobe.Slot][]wardrobe.Item
}

func (f *fakeIndex) Search(ctx context.Context, owner wardrobe.Owner, filters index.Filters, limit int, cursor index.Cursor) ([]index.Doc, index.Cursor, error) {
	items := f.byOwnerSlot[owner][filters.Slot]
	docs := make([]index.Doc, len(items))
	for i, it := range items {
		docs[i] = index.Doc{Item: it, OwnerScope: owner}
	}
	return docs, "", nil
}

func officeWardrobe() map[wardrobe.Owner]map[wardrobe.Slot][]wardrobe.Item {
	g1 := &wardrobe.CoordGroup{GroupID: "g1", SetRole: "suit", CoordSetKind: "suit", CohesionPolicy: wardrobe.CohesionStrict}
	jacket := wardrobe.Item{
		ItemID: "jacket1", Owner: wardrobe.OwnerWardrobe, Role: "jacket", Slot: wardrobe.SlotOuter,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 25, C: 2, H: 250}, Group: g1, FitProfile: wardrobe.FitRegular, ShoulderStructure: wardrobe.ShoulderStructured,
	}
	trousers := wardrobe.Item{
		ItemID: "trousers1", Owner: wardrobe.OwnerWardrobe, Role: "trousers", Slot: wardrobe.SlotBottom,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 25, C: 2, H: 250}, Group: g1, FitProfile: wardrobe.FitSlim, BottomRiseClass: "high_rise",
	}
	shirt := wardrobe.Item{
		ItemID: "shirt1", Owner: wardrobe.OwnerWardrobe, Role: "shirt", Slot: wardrobe.SlotTop,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 95, C: 2, H: 180}, FitProfile: wardrobe.FitOversized,
	}
	shoes := wardrobe.Item{
		ItemID: "shoes1", Owner: wardrobe.OwnerWardrobe, Role: "shoes", Slot: wardrobe.SlotFootwear,
		Formality: 5, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 10, C: 1, H: 0}, FootwearClass: "oxford", LeatherFamily: "calf",
	}
	belt := wardrobe.Item{
		ItemID: "belt1", Owner: wardrobe.OwnerWardrobe, Role: "belt", Slot: wardrobe.SlotBelt,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 10, C: 1, H: 0}, LeatherFamily: "calf",
	}
	return map[wardrobe.Owner]map[wardrobe.Slot][]wardrobe.Item{
		wardrobe.OwnerWardrobe: {
			wardrobe.SlotOuter:    {jacket},
			wardrobe.SlotBottom:   {trousers},
			wardrobe.SlotTop:      {shirt},
			wardrobe.SlotFootwear: {shoes},
			wardrobe.SlotBelt:     {belt},
		},
	}
}

func TestGenerate_S1_OfficeWarmSolidSuit(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	fi := &fakeIndex{byOwnerSlot: officeWardrobe()}
	assembler := NewAssembler(index.NewRetriever(fi), DefaultBeamWidth)

	occCtx := wardrobe.Context{Occasion: "work_office", TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}
	profile := wardrobe.Profile{BaselineDressiness: 4}

	bundle, partial, err := assembler.Generate(context.Background(), rs, occCtx, profile, false, nil)
	require.NoError(t, err)
	require.False(t, partial)

	ids := map[string]bool{}
	for _, c := range bundle.Items {
		ids[c.Item.ItemID] = true
	}
	assert.True(t, ids["jacket1"])
	assert.True(t, ids["trousers1"])
	assert.True(t, ids["shirt1"])
	assert.True(t, ids["shoes1"])
	assert.Equal(t, 0, bundle.CatalogCount())

	for _, comp := range bundle.Components {
		if comp.Name == "palette_harmony" {
			assert.GreaterOrEqual(t, comp.Score, 0.7)
		}
	}
}

func TestGenerate_S2_StrictSetIncomplete(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	wardrobeData := officeWardrobe()
	delete(wardrobeData[wardrobe.OwnerWardrobe], wardrobe.SlotBottom)
	fi := &fakeIndex{byOwnerSlot: wardrobeData}
	assembler := NewAssembler(index.NewRetriever(fi), DefaultBeamWidth)

	occCtx := wardrobe.Context{Occasion: "work_office", TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}
	profile := wardrobe.Profile{BaselineDressiness: 4}

	_, _, err := assembler.Generate(context.Background(), rs, occCtx, profile, false, nil)
	require.Error(t, err)
	var noBundle *NoBundleError
	require.ErrorAs(t, err, &noBundle)
	assert.Equal(t, constraints.CodeStrictIncomplete, noBundle.DominantCode)
}

func TestGenerate_Deterministic(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	occCtx := wardrobe.Context{Occasion: "work_office", TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}
	profile := wardrobe.Profile{BaselineDressiness: 4}

	var ids [][]string
	for i := 0; i < 5; i++ {
		fi := &fakeIndex{byOwnerSlot: officeWardrobe()}
		assembler := NewAssembler(index.NewRetriever(fi), DefaultBeamWidth)
		bundle, _, err := assembler.Generate(context.Background(), rs, occCtx, profile, false, nil)
		require.NoError(t, err)
		var got []string
		for _, c := range bundle.Items {
			got = append(got, c.Item.ItemID)
		}
		ids = append(ids, got)
	}
	for i := 1; i < len(ids); i++ {
		assert.ElementsMatch(t, ids[0], ids[i])
	}
}
