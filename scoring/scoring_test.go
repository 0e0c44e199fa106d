package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitengine/color"
	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

func baseItems() []wardrobe.Item {
	return []wardrobe.Item{
		{
			ItemID: "top1", Owner: wardrobe.OwnerWardrobe, Role: "shirt", Slot: wardrobe.SlotTop,
			Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
			Color: &color.LCh{L: 95, C: 2, H: 180}, Pattern: "solid", FitProfile: wardrobe.FitRegular,
		},
		{
			ItemID: "bottom1", Owner: wardrobe.OwnerWardrobe, Role: "trousers", Slot: wardrobe.SlotBottom,
			Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
			Color: &color.LCh{L: 25, C: 2, H: 250}, Pattern: "solid", FitProfile: wardrobe.FitSlim, BottomRiseClass: "high_rise",
		},
		{
			ItemID: "shoes1", Owner: wardrobe.OwnerWardrobe, Role: "shoes", Slot: wardrobe.SlotFootwear,
			Formality: 5, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild, wardrobe.SeasonCool),
			Color: &color.LCh{L: 10, C: 1, H: 0},
		},
	}
}

func TestAggregate_ScoreBounds(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	in := Input{
		Items:   baseItems(),
		RuleSet: rs,
		Profile: wardrobe.Profile{BaselineDressiness: 4},
		Context: wardrobe.Context{TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm},
	}
	total, results := Aggregate(in)
	assert.GreaterOrEqual(t, total, 0.0)
	assert.LessOrEqual(t, total, 1.0)
	for _, r := range results {
		assert.GreaterOrEqualf(t, r.Score, 0.0, "%s score below 0", r.Name)
		assert.LessOrEqualf(t, r.Score, 1.0, "%s score above 1", r.Name)
	}
}

// TestAggregate_RoundTrip is universal property 10: reconstructing the
// aggregate from reported component scores and weights reproduces the
// reported aggregate within 1e-9.
func TestAggregate_RoundTrip(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	in := Input{
		Items:   baseItems(),
		RuleSet: rs,
		Profile: wardrobe.Profile{BaselineDressiness: 4},
		Context: wardrobe.Context{TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm},
	}
	total, results := Aggregate(in)
	var reconstructed float64
	for _, r := range results {
		reconstructed += r.Weight * r.Score * r.Confidence
	}
	require.InDelta(t, total, reconstructed, 1e-9)
}

// TestGracefulDegradation_SkinSynergy is universal property 5: removing
// appearance_signature leaves SkinSynergy's contribution at exactly
// 0.5 * weight, which requires Confidence == 1 (not 0.5) alongside
// Score == 0.5, since Aggregate multiplies weight*score*confidence.
func TestGracefulDegradation_SkinSynergy(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	profileNoAppearance := wardrobe.Profile{BaselineDressiness: 4}
	in := Input{Items: baseItems(), RuleSet: rs, Profile: profileNoAppearance, Context: wardrobe.Context{TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}}

	res := SkinSynergy(in)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, 1.0, res.Confidence)

	_, results := Aggregate(in)
	for _, r := range results {
		if r.Name == NameSkinSynergy {
			assert.InDelta(t, 0.5*r.Weight, r.Weight*r.Score*r.Confidence, 1e-9)
		}
	}
}

func TestGracefulDegradation_ProportionFit(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	profileNoBody := wardrobe.Profile{BaselineDressiness: 4}
	in := Input{Items: baseItems(), RuleSet: rs, Profile: profileNoBody, Context: wardrobe.Context{TargetDressiness: 4, TemperatureBand: wardrobe.SeasonWarm}}

	res := ProportionFit(in)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, 1.0, res.Confidence)

	_, results := Aggregate(in)
	for _, r := range results {
		if r.Name == NameProportionFit {
			assert.InDelta(t, 0.5*r.Weight, r.Weight*r.Score*r.Confidence, 1e-9)
		}
	}
}

// TestPaletteHarmony_LowColorConfidenceDiscountsContribution exercises
// wardrobe.Item.ConfidenceOf wiring: an inferred (low-confidence) color on
// one item pulls the whole component's confidence down to that item's
// value, since confidence_i is the min over inputs.
func TestPaletteHarmony_LowColorConfidenceDiscountsContribution(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	items := baseItems()
	items[1].Confidence = map[string]float64{"color": 0.4}
	res := PaletteHarmony(Input{Items: items, RuleSet: rs})
	assert.Equal(t, 0.4, res.Confidence)
}

func TestAccessoryConsistency_StrictModeMismatchIsZero(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	rs.AccessoryMode = ruleset.AccessoryStrictFamily
	items := []wardrobe.Item{
		{ItemID: "belt1", Slot: wardrobe.SlotBelt, LeatherFamily: "calfskin", MetalFamily: "gold", MetalFinish: "polished"},
		{ItemID: "bag1", Slot: wardrobe.SlotBag, LeatherFamily: "suede", MetalFamily: "silver", MetalFinish: "brushed"},
	}
	res := AccessoryConsistency(Input{Items: items, RuleSet: rs})
	assert.Equal(t, 0.0, res.Score)
}

func TestNoveltyVariety_RecentPenalized(t *testing.T) {
	rs := ruleset.DefaultRuleSet()
	items := baseItems()
	in := Input{Items: items, RuleSet: rs, WornRecently: map[string]int{"top1": 1}}
	res := NoveltyVariety(in)
	assert.Less(t, res.Score, 1.0)
}
