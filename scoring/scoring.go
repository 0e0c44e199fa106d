// Package scoring implements the soft-scoring engine: ten pure,
// deterministic components, each returning a score in [0,1] and an
// explanation, aggregated by ruleset weights renormalized over all ten
// components; a component whose input is absent (e.g. SkinSynergy without an
// appearance signature) stays in with a neutral 0.5 score. Palette harmony
// works on hue relations; CIEDE2000 distance is used by SkinSynergy.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"outfitengine/assembly"
	"outfitengine/color"
	"outfitengine/registry"
	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

// Names of the ten soft components, used as ComponentScore.Name and as the
// keys of ruleset.Weights lookups.
const (
	NamePaletteHarmony       = "palette_harmony"
	NamePatternMix           = "pattern_mix"
	NameSilhouetteBalance    = "silhouette_balance"
	NameFormalityCloseness   = "formality_closeness"
	NameTemperatureFit       = "temperature_fit"
	NameStyleTagMatch        = "style_tag_match"
	NameNoveltyVariety       = "novelty_variety"
	NameAccessoryConsistency = "accessory_consistency"
	NameSkinSynergy          = "skin_synergy"
	NameProportionFit        = "proportion_fit"
)

// Result is a single component's evaluation.
type Result struct {
	Name        string
	Score       float64
	Confidence  float64
	Explanation string
	Weight      float64 // renormalized weight actually applied, set by Aggregate
}

// Input bundles everything a component function needs. WornRecently maps
// item id to age in days since last worn (from WearHistoryProvider),
// omitted entries mean "not recently worn".
type Input struct {
	Items          []wardrobe.Item
	RuleSet        *ruleset.Set
	Profile        wardrobe.Profile
	Context        wardrobe.Context
	WornRecently   map[string]int
}

// minColorConfidence returns the lowest per-item color confidence among
// items; items without a color don't constrain a color-dependent component.
func minColorConfidence(items []wardrobe.Item) float64 {
	min := 1.0
	seen := false
	for _, it := range items {
		if !it.HasColor() {
			continue
		}
		seen = true
		if c := it.ConfidenceOf(registry.FieldColor); c < min {
			min = c
		}
	}
	if !seen {
		return 1.0
	}
	return min
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PaletteHarmony scores the pairwise color relations among non-neutral
// items, penalizing hue spread and rewarding neutrals as boosters.
func PaletteHarmony(in Input) Result {
	cNeutral := in.RuleSet.Thresholds.NeutralChroma
	var chromatic, colored []wardrobe.Item
	neutralCount := 0
	for _, it := range in.Items {
		if !it.HasColor() {
			continue
		}
		colored = append(colored, it)
		if color.IsNeutral(*it.Color, cNeutral) {
			neutralCount++
		} else {
			chromatic = append(chromatic, it)
		}
	}
	confidence := minColorConfidence(colored)
	if len(chromatic) == 0 {
		return Result{Name: NamePaletteHarmony, Score: 0.9, Confidence: confidence, Explanation: "all-neutral palette"}
	}
	if len(chromatic) == 1 {
		score := clamp01(0.8 + 0.05*float64(neutralCount))
		return Result{Name: NamePaletteHarmony, Score: score, Confidence: confidence, Explanation: "single accent color with neutrals"}
	}

	relationBase := map[color.Relation]float64{
		color.RelationSame:          0.8,
		color.RelationAnalogous:     0.9,
		color.RelationComplementary: 0.85,
		color.RelationTriadic:       0.7,
		color.RelationUnrelated:     0.3,
	}
	counts := map[color.Relation]int{}
	var hues []float64
	for i := 0; i < len(chromatic); i++ {
		hues = append(hues, chromatic[i].Color.H)
		for j := i + 1; j < len(chromatic); j++ {
			rel := color.ClassifyRelation(*chromatic[i].Color, *chromatic[j].Color)
			counts[rel]++
		}
	}
	dominant := color.RelationUnrelated
	best := -1
	for rel, c := range counts {
		if c > best {
			best = c
			dominant = rel
		}
	}
	base := relationBase[dominant]
	sigma := color.CircularStdDevHue(hues)
	spreadFactor := 1 - math.Min(1, sigma/60)
	score := base * spreadFactor
	score = clamp01(score + 0.1*math.Min(1, float64(neutralCount)/2))

	return Result{
		Name:        NamePaletteHarmony,
		Score:       score,
		Confidence:  confidence,
		Explanation: fmt.Sprintf("dominant relation %s, hue spread %.1f deg, %d neutrals", dominant, sigma, neutralCount),
	}
}

// PatternMix penalizes stacking too many non-solid patterns and repeated
// pattern scales.
func PatternMix(in Input) Result {
	pMax := in.RuleSet.Thresholds.MaxPatterns
	if pMax < 2 {
		pMax = 2
	}
	nonSolid := 0
	scaleCounts := map[string]int{}
	for _, it := range in.Items {
		if it.Pattern != "" && it.Pattern != "solid" {
			nonSolid++
		}
		if it.PatternScale != "" {
			scaleCounts[it.PatternScale]++
		}
	}
	score := 1 - math.Max(0, float64(nonSolid-1))/float64(pMax-1)
	score = clamp01(score)
	repeatedScales := 0
	for _, c := range scaleCounts {
		if c > 1 {
			repeatedScales += c - 1
		}
	}
	if repeatedScales > 0 {
		score = clamp01(score - 0.1*float64(repeatedScales))
	}
	return Result{
		Name:        NamePatternMix,
		Score:       score,
		Confidence:  1,
		Explanation: fmt.Sprintf("%d non-solid patterns, %d repeated pattern scales", nonSolid, repeatedScales),
	}
}

// SilhouetteBalance rewards contrast of volume between top and bottom and
// penalizes stacking more than one structured layer.
func SilhouetteBalance(in Input) Result {
	var top, bottom *wardrobe.Item
	structuredLayers := 0
	for i := range in.Items {
		it := &in.Items[i]
		switch it.Slot {
		case wardrobe.SlotTop:
			top = it
		case wardrobe.SlotBottom, wardrobe.SlotOnePiece:
			if bottom == nil {
				bottom = it
			}
		}
		if it.ShoulderStructure == wardrobe.ShoulderStructured && (it.Slot == wardrobe.SlotOuter || it.Slot == wardrobe.SlotTop || it.Slot == wardrobe.SlotMid) {
			structuredLayers++
		}
	}
	var base float64
	explanation := "insufficient volume data"
	if top != nil && bottom != nil && top.FitProfile != "" && bottom.FitProfile != "" {
		oversizedSet := map[wardrobe.FitProfile]bool{wardrobe.FitRelaxed: true, wardrobe.FitOversized: true}
		fittedSet := map[wardrobe.FitProfile]bool{wardrobe.FitSlim: true, wardrobe.FitRegular: true}
		switch {
		case (oversizedSet[top.FitProfile] && fittedSet[bottom.FitProfile]) || (fittedSet[top.FitProfile] && oversizedSet[bottom.FitProfile]):
			base = 1.0
			explanation = "contrasting top/bottom volume"
		case top.FitProfile == bottom.FitProfile:
			base = 0.6
			explanation = "matching top/bottom volume"
		default:
			base = 0.75
			explanation = "partial volume contrast"
		}
	} else {
		base = 0.5
	}
	if structuredLayers > 1 {
		base = clamp01(base - 0.15*float64(structuredLayers-1))
		explanation += fmt.Sprintf(", %d stacked structured layers", structuredLayers)
	}
	return Result{Name: NameSilhouetteBalance, Score: clamp01(base), Confidence: 1, Explanation: explanation}
}

// FormalityCloseness scores how close the (weighted) average formality is
// to the target, weighting top/outer/footwear 2x.
func FormalityCloseness(in Input) Result {
	target := in.Context.EffectiveDressiness(in.Profile)
	var sum, weight float64
	for _, it := range in.Items {
		w := 1.0
		if it.Slot == wardrobe.SlotTop || it.Slot == wardrobe.SlotOuter || it.Slot == wardrobe.SlotFootwear {
			w = 2.0
		}
		sum += float64(it.Formality) * w
		weight += w
	}
	if weight == 0 {
		return Result{Name: NameFormalityCloseness, Score: 0.5, Confidence: 1, Explanation: "no items"}
	}
	avg := sum / weight
	score := clamp01(1 - math.Abs(avg-float64(target))/4)
	return Result{Name: NameFormalityCloseness, Score: score, Confidence: 1, Explanation: fmt.Sprintf("avg formality %.2f vs target %d", avg, target)}
}

// TemperatureFit is the fraction of items suitable for the band, with a
// bonus if an outer layer is present for a cold band.
func TemperatureFit(in Input) Result {
	if in.Context.TemperatureBand == "" || len(in.Items) == 0 {
		return Result{Name: NameTemperatureFit, Score: 0.5, Confidence: 1, Explanation: "no temperature band"}
	}
	fit := 0
	hasOuter := false
	for _, it := range in.Items {
		if it.Seasonality.Has(in.Context.TemperatureBand) {
			fit++
		}
		if it.Slot == wardrobe.SlotOuter {
			hasOuter = true
		}
	}
	score := float64(fit) / float64(len(in.Items))
	if in.Context.TemperatureBand == wardrobe.SeasonCold && hasOuter {
		score = clamp01(score + 0.1)
	}
	return Result{Name: NameTemperatureFit, Score: clamp01(score), Confidence: 1, Explanation: fmt.Sprintf("%d/%d items suitable for %s", fit, len(in.Items), in.Context.TemperatureBand)}
}

// StyleTagMatch is the Jaccard overlap of the union of item tags with the
// profile's style signature, bounded to zero by any forbidden tag.
func StyleTagMatch(in Input) Result {
	tagSet := map[string]bool{}
	for _, it := range in.Items {
		for _, t := range it.StyleTags {
			tagSet[t] = true
			for _, forbidden := range in.Profile.Guardrails.Forbidden {
				if t == forbidden {
					return Result{Name: NameStyleTagMatch, Score: 0, Confidence: 1, Explanation: "forbidden tag present: " + t}
				}
			}
		}
	}
	if len(in.Profile.StyleSignature) == 0 || len(tagSet) == 0 {
		return Result{Name: NameStyleTagMatch, Score: 0.5, Confidence: 1, Explanation: "no style signature to compare"}
	}
	sigSet := map[string]bool{}
	for _, t := range in.Profile.StyleSignature {
		sigSet[t] = true
	}
	intersection := 0
	union := map[string]bool{}
	for t := range tagSet {
		union[t] = true
		if sigSet[t] {
			intersection++
		}
	}
	for t := range sigSet {
		union[t] = true
	}
	score := 0.0
	if len(union) > 0 {
		score = float64(intersection) / float64(len(union))
	}
	return Result{Name: NameStyleTagMatch, Score: clamp01(score), Confidence: 1, Explanation: fmt.Sprintf("jaccard overlap %d/%d", intersection, len(union))}
}

// NoveltyVariety penalizes items worn in the last N outfits, decayed by
// age in days.
func NoveltyVariety(in Input) Result {
	if len(in.WornRecently) == 0 || len(in.Items) == 0 {
		return Result{Name: NameNoveltyVariety, Score: 1.0, Confidence: 1, Explanation: "no recent wear history"}
	}
	var penalty float64
	hit := 0
	for _, it := range in.Items {
		age, worn := in.WornRecently[it.ItemID]
		if !worn {
			continue
		}
		hit++
		decay := math.Exp(-float64(age) / 7.0)
		penalty += decay
	}
	score := clamp01(1 - penalty/float64(len(in.Items)))
	return Result{Name: NameNoveltyVariety, Score: score, Confidence: 1, Explanation: fmt.Sprintf("%d/%d items recently worn", hit, len(in.Items))}
}

// AccessoryConsistency enforces the ruleset's accessory-consistency mode.
func AccessoryConsistency(in Input) Result {
	mode := in.RuleSet.AccessoryMode
	if mode == ruleset.AccessoryFree {
		return Result{Name: NameAccessoryConsistency, Score: 1, Confidence: 1, Explanation: "free accessory mode"}
	}
	var leatherFamilies, metalFamilies, metalFinishes []string
	for _, it := range in.Items {
		if it.LeatherFamily != "" {
			leatherFamilies = append(leatherFamilies, it.LeatherFamily)
		}
		if it.MetalFamily != "" {
			metalFamilies = append(metalFamilies, it.MetalFamily)
			metalFinishes = append(metalFinishes, it.MetalFinish)
		}
	}
	mismatches := countMismatches(leatherFamilies) + countMismatches(metalFamilies) + countMismatches(metalFinishes)
	if mode == ruleset.AccessoryStrictFamily {
		if mismatches > 0 {
			return Result{Name: NameAccessoryConsistency, Score: 0, Confidence: 1, Explanation: fmt.Sprintf("%d family/finish mismatches under strict mode", mismatches)}
		}
		return Result{Name: NameAccessoryConsistency, Score: 1, Confidence: 1, Explanation: "consistent families under strict mode"}
	}
	// coordinated: at most one mismatch tolerated with linear decay.
	score := clamp01(1 - 0.5*float64(mismatches))
	return Result{Name: NameAccessoryConsistency, Score: score, Confidence: 1, Explanation: fmt.Sprintf("%d mismatches under coordinated mode", mismatches)}
}

func countMismatches(values []string) int {
	if len(values) < 2 {
		return 0
	}
	first := values[0]
	mismatches := 0
	for _, v := range values[1:] {
		if v != first {
			mismatches++
		}
	}
	return mismatches
}

// SkinSynergy scores near-face items' color against skin tone, only when an
// appearance signature is present.
func SkinSynergy(in Input) Result {
	if !in.Profile.Appearance.Present {
		return Result{Name: NameSkinSynergy, Score: 0.5, Confidence: 1, Explanation: "no appearance signature"}
	}
	appearance := in.Profile.Appearance
	var deltas []float64
	var nearFace []wardrobe.Item
	for _, it := range in.Items {
		if !wardrobe.NearFaceSlots[it.Slot] || !it.HasColor() {
			continue
		}
		nearFace = append(nearFace, it)
		deltas = append(deltas, color.DeltaE2000(appearance.SkinLCh, *it.Color))
	}
	if len(deltas) == 0 {
		return Result{Name: NameSkinSynergy, Score: 0.5, Confidence: 1, Explanation: "no near-face colored items"}
	}
	confidence := minColorConfidence(nearFace)
	style := appearance.SynergyStyle
	if style == "" || style == wardrobe.SynergyAuto {
		style = autoSynergyStyle(appearance.Undertone)
	}
	var bandCenter, bandWidth float64
	if style == wardrobe.SynergyContrast {
		bandCenter, bandWidth = 25, 12
	} else {
		bandCenter, bandWidth = 15, 8
	}
	var total float64
	for _, d := range deltas {
		dev := (d - bandCenter) / bandWidth
		total += math.Exp(-0.5 * dev * dev)
	}
	score := clamp01(total / float64(len(deltas)))
	return Result{Name: NameSkinSynergy, Score: score, Confidence: confidence, Explanation: fmt.Sprintf("%s synergy over %d near-face items", style, len(deltas))}
}

func autoSynergyStyle(u wardrobe.Undertone) wardrobe.SynergyStyle {
	switch u {
	case wardrobe.UndertoneWarm, wardrobe.UndertoneOlive:
		return wardrobe.SynergyHarmonize
	default:
		return wardrobe.SynergyContrast
	}
}

// ProportionFit looks up a body-signature rule table when a body signature
// is present.
func ProportionFit(in Input) Result {
	if !in.Profile.Body.Present {
		return Result{Name: NameProportionFit, Score: 0.5, Confidence: 1, Explanation: "no body signature"}
	}
	body := in.Profile.Body
	var bottomRise string
	var outerLong bool
	for _, it := range in.Items {
		if it.Slot == wardrobe.SlotBottom {
			bottomRise = it.BottomRiseClass
		}
		if it.Slot == wardrobe.SlotOuter && it.TopLengthClass == "long" {
			outerLong = true
		}
	}
	score := 0.6
	reasons := []string{}
	if body.TorsoLegRatio == wardrobe.RatioLongTorso && bottomRise == "high_rise" {
		score += 0.2
		reasons = append(reasons, "long torso + high rise bottom")
	}
	if body.HeightClass == wardrobe.HeightPetite && outerLong {
		score -= 0.2
		reasons = append(reasons, "petite + long outer")
	}
	if body.ShoulderToHipRatio == wardrobe.ShoulderHipBroadShoulder {
		for _, it := range in.Items {
			if it.Slot == wardrobe.SlotOuter && it.ShoulderStructure == wardrobe.ShoulderStructured {
				score -= 0.1
				reasons = append(reasons, "broad shoulder + structured outer")
			}
		}
	}
	explanation := "neutral proportion fit"
	if len(reasons) > 0 {
		explanation = fmt.Sprintf("%v", reasons)
	}
	return Result{Name: NameProportionFit, Score: clamp01(score), Confidence: 1, Explanation: explanation}
}

// Aggregate runs all ten components and returns the weighted-and-confidence
// -scaled aggregate score plus per-component contributions: weights
// renormalized over all ten components, final score = sum(w_i * s_i *
// confidence_i).
func Aggregate(in Input) (float64, []Result) {
	w := in.RuleSet.Weights
	compute := []struct {
		name   string
		weight float64
		fn     func(Input) Result
	}{
		{NamePaletteHarmony, w.PaletteHarmony, PaletteHarmony},
		{NamePatternMix, w.PatternMix, PatternMix},
		{NameSilhouetteBalance, w.SilhouetteBalance, SilhouetteBalance},
		{NameFormalityCloseness, w.FormalityCloseness, FormalityCloseness},
		{NameTemperatureFit, w.TemperatureFit, TemperatureFit},
		{NameStyleTagMatch, w.StyleTagMatch, StyleTagMatch},
		{NameNoveltyVariety, w.NoveltyVariety, NoveltyVariety},
		{NameAccessoryConsistency, w.AccessoryConsistency, AccessoryConsistency},
		{NameSkinSynergy, w.SkinSynergy, SkinSynergy},
		{NameProportionFit, w.ProportionFit, ProportionFit},
	}

	results := make([]Result, len(compute))
	totalWeight := 0.0
	for i, c := range compute {
		results[i] = c.fn(in)
		totalWeight += c.weight
	}

	if totalWeight == 0 {
		totalWeight = 1
	}
	var aggregate float64
	for i, c := range compute {
		normalizedWeight := c.weight / totalWeight
		results[i].Weight = normalizedWeight
		aggregate += normalizedWeight * results[i].Score * results[i].Confidence
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return clamp01(aggregate), results
}

// AggregateComponents adapts Aggregate's output into assembly.ComponentScore,
// the shape the beam search and replace planner carry inside a partial.
func AggregateComponents(in Input) (float64, []assembly.ComponentScore) {
	total, results := Aggregate(in)
	out := make([]assembly.ComponentScore, len(results))
	for i, r := range results {
		out[i] = assembly.ComponentScore{
			Name:        r.Name,
			Score:       r.Score,
			Weight:      r.Weight,
			Confidence:  r.Confidence,
			Explanation: r.Explanation,
		}
	}
	return total, out
}
