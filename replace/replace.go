// Package replace implements the replace-with-cascade planner. Rescoring
// is fully policy-driven and respects the ruleset's tolerance bands and
// accessory mode rather than a fixed formality range.
package replace

import (
	"context"
	"sort"

	"outfitengine/assembly"
	"outfitengine/constraints"
	"outfitengine/index"
	"outfitengine/ruleset"
	"outfitengine/scoring"
	"outfitengine/wardrobe"
)

// Alternative is one candidate replacement.
type Alternative struct {
	ItemID          string
	NewScore        float64
	DeltaVsCurrent  float64
	RequiresCascade bool
	CascadePlan     *CascadePlan
	CoherenceReason string
}

// CascadePlan lists the other slots that must also be re-picked when a
// strict co-ord group is broken, plus the proposed replacement group.
type CascadePlan struct {
	AdditionalSlots   []wardrobe.Slot
	ReplacementGroupID string
	ReplacementItems  map[wardrobe.Slot]string // slot -> item_id proposed for that slot
}

// Planner runs replace-with-cascade planning.
type Planner struct {
	Retriever *index.Retriever
}

func NewPlanner(retriever *index.Retriever) *Planner {
	return &Planner{Retriever: retriever}
}

// Plan produces a ranked list of alternatives for the existing bundle and
// target slot, branching on the current item's cohesion policy.
func (p *Planner) Plan(ctx context.Context, current assembly.Bundle, targetSlot wardrobe.Slot, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, allowCatalog bool, wornRecently map[string]int) ([]Alternative, error) {
	committed, ok := current.ItemByID(itemIDAtSlot(current, targetSlot))
	if !ok {
		return nil, &NoSuchSlotError{Slot: targetSlot}
	}
	currentItem := committed.Item

	target := occCtx.EffectiveDressiness(profile)
	filters := index.Filters{
		Slot:          targetSlot,
		Seasonality:   occCtx.TemperatureBand,
		FormalityLow:  target - rs.Thresholds.FormalityToleranceLow,
		FormalityHigh: target + rs.Thresholds.FormalityToleranceHigh,
		ForbiddenTags: profile.Guardrails.Forbidden,
	}
	if currentItem.Group != nil && currentItem.Group.CohesionPolicy == wardrobe.CohesionStrict {
		filters.RequireGroupID = currentItem.Group.GroupID
	}

	k := index.DefaultK(false)
	candidates, err := p.Retriever.RetrieveSlot(ctx, filters, k*3, allowCatalog, occCtx, target, profile)
	if err != nil {
		return nil, err
	}

	fixed := fixedItems(current, targetSlot)

	switch {
	case currentItem.Group != nil && currentItem.Group.CohesionPolicy == wardrobe.CohesionStrict:
		return p.planStrict(current, currentItem, targetSlot, candidates, fixed, rs, occCtx, profile, wornRecently)
	case currentItem.Group != nil && currentItem.Group.CohesionPolicy == wardrobe.CohesionPreferStrict:
		return p.planPreferStrict(current, currentItem, targetSlot, candidates, fixed, rs, occCtx, profile, wornRecently)
	default:
		return p.planLoose(current, currentItem, targetSlot, candidates, fixed, rs, occCtx, profile, wornRecently)
	}
}

func itemIDAtSlot(b assembly.Bundle, slot wardrobe.Slot) string {
	for _, c := range b.Items {
		if c.Slot == slot {
			return c.Item.ItemID
		}
	}
	return ""
}

func fixedItems(b assembly.Bundle, excludeSlot wardrobe.Slot) []wardrobe.Item {
	var out []wardrobe.Item
	for _, c := range b.Items {
		if c.Slot == excludeSlot {
			continue
		}
		out = append(out, c.Item)
	}
	return out
}

// rescoreBundle scores fixed+candidate as a whole bundle, used to rank
// alternatives by full-bundle rescoring.
func rescoreBundle(fixed []wardrobe.Item, candidate wardrobe.Item, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int) float64 {
	items := append(append([]wardrobe.Item{}, fixed...), candidate)
	total, _ := scoring.Aggregate(scoring.Input{Items: items, RuleSet: rs, Profile: profile, Context: occCtx, WornRecently: wornRecently})
	return total
}

// passesHardConstraints rebuilds the candidate bundle (fixed slots plus the
// proposed replacement) and runs the per-step checks against it. BeltGate is
// deliberately not run here: replace touches a single slot of an
// already-assembled bundle, and re-litigating belt coverage on every
// unrelated slot swap would reject replacements that have nothing to do
// with the belt decision made when the bundle was first generated.
func passesHardConstraints(fixed []wardrobe.Item, slot wardrobe.Slot, candidate wardrobe.Item, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile) bool {
	p := assembly.PartialBundle{}
	for _, it := range fixed {
		p = p.Commit(it.Slot, it)
	}
	p = p.Commit(slot, candidate)
	return constraints.CheckAll(p, rs, occCtx, profile) == nil
}

// planStrict implements the "strict" branch: same-group alternatives
// only; a different group triggers a cascade plan.
func (p *Planner) planStrict(current assembly.Bundle, currentItem wardrobe.Item, slot wardrobe.Slot, candidates []index.Candidate, fixed []wardrobe.Item, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int) ([]Alternative, error) {
	baseScore := current.AggregateScore
	var out []Alternative
	for _, cand := range candidates {
		if cand.Item.ItemID == currentItem.ItemID {
			continue
		}
		sameGroup := cand.Item.Group != nil && currentItem.Group != nil && cand.Item.Group.GroupID == currentItem.Group.GroupID
		if !passesHardConstraints(fixed, slot, cand.Item, rs, occCtx, profile) {
			continue
		}
		newScore := rescoreBundle(fixed, cand.Item, rs, occCtx, profile, wornRecently)
		alt := Alternative{
			ItemID:         cand.Item.ItemID,
			NewScore:       newScore,
			DeltaVsCurrent: newScore - baseScore,
		}
		if sameGroup {
			alt.CoherenceReason = "same strict group"
		} else {
			alt.RequiresCascade = true
			alt.CascadePlan = buildCascadePlan(current, currentItem, slot, cand.Item, rs)
			alt.CoherenceReason = "different group, requires cascade"
		}
		out = append(out, alt)
	}
	sortAlternatives(out)
	return out, nil
}

// buildCascadePlan lists the other slots that must be re-picked when a
// strict group is broken: every other slot the current bundle fills with a
// member of the current strict group. ReplacementGroupID is the candidate's
// group; ReplacementItems is left empty, so no item is proposed for those
// slots.
func buildCascadePlan(current assembly.Bundle, currentItem wardrobe.Item, changedSlot wardrobe.Slot, candidate wardrobe.Item, rs *ruleset.Set) *CascadePlan {
	plan := &CascadePlan{ReplacementItems: map[wardrobe.Slot]string{}}
	if candidate.Group != nil {
		plan.ReplacementGroupID = candidate.Group.GroupID
	}
	for _, c := range current.Items {
		if c.Slot == changedSlot {
			continue
		}
		if c.Item.Group != nil && currentItem.Group != nil && c.Item.Group.GroupID == currentItem.Group.GroupID {
			plan.AdditionalSlots = append(plan.AdditionalSlots, c.Slot)
		}
	}
	return plan
}

// planPreferStrict implements the "prefer_strict" branch: same-group
// alternatives first, then other-group/unrelated with a penalty and a
// coherence reason, using the resolved PreferStrictBreakPenalty.
func (p *Planner) planPreferStrict(current assembly.Bundle, currentItem wardrobe.Item, slot wardrobe.Slot, candidates []index.Candidate, fixed []wardrobe.Item, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int) ([]Alternative, error) {
	baseScore := current.AggregateScore
	var out []Alternative
	for _, cand := range candidates {
		if cand.Item.ItemID == currentItem.ItemID {
			continue
		}
		if !passesHardConstraints(fixed, slot, cand.Item, rs, occCtx, profile) {
			continue
		}
		sameGroup := cand.Item.Group != nil && currentItem.Group != nil && cand.Item.Group.GroupID == currentItem.Group.GroupID
		newScore := rescoreBundle(fixed, cand.Item, rs, occCtx, profile, wornRecently)
		reason := "same group"
		if !sameGroup {
			newScore -= rs.Thresholds.PreferStrictBreakPenalty
			reason = "breaks preferred group, palette/pattern cohesion still applied"
		}
		out = append(out, Alternative{
			ItemID:          cand.Item.ItemID,
			NewScore:        newScore,
			DeltaVsCurrent:  newScore - baseScore,
			CoherenceReason: reason,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		// same-group alternatives rank ahead of every penalized one
		// whatever their scores; within each part, higher score first.
		iSame := out[i].CoherenceReason == "same group"
		jSame := out[j].CoherenceReason == "same group"
		if iSame != jSame {
			return iSame
		}
		if out[i].NewScore != out[j].NewScore {
			return out[i].NewScore > out[j].NewScore
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

// planLoose implements the "loose / not in a set" branch: candidates that
// pass the hard constraints are ranked by the rescored whole bundle (fixed
// items plus candidate); the candidate's unary retrieval score is not part
// of the ranking.
func (p *Planner) planLoose(current assembly.Bundle, currentItem wardrobe.Item, slot wardrobe.Slot, candidates []index.Candidate, fixed []wardrobe.Item, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int) ([]Alternative, error) {
	baseScore := current.AggregateScore
	var out []Alternative
	for _, cand := range candidates {
		if cand.Item.ItemID == currentItem.ItemID {
			continue
		}
		if !passesHardConstraints(fixed, slot, cand.Item, rs, occCtx, profile) {
			continue
		}
		newScore := rescoreBundle(fixed, cand.Item, rs, occCtx, profile, wornRecently)
		out = append(out, Alternative{
			ItemID:          cand.Item.ItemID,
			NewScore:        newScore,
			DeltaVsCurrent:  newScore - baseScore,
			CoherenceReason: "unaffiliated item ranked by compatibility with fixed items",
		})
	}
	sortAlternatives(out)
	return out, nil
}

func sortAlternatives(out []Alternative) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NewScore != out[j].NewScore {
			return out[i].NewScore > out[j].NewScore
		}
		return out[i].ItemID < out[j].ItemID
	})
}

// NoSuchSlotError reports the target slot has no committed item in the
// current bundle.
type NoSuchSlotError struct{ Slot wardrobe.Slot }

func (e *NoSuchSlotError) Error() string { return "replace: no item committed at slot " + string(e.Slot) }
