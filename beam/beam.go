// Package beam implements the beam search bundle assembler: template
// selection, anchor-first slot ordering, one-item-per-slot commits, and
// deterministic beam expansion/pruning/ranking.
package beam

import (
	"context"
	"sort"
	"sync"

	"outfitengine/assembly"
	"outfitengine/constraints"
	"outfitengine/index"
	"outfitengine/ruleset"
	"outfitengine/scoring"
	"outfitengine/wardrobe"
)

// DefaultBeamWidth is the default beam width.
const DefaultBeamWidth = 8

// maxCandidatesPerSlot bounds how many of a slot's retrieved candidates are
// actually tried per beam expansion step, grounded on the reference beam
// search's min(10, len(candidates)) cap, generalized to a named constant.
const maxCandidatesPerSlot = 10

// NoBundleError reports that hard constraints pruned every path.
type NoBundleError struct {
	DominantCode string
	Slot         wardrobe.Slot
}

func (e *NoBundleError) Error() string {
	return "beam: no terminal bundle survived hard constraints at slot " + string(e.Slot) + " (" + e.DominantCode + ")"
}

// Assembler runs the beam search.
type Assembler struct {
	Retriever  *index.Retriever
	BeamWidth  int
}

func NewAssembler(retriever *index.Retriever, beamWidth int) *Assembler {
	if beamWidth <= 0 {
		beamWidth = DefaultBeamWidth
	}
	return &Assembler{Retriever: retriever, BeamWidth: beamWidth}
}

// SelectTemplate picks the ruleset template matching the occasion and
// effective target dressiness.
func (a *Assembler) SelectTemplate(rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) (ruleset.Template, bool) {
	target := ctx.EffectiveDressiness(profile)
	occasion := ctx.Occasion
	if occasion == "" {
		occasion = profile.DefaultOccasion
	}
	return rs.SelectTemplate(occasion, target)
}

// OrderSlots orders a template's slots anchor first, then the remaining
// core slots, accessories last.
func OrderSlots(tmpl ruleset.Template) []wardrobe.Slot {
	accessorySlots := map[wardrobe.Slot]bool{
		wardrobe.SlotBag: true, wardrobe.SlotBelt: true, wardrobe.SlotJewelry: true,
		wardrobe.SlotHeadwear: true, wardrobe.SlotHosiery: true,
	}
	anchor := ResolveAnchor(tmpl)

	var ordered []wardrobe.Slot
	seen := map[wardrobe.Slot]bool{}
	if anchor != "" {
		ordered = append(ordered, anchor)
		seen[anchor] = true
	}
	all := tmpl.AllSlots()
	var core, accessories []wardrobe.Slot
	for _, s := range all {
		if seen[s] {
			continue
		}
		if accessorySlots[s] {
			accessories = append(accessories, s)
		} else {
			core = append(core, s)
		}
	}
	ordered = append(ordered, core...)
	ordered = append(ordered, accessories...)
	return ordered
}

// ResolveAnchor returns the one_piece slot when the template's required
// slots include it; otherwise the template's AnchorSlot when set; otherwise
// the first required slot (typically top).
func ResolveAnchor(tmpl ruleset.Template) wardrobe.Slot {
	for _, s := range tmpl.RequiredSlots {
		if s == wardrobe.SlotOnePiece {
			return s
		}
	}
	if tmpl.AnchorSlot != "" {
		return tmpl.AnchorSlot
	}
	if len(tmpl.RequiredSlots) > 0 {
		return tmpl.RequiredSlots[0]
	}
	return ""
}

// candidateFilters builds an index.Filters for slot given the current
// context and ruleset.
func candidateFilters(slot wardrobe.Slot, rs *ruleset.Set, ctx wardrobe.Context, target int, profile wardrobe.Profile) index.Filters {
	return index.Filters{
		Slot:          slot,
		Seasonality:   ctx.TemperatureBand,
		FormalityLow:  target - rs.Thresholds.FormalityToleranceLow,
		FormalityHigh: target + rs.Thresholds.FormalityToleranceHigh,
		ForbiddenTags: profile.Guardrails.Forbidden,
	}
}

// Generate runs the full beam search: template selection, slot ordering,
// beam init/expand/prune/rank, and completion selection.
func (a *Assembler) Generate(ctx context.Context, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, allowCatalog bool, wornRecently map[string]int) (assembly.Bundle, bool, error) {
	tmpl, ok := a.SelectTemplate(rs, occCtx, profile)
	if !ok {
		return assembly.Bundle{}, false, &NoTemplateError{Occasion: occCtx.Occasion}
	}

	slots := OrderSlots(tmpl)
	target := occCtx.EffectiveDressiness(profile)

	shortlists, err := a.Retriever.RetrieveAllSlots(ctx, slots, ResolveAnchor(tmpl), rs, occCtx, profile, allowCatalog, func(s wardrobe.Slot) index.Filters {
		return candidateFilters(s, rs, occCtx, target, profile)
	})
	if err != nil {
		return assembly.Bundle{}, false, err
	}

	beam := []assembly.PartialBundle{{}}
	var lastPruneCode string
	var lastPruneSlot wardrobe.Slot

	for _, slot := range slots {
		select {
		case <-ctx.Done():
			return a.bestTerminal(beam, rs, tmpl, occCtx, profile, wornRecently, true)
		default:
		}

		candidates := shortlists[slot]
		if len(candidates) > maxCandidatesPerSlot {
			candidates = candidates[:maxCandidatesPerSlot]
		}
		required := tmpl.IsRequired(slot)

		children := a.expandSlot(beam, slot, candidates, required, rs, occCtx, profile, wornRecently, &lastPruneCode, &lastPruneSlot)
		if len(children) == 0 {
			return assembly.Bundle{}, false, &NoBundleError{DominantCode: lastPruneCode, Slot: slot}
		}
		assembly.SortPartials(children)
		if len(children) > a.BeamWidth {
			children = children[:a.BeamWidth]
		}
		beam = children
	}

	return a.bestTerminal(beam, rs, tmpl, occCtx, profile, wornRecently, false)
}

// expandSlot commits each candidate (and, if optional, a skip) to every
// beam partial, in parallel per partial, pruning hard-constraint failures
// and scoring survivors. The merge back into a flat slice is deterministic
// because every survivor carries a total-ordered composite key.
func (a *Assembler) expandSlot(beam []assembly.PartialBundle, slot wardrobe.Slot, candidates []index.Candidate, required bool, rs *ruleset.Set, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int, lastPruneCode *string, lastPruneSlot *wardrobe.Slot) []assembly.PartialBundle {
	type job struct {
		partial assembly.PartialBundle
		item    *wardrobe.Item // nil means "skip"
	}
	var jobs []job
	for _, p := range beam {
		if !mustSkipDueToOnePiece(p, slot) {
			for i := range candidates {
				jobs = append(jobs, job{partial: p, item: &candidates[i].Item})
			}
		}
		if !required {
			jobs = append(jobs, job{partial: p, item: nil})
		}
	}

	if len(jobs) == 0 && required && len(candidates) == 0 {
		*lastPruneCode = constraints.CodeStrictIncomplete
		*lastPruneSlot = slot
		return nil
	}

	results := make([]*assembly.PartialBundle, len(jobs))
	violCodes := make([]string, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			next := j.partial
			if j.item != nil {
				next = groupAwareCommit(j.partial, slot, *j.item)
			}
			if v := constraints.CheckAll(next, rs, occCtx, profile); v != nil {
				violCodes[i] = v.Code
				return
			}
			total, comps := scoring.AggregateComponents(scoring.Input{
				Items: next.AllItems(), RuleSet: rs, Profile: profile, Context: occCtx, WornRecently: wornRecently,
			})
			next.RunningScore = total
			next.Components = comps
			results[i] = &next
		}(i, j)
	}
	wg.Wait()

	var survivors []assembly.PartialBundle
	for i, r := range results {
		if r != nil {
			survivors = append(survivors, *r)
		} else if violCodes[i] != "" {
			*lastPruneCode = violCodes[i]
			*lastPruneSlot = slot
		}
	}
	return survivors
}

// mustSkipDueToOnePiece keeps top/bottom/mid candidates from being committed
// once a one_piece item is already committed, applying the constraint
// directly at expansion time (in addition to being caught by the hard
// constraint check).
func mustSkipDueToOnePiece(p assembly.PartialBundle, slot wardrobe.Slot) bool {
	if slot != wardrobe.SlotTop && slot != wardrobe.SlotBottom && slot != wardrobe.SlotMid {
		return false
	}
	return p.HasSlot(wardrobe.SlotOnePiece)
}

// groupAwareCommit commits item to slot. Members of a strict co-ord group
// are committed one slot at a time like any other item: retrieval for later
// slots is not narrowed to the committed group, and partials that mix
// strict groups are pruned by constraints.StrictCoordIntegrity instead.
func groupAwareCommit(p assembly.PartialBundle, slot wardrobe.Slot, item wardrobe.Item) assembly.PartialBundle {
	return p.Commit(slot, item)
}

// bestTerminal picks the best terminal beam: among terminal beams with
// coverage satisfied, pick the argmax, tie-broken by fewer catalog items,
// then lower mean ΔE among near-face items, then lexicographic item-id
// tuple (already embedded in the composite key).
func (a *Assembler) bestTerminal(beam []assembly.PartialBundle, rs *ruleset.Set, tmpl ruleset.Template, occCtx wardrobe.Context, profile wardrobe.Profile, wornRecently map[string]int, deadlineHit bool) (assembly.Bundle, bool, error) {
	var terminal []assembly.PartialBundle
	var lastCode string
	for _, p := range beam {
		if v := constraints.Coverage(p, tmpl); v != nil {
			lastCode = v.Code
			continue
		}
		if rs.ConstraintEnabled("belt_gate") {
			if v := constraints.BeltGate(p, rs, occCtx, profile); v != nil {
				lastCode = v.Code
				continue
			}
		}
		terminal = append(terminal, p)
	}
	if len(terminal) == 0 {
		if deadlineHit {
			return assembly.Bundle{}, true, &DeadlineError{}
		}
		return assembly.Bundle{}, false, &NoBundleError{DominantCode: lastCode}
	}

	skin := profile.Appearance.SkinLCh
	sort.SliceStable(terminal, func(i, j int) bool {
		ci, cj := terminal[i].AllItems(), terminal[j].AllItems()
		if terminal[i].RunningScore != terminal[j].RunningScore {
			return terminal[i].RunningScore > terminal[j].RunningScore
		}
		catI, catJ := catalogCount(ci), catalogCount(cj)
		if catI != catJ {
			return catI < catJ
		}
		if profile.Appearance.Present {
			deltaI, deltaJ := wardrobe.MeanNearFaceDeltaE(ci, skin), wardrobe.MeanNearFaceDeltaE(cj, skin)
			if deltaI != deltaJ {
				return deltaI < deltaJ
			}
		}
		return terminal[i].Key().Token < terminal[j].Key().Token
	})

	best := terminal[0]
	return assembly.FromPartial(best, tmpl.TemplateID, rs.Version, deadlineHit), deadlineHit, nil
}

func catalogCount(items []wardrobe.Item) int {
	n := 0
	for _, it := range items {
		if it.Owner == wardrobe.OwnerCatalog {
			n++
		}
	}
	return n
}

// NoTemplateError reports no template matched the occasion+dressiness.
type NoTemplateError struct{ Occasion string }

func (e *NoTemplateError) Error() string { return "beam: no template matches occasion " + e.Occasion }

// DeadlineError reports the search ran out of budget with no terminal at
// all.
type DeadlineError struct{}

func (e *DeadlineError) Error() string { return "beam: deadline exceeded before any terminal bundle" }
