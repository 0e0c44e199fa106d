// Package constraints implements the hard-constraint engine: pure, monotone
// predicates over a partial bundle. If a partial violates a constraint
// here, no extension of it can satisfy that constraint again, which is
// what lets the beam search prune early.
package constraints

import (
	"fmt"

	"outfitengine/assembly"
	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

// Violation reports a hard-constraint failure.
type Violation struct {
	Code           string
	OffendingItems []string
	Reason         string
}

func (v Violation) Error() string { return fmt.Sprintf("%s: %s", v.Code, v.Reason) }

// Violation codes surfaced to callers via engine.Error's NO_BUNDLE detail.
const (
	CodeLayeringOrder      = "LAYERING_ORDER"
	CodeOnePieceExclusive  = "ONE_PIECE_EXCLUSIVITY"
	CodeStrictCoordBroken  = "STRICT_COORD_INTEGRITY"
	CodeStrictIncomplete   = "STRICT_COORD_INCOMPLETE"
	CodeFormalityBounds    = "FORMALITY_BOUNDS"
	CodeTemperatureSafety  = "TEMPERATURE_SAFETY"
	CodeCatalogCap         = "CATALOG_CAP"
	CodeBeltGate           = "BELT_GATE"
	CodeCoverage           = "COVERAGE"
)

// Check runs a single hard constraint against a partial bundle and returns
// a Violation if it fails, or nil.
type Check func(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation

// AllChecks returns the hard constraints safe to evaluate against a partial
// bundle at every expansion step. "coverage" and "belt_gate" are excluded:
// both presume a decision (full slot coverage, the belt slot specifically)
// that hasn't necessarily been made yet on a partial, so callers run them
// explicitly once the bundle is complete instead (see beam.bestTerminal;
// replace never re-litigates BeltGate since it only revisits one slot of an
// already-assembled bundle).
func AllChecks() map[string]Check {
	return map[string]Check{
		"layering_order":         LayeringOrder,
		"one_piece_exclusivity":  OnePieceExclusivity,
		"strict_coord_integrity": StrictCoordIntegrity,
		"formality_bounds":       FormalityBounds,
		"temperature_safety":     TemperatureSafety,
		"catalog_cap":            CatalogCap,
	}
}

// CheckAll runs every enabled per-step constraint and returns the first
// violation, if any. BeltGate and Coverage are completion-only and must be
// invoked separately once a bundle is fully built.
func CheckAll(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	for name, check := range AllChecks() {
		if !rs.ConstraintEnabled(name) {
			continue
		}
		if v := check(p, rs, ctx, profile); v != nil {
			return v
		}
	}
	return nil
}

// LayeringOrder requires that committed slots form a prefix-compatible
// subset of a topological order of the ruleset's layering graph: no
// committed slot may appear "after" a slot class it structurally conflicts
// with. Concretely, since commit order in beam search already follows the
// template's slot sequence, this check verifies the topological order
// itself exists (no cycle) and that all committed slots are known nodes.
func LayeringOrder(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	order, err := rs.Layering.TopoOrder()
	if err != nil {
		return &Violation{Code: CodeLayeringOrder, Reason: err.Error()}
	}
	for _, c := range p.Items {
		if ruleset.IndexOf(order, c.Slot) == -1 {
			return &Violation{Code: CodeLayeringOrder, OffendingItems: []string{c.Item.ItemID}, Reason: "slot not in layering graph: " + string(c.Slot)}
		}
	}
	return nil
}

// OnePieceExclusivity: if a one_piece item is present, no top/bottom/mid
// may be.
func OnePieceExclusivity(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	bySlot := p.ItemsBySlot()
	if len(bySlot[wardrobe.SlotOnePiece]) == 0 {
		return nil
	}
	for _, conflicting := range []wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotMid} {
		if items, ok := bySlot[conflicting]; ok && len(items) > 0 {
			offending := append([]string{}, itemIDs(bySlot[wardrobe.SlotOnePiece])...)
			offending = append(offending, itemIDs(items)...)
			return &Violation{Code: CodeOnePieceExclusive, OffendingItems: offending, Reason: "one_piece item conflicts with " + string(conflicting)}
		}
	}
	return nil
}

// StrictCoordIntegrity: once any strict-policy item is committed, every
// other committed item that carries a strict-policy group must be from the
// same group_id. Items without a group, or with a non-strict group, are not
// checked. Whether all of a group's members are present is not checked
// here; Coverage below covers only the part of that a partial can show.
func StrictCoordIntegrity(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	var strictGroup string
	for _, c := range p.Items {
		if c.Item.Group != nil && c.Item.Group.CohesionPolicy == wardrobe.CohesionStrict {
			strictGroup = c.Item.Group.GroupID
			break
		}
	}
	if strictGroup == "" {
		return nil
	}
	for _, c := range p.Items {
		if c.Item.Group != nil && c.Item.Group.CohesionPolicy == wardrobe.CohesionStrict && c.Item.Group.GroupID != strictGroup {
			return &Violation{Code: CodeStrictCoordBroken, OffendingItems: []string{c.Item.ItemID}, Reason: "item belongs to a different strict group"}
		}
	}
	return nil
}

// Coverage is a completion-only check: every
// required slot of the template is filled. Its strict-group part only
// re-checks the required co-ord slots that strict-group items already fill,
// so it does not report a required co-ord slot filled by an item outside the
// group, nor a group member that is missing from the bundle.
func Coverage(p assembly.PartialBundle, tmpl ruleset.Template) *Violation {
	bySlot := p.ItemsBySlot()
	for _, slot := range tmpl.RequiredSlots {
		if len(bySlot[slot]) == 0 {
			return &Violation{Code: CodeCoverage, Reason: "missing required slot " + string(slot)}
		}
	}
	groupID, wantSlots := strictGroupRequirement(p, tmpl)
	if groupID == "" {
		return nil
	}
	present := map[wardrobe.Slot]bool{}
	for _, c := range p.Items {
		if c.Item.Group != nil && c.Item.Group.GroupID == groupID {
			present[c.Slot] = true
		}
	}
	for _, slot := range wantSlots {
		if !present[slot] {
			return &Violation{Code: CodeStrictIncomplete, Reason: "strict group " + groupID + " missing slot " + string(slot)}
		}
	}
	return nil
}

// strictGroupRequirement returns the strict group id present in p (if any)
// and the template's required co-ord slots (top/bottom/mid/outer/one_piece)
// that strict-group items in p already fill.
func strictGroupRequirement(p assembly.PartialBundle, tmpl ruleset.Template) (string, []wardrobe.Slot) {
	var groupID string
	filledCoordSlots := map[wardrobe.Slot]bool{}
	for _, c := range p.Items {
		if c.Item.Group != nil && c.Item.Group.CohesionPolicy == wardrobe.CohesionStrict {
			groupID = c.Item.Group.GroupID
			filledCoordSlots[c.Slot] = true
		}
	}
	if groupID == "" {
		return "", nil
	}
	var want []wardrobe.Slot
	coordSlots := map[wardrobe.Slot]bool{
		wardrobe.SlotTop: true, wardrobe.SlotBottom: true, wardrobe.SlotMid: true,
		wardrobe.SlotOuter: true, wardrobe.SlotOnePiece: true,
	}
	for _, s := range tmpl.RequiredSlots {
		if coordSlots[s] && filledCoordSlots[s] {
			want = append(want, s)
		}
	}
	// The group's other members aren't visible to a predicate over the
	// partial alone, so want lists only slots already filled by strict-group
	// items; it never names a slot the group has not filled.
	return groupID, want
}

// FormalityBounds: every item's formality within target +/- ruleset
// tolerance.
func FormalityBounds(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	target := ctx.EffectiveDressiness(profile)
	lo := target - rs.Thresholds.FormalityToleranceLow
	hi := target + rs.Thresholds.FormalityToleranceHigh
	for _, c := range p.Items {
		if c.Item.Formality < lo || c.Item.Formality > hi {
			return &Violation{Code: CodeFormalityBounds, OffendingItems: []string{c.Item.ItemID}, Reason: fmt.Sprintf("formality %d outside [%d,%d]", c.Item.Formality, lo, hi)}
		}
	}
	return nil
}

// TemperatureSafety: no committed item's seasonality excludes the context's
// band.
func TemperatureSafety(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	if ctx.TemperatureBand == "" {
		return nil
	}
	for _, c := range p.Items {
		if !c.Item.Seasonality.Has(ctx.TemperatureBand) {
			return &Violation{Code: CodeTemperatureSafety, OffendingItems: []string{c.Item.ItemID}, Reason: "item unsuitable for " + string(ctx.TemperatureBand)}
		}
	}
	return nil
}

// CatalogCap: at most one owner=catalog item when allowed, zero otherwise.
func CatalogCap(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	count := 0
	var offending []string
	for _, c := range p.Items {
		if c.Item.Owner == wardrobe.OwnerCatalog {
			count++
			offending = append(offending, c.Item.ItemID)
		}
	}
	if !ctx.AllowCatalog && count > 0 {
		return &Violation{Code: CodeCatalogCap, OffendingItems: offending, Reason: "catalog items not allowed"}
	}
	if ctx.AllowCatalog && count > 1 {
		return &Violation{Code: CodeCatalogCap, OffendingItems: offending, Reason: "at most one catalog item allowed"}
	}
	return nil
}

// BeltGate is a template-specific gate: belt
// required if trousers have belt loops (approximated by bottom_rise_class
// != "elastic") and dressiness >= 4. It only fails once both a bottom and a
// belt-slot decision are visible, so it is evaluated at completion, not on
// every partial (see Coverage caller in the beam package).
func BeltGate(p assembly.PartialBundle, rs *ruleset.Set, ctx wardrobe.Context, profile wardrobe.Profile) *Violation {
	target := ctx.EffectiveDressiness(profile)
	if target < 4 {
		return nil
	}
	bySlot := p.ItemsBySlot()
	bottoms := bySlot[wardrobe.SlotBottom]
	if len(bottoms) == 0 {
		return nil
	}
	needsBelt := false
	for _, b := range bottoms {
		if b.BottomRiseClass != "elastic" {
			needsBelt = true
		}
	}
	if !needsBelt {
		return nil
	}
	if !p.HasSlot(wardrobe.SlotBelt) {
		// Only a violation once the slot ordering has passed the belt slot;
		// callers that check this mid-search should only invoke BeltGate
		// after the belt slot has been decided (see beam.go).
		return &Violation{Code: CodeBeltGate, Reason: "belt required at this dressiness for non-elastic trousers"}
	}
	return nil
}

func itemIDs(items []wardrobe.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ItemID
	}
	return out
}
