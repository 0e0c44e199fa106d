// Package assembly holds the shapes the beam search and replace planner
// build and return: partial and completed bundles, per-component scores and
// explanations.
package assembly

import (
	"sort"
	"strings"

	"outfitengine/wardrobe"
)

// Committed is one (slot -> item) commitment inside a partial or completed
// bundle.
type Committed struct {
	Slot wardrobe.Slot
	Item wardrobe.Item
}

// ComponentScore is a single soft-scoring component's contribution.
type ComponentScore struct {
	Name        string
	Score       float64 // in [0,1]
	Weight      float64 // renormalized weight actually applied
	Confidence  float64
	Explanation string
}

// PartialBundle is the beam search's working state: a set of committed
// (slot, item) pairs plus enough context to keep expanding and scoring it.
type PartialBundle struct {
	Items []Committed

	// TieBreakToken accumulates item ids in commit order, used as the
	// final lexicographic tie-breaker.
	TieBreakToken []string

	RunningScore float64
	Components   []ComponentScore
}

// Clone returns a deep-enough copy for beam expansion (item structs are
// value types, so a slice copy suffices).
func (p PartialBundle) Clone() PartialBundle {
	items := make([]Committed, len(p.Items))
	copy(items, p.Items)
	tok := make([]string, len(p.TieBreakToken))
	copy(tok, p.TieBreakToken)
	comps := make([]ComponentScore, len(p.Components))
	copy(comps, p.Components)
	return PartialBundle{Items: items, TieBreakToken: tok, RunningScore: p.RunningScore, Components: comps}
}

// Commit returns a new partial with (slot, item) appended.
func (p PartialBundle) Commit(slot wardrobe.Slot, item wardrobe.Item) PartialBundle {
	next := p.Clone()
	next.Items = append(next.Items, Committed{Slot: slot, Item: item})
	next.TieBreakToken = append(next.TieBreakToken, item.ItemID)
	return next
}

// ItemsBySlot indexes committed items by slot for O(1) constraint checks.
func (p PartialBundle) ItemsBySlot() map[wardrobe.Slot][]wardrobe.Item {
	out := make(map[wardrobe.Slot][]wardrobe.Item, len(p.Items))
	for _, c := range p.Items {
		out[c.Slot] = append(out[c.Slot], c.Item)
	}
	return out
}

// HasSlot reports whether any item occupies slot.
func (p PartialBundle) HasSlot(slot wardrobe.Slot) bool {
	for _, c := range p.Items {
		if c.Slot == slot {
			return true
		}
	}
	return false
}

// AllItems returns the flat item list.
func (p PartialBundle) AllItems() []wardrobe.Item {
	out := make([]wardrobe.Item, len(p.Items))
	for i, c := range p.Items {
		out[i] = c.Item
	}
	return out
}

// TieBreakKey is the composite sort key used for deterministic ordering:
// higher running score first, then lexicographically smaller tie-break
// token.
type TieBreakKey struct {
	Score float64
	Token string
}

func (p PartialBundle) Key() TieBreakKey {
	sorted := make([]string, len(p.TieBreakToken))
	copy(sorted, p.TieBreakToken)
	sort.Strings(sorted)
	return TieBreakKey{Score: p.RunningScore, Token: strings.Join(sorted, "\x00")}
}

// Less orders two partials by the composite key: higher score wins, ties
// broken by lexicographically smaller token.
func Less(a, b PartialBundle) bool {
	ka, kb := a.Key(), b.Key()
	if ka.Score != kb.Score {
		return ka.Score > kb.Score
	}
	return ka.Token < kb.Token
}

// SortPartials sorts a slice of partials by the composite key, in place.
func SortPartials(partials []PartialBundle) {
	sort.SliceStable(partials, func(i, j int) bool { return Less(partials[i], partials[j]) })
}

// Bundle is the completed, returned outfit.
type Bundle struct {
	Items            []Committed
	AggregateScore   float64
	Components       []ComponentScore
	Explanations     map[string]string
	RulesetVersion   string
	TemplateID       string
	TieBreakToken    string
	Partial          bool // true if returned early on deadline
}

// FromPartial finalizes a terminal partial into a returned Bundle.
func FromPartial(p PartialBundle, templateID, rulesetVersion string, partial bool) Bundle {
	explanations := make(map[string]string, len(p.Components))
	for _, c := range p.Components {
		explanations[c.Name] = c.Explanation
	}
	return Bundle{
		Items:          append([]Committed{}, p.Items...),
		AggregateScore: p.RunningScore,
		Components:     append([]ComponentScore{}, p.Components...),
		Explanations:   explanations,
		RulesetVersion: rulesetVersion,
		TemplateID:     templateID,
		TieBreakToken:  p.Key().Token,
		Partial:        partial,
	}
}

// CatalogCount returns the number of owner=catalog items in the bundle.
func (b Bundle) CatalogCount() int {
	n := 0
	for _, c := range b.Items {
		if c.Item.Owner == wardrobe.OwnerCatalog {
			n++
		}
	}
	return n
}

// ItemByID finds a committed item by id.
func (b Bundle) ItemByID(id string) (Committed, bool) {
	for _, c := range b.Items {
		if c.Item.ItemID == id {
			return c, true
		}
	}
	return Committed{}, false
}
