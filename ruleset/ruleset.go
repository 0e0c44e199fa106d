// Package ruleset holds the versioned, immutable rule set the engine
// captures once per request: layering graph, templates, hard-constraint
// specs, scoring weights, thresholds, and accessory-consistency mode.
package ruleset

import (
	"fmt"

	"outfitengine/wardrobe"
)

// AccessoryMode governs AccessoryConsistency scoring.
type AccessoryMode string

const (
	AccessoryStrictFamily AccessoryMode = "strict_family"
	AccessoryCoordinated  AccessoryMode = "coordinated"
	AccessoryFree         AccessoryMode = "free"
)

// LayeringGraph is a directed acyclic graph over slot classes describing
// wear order and coexistence.
type LayeringGraph struct {
	edges map[wardrobe.Slot][]wardrobe.Slot
	nodes map[wardrobe.Slot]bool
}

// NewLayeringGraph builds a graph from a node list and directed edges
// (from -> to, "from is worn before/under to").
func NewLayeringGraph(nodes []wardrobe.Slot, edges map[wardrobe.Slot][]wardrobe.Slot) *LayeringGraph {
	nodeSet := make(map[wardrobe.Slot]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}
	return &LayeringGraph{edges: edges, nodes: nodeSet}
}

// TopoOrder returns a stable topological order of the graph's nodes, or an
// error if a cycle is present. Ties are broken lexicographically by slot
// name so the order is deterministic across runs.
func (g *LayeringGraph) TopoOrder() ([]wardrobe.Slot, error) {
	indeg := make(map[wardrobe.Slot]int, len(g.nodes))
	for n := range g.nodes {
		indeg[n] = 0
	}
	for _, tos := range g.edges {
		for _, to := range tos {
			indeg[to]++
		}
	}
	var order []wardrobe.Slot
	remaining := len(g.nodes)
	visited := make(map[wardrobe.Slot]bool, len(g.nodes))
	for remaining > 0 {
		var next wardrobe.Slot
		found := false
		for n := range g.nodes {
			if visited[n] || indeg[n] != 0 {
				continue
			}
			if !found || n < next {
				next = n
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("ruleset: layering graph has a cycle")
		}
		visited[next] = true
		order = append(order, next)
		remaining--
		for _, to := range g.edges[next] {
			indeg[to]--
		}
	}
	return order, nil
}

// IndexOf returns the position of slot in a topological order, or -1.
func IndexOf(order []wardrobe.Slot, slot wardrobe.Slot) int {
	for i, s := range order {
		if s == slot {
			return i
		}
	}
	return -1
}

// Template is a per-occasion recipe: required/optional slots, an anchor
// slot, and a dressiness range.
type Template struct {
	TemplateID       string
	Occasion         string
	RequiredSlots    []wardrobe.Slot
	OptionalSlots    []wardrobe.Slot
	AnchorSlot       wardrobe.Slot // "" if no fixed anchor (resolved dynamically)
	MinDressiness    int
	MaxDressiness    int
	AccessoryMode    AccessoryMode
}

// AllSlots returns required followed by optional slots.
func (t Template) AllSlots() []wardrobe.Slot {
	out := make([]wardrobe.Slot, 0, len(t.RequiredSlots)+len(t.OptionalSlots))
	out = append(out, t.RequiredSlots...)
	out = append(out, t.OptionalSlots...)
	return out
}

func (t Template) IsRequired(slot wardrobe.Slot) bool {
	for _, s := range t.RequiredSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Weights holds the nonneg per-component soft-scoring weights. Zero values
// are used as given; they do not fall back to DefaultWeights.
type Weights struct {
	PaletteHarmony       float64
	PatternMix           float64
	SilhouetteBalance    float64
	FormalityCloseness   float64
	TemperatureFit       float64
	StyleTagMatch        float64
	NoveltyVariety       float64
	AccessoryConsistency float64
	SkinSynergy          float64
	ProportionFit        float64
}

// DefaultWeights returns the default weight vector.
func DefaultWeights() Weights {
	return Weights{
		PaletteHarmony:       0.22,
		PatternMix:           0.12,
		SilhouetteBalance:    0.12,
		FormalityCloseness:   0.14,
		TemperatureFit:       0.10,
		StyleTagMatch:        0.08,
		NoveltyVariety:       0.05,
		AccessoryConsistency: 0.07,
		SkinSynergy:          0.08,
		ProportionFit:        0.10,
	}
}

// Thresholds carries the tunable numeric bands the ruleset owns: ΔE bands,
// pattern caps, and two constants otherwise left as open questions.
type Thresholds struct {
	NeutralChroma float64 // default 10

	DeltaENear     float64
	DeltaESimilar  float64
	DeltaEDistant  float64

	MaxPatterns int // Pmax in PatternMix
	MaxScales   int

	FormalityToleranceLow  int
	FormalityToleranceHigh int

	NoveltyWindow int // N outfits in NoveltyVariety

	// PreferStrictBreakPenalty is subtracted from the aggregate when a
	// prefer_strict group is broken during replace planning, resolved here
	// as a ruleset-configured constant.
	PreferStrictBreakPenalty float64
}

// DefaultThresholds returns the reference numeric bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NeutralChroma:            10,
		DeltaENear:               8,
		DeltaESimilar:            15,
		DeltaEDistant:            25,
		MaxPatterns:              3,
		MaxScales:                2,
		FormalityToleranceLow:    1,
		FormalityToleranceHigh:   1,
		NoveltyWindow:            5,
		PreferStrictBreakPenalty: 0.15,
	}
}

// HardConstraintSpec configures a single hard constraint, allowing it to be
// tuned or disabled per ruleset without changing the constraint's code.
type HardConstraintSpec struct {
	Name    string
	Enabled bool
}

// Set is the full immutable, versioned rule set the engine captures once
// per request.
type Set struct {
	RulesetID string
	Version   string

	Layering  *LayeringGraph
	Templates map[string]Template

	HardConstraints map[string]HardConstraintSpec

	Weights    Weights
	Thresholds Thresholds

	AccessoryMode AccessoryMode

	AllowCatalogDefault bool

	CoordCapacity int // required same-group members per template; no constraint reads it
}

// SelectTemplate picks the template whose dressiness range contains
// targetDressiness and whose occasion matches;
// ties broken lexicographically by template id since no profile-affinity
// signal is modeled beyond dressiness/occasion matching.
func (s *Set) SelectTemplate(occasion string, targetDressiness int) (Template, bool) {
	var best Template
	found := false
	for _, tmpl := range s.Templates {
		if tmpl.Occasion != occasion {
			continue
		}
		if targetDressiness < tmpl.MinDressiness || targetDressiness > tmpl.MaxDressiness {
			continue
		}
		if !found || tmpl.TemplateID < best.TemplateID {
			best = tmpl
			found = true
		}
	}
	return best, found
}

// ConstraintEnabled reports whether a named hard constraint is active.
func (s *Set) ConstraintEnabled(name string) bool {
	spec, ok := s.HardConstraints[name]
	return !ok || spec.Enabled
}
