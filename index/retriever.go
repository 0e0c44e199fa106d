package index

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"outfitengine/ruleset"
	"outfitengine/wardrobe"
)

// candidateBatchSize bounds how many candidates a single retrieval pass
// fetches per owner scope before ranking and truncating to K.
const candidateBatchSize = 200

// Retriever builds per-slot filtered, ranked shortlists.
type Retriever struct {
	query IndexQuery
}

func NewRetriever(query IndexQuery) *Retriever {
	return &Retriever{query: query}
}

// Candidate is a scored, ready-to-consider item.
type Candidate struct {
	Item      wardrobe.Item
	Unary     float64
	OwnerRank int
}

// unaryScore combines formality closeness, temperature fit, style tag
// match, and 0.1*confidence into a single per-item ranking score.
func unaryScore(it wardrobe.Item, ctx wardrobe.Context, target int, profile wardrobe.Profile) float64 {
	formalityScore := 1 - absInt(it.Formality-target)/4.0
	temperatureScore := 0.0
	if ctx.TemperatureBand != "" && it.Seasonality.Has(ctx.TemperatureBand) {
		temperatureScore = 1.0
	}
	styleScore := jaccard(it.StyleTags, profile.StyleSignature)
	confidence := avgConfidence(it)
	return formalityScore + temperatureScore + styleScore + 0.1*confidence
}

func absInt(v int) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := map[string]bool{}
	for _, v := range a {
		setA[v] = true
	}
	setB := map[string]bool{}
	for _, v := range b {
		setB[v] = true
	}
	inter := 0
	union := map[string]bool{}
	for v := range setA {
		union[v] = true
		if setB[v] {
			inter++
		}
	}
	for v := range setB {
		union[v] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func avgConfidence(it wardrobe.Item) float64 {
	if len(it.Confidence) == 0 {
		return 1.0
	}
	var sum float64
	for _, v := range it.Confidence {
		sum += v
	}
	return sum / float64(len(it.Confidence))
}

// RetrieveSlot builds the ranked shortlist for one slot, querying wardrobe
// and (if allowCatalog) catalog scopes in parallel and merging
// deterministically, using a WaitGroup fan-out with per-goroutine error
// capture.
func (r *Retriever) RetrieveSlot(ctx context.Context, filters Filters, k int, allowCatalog bool, occContext wardrobe.Context, target int, profile wardrobe.Profile) ([]Candidate, error) {
	scopes := []wardrobe.Owner{wardrobe.OwnerWardrobe}
	if allowCatalog {
		scopes = append(scopes, wardrobe.OwnerCatalog)
	}

	type scopeResult struct {
		owner wardrobe.Owner
		docs  []Doc
		err   error
	}
	results := make([]scopeResult, len(scopes))
	var wg sync.WaitGroup
	for i, owner := range scopes {
		wg.Add(1)
		go func(i int, owner wardrobe.Owner) {
			defer wg.Done()
			docs, _, err := r.query.Search(ctx, owner, filters, candidateBatchSize, "")
			results[i] = scopeResult{owner: owner, docs: docs, err: err}
		}(i, owner)
	}
	wg.Wait()

	var candidates []Candidate
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		ownerRank := 0
		if res.owner == wardrobe.OwnerCatalog {
			ownerRank = 1
		}
		for _, doc := range res.docs {
			candidates = append(candidates, Candidate{
				Item:      doc.Item,
				Unary:     unaryScore(doc.Item, occContext, target, profile),
				OwnerRank: ownerRank,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Unary != candidates[j].Unary {
			return candidates[i].Unary > candidates[j].Unary
		}
		if candidates[i].OwnerRank != candidates[j].OwnerRank {
			return candidates[i].OwnerRank < candidates[j].OwnerRank
		}
		return candidates[i].Item.ItemID < candidates[j].Item.ItemID
	})

	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// DefaultK returns the default shortlist size: 40 for the anchor slot,
// 20 for others.
func DefaultK(isAnchor bool) int {
	if isAnchor {
		return 40
	}
	return 20
}

// RetrieveAllSlots fetches shortlists for every slot the template needs in
// parallel, bounded to GOMAXPROCS workers.
func (r *Retriever) RetrieveAllSlots(ctx context.Context, slots []wardrobe.Slot, anchor wardrobe.Slot, rs *ruleset.Set, occContext wardrobe.Context, profile wardrobe.Profile, allowCatalog bool, buildFilters func(wardrobe.Slot) Filters) (map[wardrobe.Slot][]Candidate, error) {
	target := occContext.EffectiveDressiness(profile)
	out := make(map[wardrobe.Slot][]Candidate, len(slots))
	var mu sync.Mutex
	var firstErr error

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot wardrobe.Slot) {
			defer wg.Done()
			defer func() { <-sem }()
			k := DefaultK(slot == anchor)
			cands, err := r.RetrieveSlot(ctx, buildFilters(slot), k, allowCatalog, occContext, target, profile)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			out[slot] = cands
		}(slot)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
