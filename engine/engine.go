package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"outfitengine/assembly"
	"outfitengine/beam"
	"outfitengine/index"
	"outfitengine/registry"
	"outfitengine/replace"
	"outfitengine/wardrobe"
)

// BundleRecord wraps a completed Bundle with the identity BundleStore needs.
type BundleRecord struct {
	BundleID string
	UserID   string
	Bundle   assembly.Bundle
}

// Config bounds the engine's resource usage.
type Config struct {
	InflightLimit      int
	BeamWidth          int
	DeadlineGenerate   time.Duration
	DeadlineReplace    time.Duration
}

// DefaultConfig sets the target latency budgets: P95 <=400ms generate,
// <=600ms replace.
func DefaultConfig() Config {
	return Config{
		InflightLimit:    64,
		BeamWidth:        beam.DefaultBeamWidth,
		DeadlineGenerate: 400 * time.Millisecond,
		DeadlineReplace:  600 * time.Millisecond,
	}
}

// Engine composes the assembly pipeline into the outward generate/
// replace/explain/record_feedback API.
type Engine struct {
	Registry   *registry.Registry
	RuleSets   RuleSetProvider
	Profiles   ProfileProvider
	WearHist   WearHistoryProvider
	Index      index.IndexQuery
	Bundles    BundleStore
	Clock      Clock
	Config     Config

	inflight chan struct{}
}

func New(reg *registry.Registry, rulesets RuleSetProvider, profiles ProfileProvider, wearHist WearHistoryProvider, idx index.IndexQuery, bundles BundleStore, clock Clock, cfg Config) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.InflightLimit <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		Registry: reg, RuleSets: rulesets, Profiles: profiles, WearHist: wearHist,
		Index: idx, Bundles: bundles, Clock: clock, Config: cfg,
		inflight: make(chan struct{}, cfg.InflightLimit),
	}
}

// acquire implements bounded inflight-requests backpressure, applying an
// asynq-style worker concurrency cap to synchronous request admission
// instead of queue draining.
func (e *Engine) acquire() (release func(), busy bool) {
	select {
	case e.inflight <- struct{}{}:
		return func() { <-e.inflight }, false
	default:
		return func() {}, true
	}
}

// GenerateResult is the outward result of generate().
type GenerateResult struct {
	Bundle       assembly.Bundle
	Alternatives []assembly.Bundle
	Err          *Error
}

// Generate assembles a new outfit bundle for userID given the occasion
// context, honoring allowCatalog and the deadline.
func (e *Engine) Generate(ctx context.Context, userID string, occCtx wardrobe.Context, allowCatalog bool, deadline time.Duration, traceID string) GenerateResult {
	release, busy := e.acquire()
	defer release()
	if busy {
		return GenerateResult{Err: newError(KindBusy, "inflight request limit reached", "", traceID)}
	}

	if deadline <= 0 {
		deadline = e.Config.DeadlineGenerate
	}
	reqCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	rs, err := e.RuleSets.Current(reqCtx)
	if err != nil {
		return GenerateResult{Err: newError(KindInternal, "ruleset unavailable: "+err.Error(), "", traceID)}
	}

	if userID == "" {
		return GenerateResult{Err: newError(KindInvalidInput, "user_id required", rs.Version, traceID)}
	}
	occCtx.AllowCatalog = allowCatalog

	profile, err := e.Profiles.Snapshot(reqCtx, userID)
	if err != nil {
		return GenerateResult{Err: newError(KindIndexError, "profile lookup failed: "+err.Error(), rs.Version, traceID)}
	}
	if occCtx.Occasion == "" && profile.DefaultOccasion == "" {
		return GenerateResult{Err: newError(KindInvalidInput, "occasion required", rs.Version, traceID)}
	}
	target := occCtx.EffectiveDressiness(profile)
	if target < 1 || target > 5 {
		return GenerateResult{Err: newError(KindInvalidInput, "target_dressiness must be within 1..5", rs.Version, traceID)}
	}

	wornRecently, err := e.recentWornMap(reqCtx, userID, rs.Thresholds.NoveltyWindow)
	if err != nil {
		return GenerateResult{Err: newError(KindIndexError, "wear history lookup failed: "+err.Error(), rs.Version, traceID)}
	}

	assembler := beam.NewAssembler(index.NewRetriever(e.Index), e.Config.BeamWidth)
	bundle, partial, err := assembler.Generate(reqCtx, rs, occCtx, profile, allowCatalog, wornRecently)
	if err != nil {
		return GenerateResult{Err: classifyBeamError(err, rs.Version, traceID)}
	}
	bundle.Partial = partial
	if partial {
		return GenerateResult{Bundle: bundle, Err: nil}
	}

	if e.Bundles != nil {
		bundleID := deterministicBundleID(userID, rs.Version, bundle)
		_, _ = e.Bundles.Save(reqCtx, userID, BundleRecord{BundleID: bundleID, UserID: userID, Bundle: bundle})
	}

	return GenerateResult{Bundle: bundle}
}

func classifyBeamError(err error, rulesetVersion, traceID string) *Error {
	switch e := err.(type) {
	case *beam.NoTemplateError:
		return newError(KindNoTemplate, e.Error(), rulesetVersion, traceID)
	case *beam.NoBundleError:
		out := newError(KindNoBundle, e.Error(), rulesetVersion, traceID)
		out.DominantViolation = e.DominantCode
		out.PruneSlot = string(e.Slot)
		return out
	case *beam.DeadlineError:
		return newError(KindDeadline, e.Error(), rulesetVersion, traceID)
	default:
		return newError(KindInternal, err.Error(), rulesetVersion, traceID)
	}
}

func (e *Engine) recentWornMap(ctx context.Context, userID string, window int) (map[string]int, error) {
	if window <= 0 {
		window = 5
	}
	entries, err := e.WearHist.Recent(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	now := e.Clock.Now().Unix()
	out := make(map[string]int, len(entries))
	for _, entry := range entries {
		ageDays := int((now - entry.WornAt) / 86400)
		if existing, ok := out[entry.ItemID]; !ok || ageDays < existing {
			out[entry.ItemID] = ageDays
		}
	}
	return out, nil
}

// ReplaceResult is the outward result of replace().
type ReplaceResult struct {
	Alternatives []replace.Alternative
	Err          *Error
}

// Replace re-plans a single slot of an existing bundle, either loaded by
// bundleID or supplied inline, honoring the deadline.
func (e *Engine) Replace(ctx context.Context, userID, bundleID string, existing *assembly.Bundle, slot wardrobe.Slot, occCtx wardrobe.Context, allowCatalog bool, deadline time.Duration, traceID string) ReplaceResult {
	release, busy := e.acquire()
	defer release()
	if busy {
		return ReplaceResult{Err: newError(KindBusy, "inflight request limit reached", "", traceID)}
	}

	if deadline <= 0 {
		deadline = e.Config.DeadlineReplace
	}
	reqCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	rs, err := e.RuleSets.Current(reqCtx)
	if err != nil {
		return ReplaceResult{Err: newError(KindInternal, "ruleset unavailable: "+err.Error(), "", traceID)}
	}

	var bundle assembly.Bundle
	switch {
	case existing != nil:
		bundle = *existing
	case bundleID != "" && e.Bundles != nil:
		rec, err := e.Bundles.Load(reqCtx, userID, bundleID)
		if err != nil {
			return ReplaceResult{Err: newError(KindInvalidInput, "bundle not found: "+err.Error(), rs.Version, traceID)}
		}
		bundle = rec.Bundle
	default:
		return ReplaceResult{Err: newError(KindInvalidInput, "bundle_id or bundle required", rs.Version, traceID)}
	}

	profile, err := e.Profiles.Snapshot(reqCtx, userID)
	if err != nil {
		return ReplaceResult{Err: newError(KindIndexError, "profile lookup failed: "+err.Error(), rs.Version, traceID)}
	}

	wornRecently, err := e.recentWornMap(reqCtx, userID, rs.Thresholds.NoveltyWindow)
	if err != nil {
		return ReplaceResult{Err: newError(KindIndexError, "wear history lookup failed: "+err.Error(), rs.Version, traceID)}
	}

	planner := replace.NewPlanner(index.NewRetriever(e.Index))
	alts, err := planner.Plan(reqCtx, bundle, slot, rs, occCtx, profile, allowCatalog, wornRecently)
	if err != nil {
		if _, ok := err.(*replace.NoSuchSlotError); ok {
			return ReplaceResult{Err: newError(KindInvalidInput, err.Error(), rs.Version, traceID)}
		}
		return ReplaceResult{Err: newError(KindIndexError, err.Error(), rs.Version, traceID)}
	}
	return ReplaceResult{Alternatives: alts}
}

// ExplainResult is the outward result of explain().
type ExplainResult struct {
	PerSlot      map[string]string
	PerComponent map[string]assembly.ComponentScore
}

// Explain returns per-slot and per-component explanations for bundle.
func (e *Engine) Explain(bundle assembly.Bundle) ExplainResult {
	perSlot := make(map[string]string, len(bundle.Items))
	for _, c := range bundle.Items {
		perSlot[string(c.Slot)] = fmt.Sprintf("%s (%s), formality %d", c.Item.Role, c.Item.ItemID, c.Item.Formality)
	}
	perComponent := make(map[string]assembly.ComponentScore, len(bundle.Components))
	for _, comp := range bundle.Components {
		perComponent[comp.Name] = comp
	}
	return ExplainResult{PerSlot: perSlot, PerComponent: perComponent}
}

// MakeDeterminismSeed hashes user id, ruleset version, template id, an
// optional determinism key, and the appearance/body signatures into a
// documented seed for future stochastic extensions; the current beam
// search is fully deterministic by tie-breaking and does not consume this
// seed for ordering.
func MakeDeterminismSeed(userID, rulesetVersion, templateID, determinismKey string, appearance wardrobe.AppearanceSignature, body wardrobe.BodySignature) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%+v|%+v", userID, rulesetVersion, templateID, determinismKey, appearance, body)
	return hex.EncodeToString(h.Sum(nil))
}

func deterministicBundleID(userID, rulesetVersion string, b assembly.Bundle) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", userID, rulesetVersion, b.TieBreakToken)
	return hex.EncodeToString(h.Sum(nil))[:24]
}
