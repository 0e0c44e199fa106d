package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitengine/color"
	"outfitengine/dbhelper"
	"outfitengine/engine"
	"outfitengine/index"
	"outfitengine/registry"
	"outfitengine/ruleset"
	"outfitengine/test"
	"outfitengine/wardrobe"
)

type fakeRuleSets struct{ rs *ruleset.Set }

func (f fakeRuleSets) Current(ctx context.Context) (*ruleset.Set, error) { return f.rs, nil }

type fakeProfiles struct{ profile wardrobe.Profile }

func (f fakeProfiles) Snapshot(ctx context.Context, userID string) (wardrobe.Profile, error) {
	return f.profile, nil
}

type fakeWearHistory struct{}

func (fakeWearHistory) Recent(ctx context.Context, userID string, n int) ([]wardrobe.WearEntry, error) {
	return nil, nil
}
func (fakeWearHistory) RecordWorn(ctx context.Context, userID, itemID string, wornAt time.Time) error {
	return nil
}

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

type fakeBundles struct {
	saved map[string]engine.BundleRecord
}

func (f *fakeBundles) Save(ctx context.Context, userID string, b engine.BundleRecord) (string, error) {
	if f.saved == nil {
		f.saved = map[string]engine.BundleRecord{}
	}
	f.saved[b.BundleID] = b
	return b.BundleID, nil
}

func (f *fakeBundles) Load(ctx context.Context, userID, bundleID string) (engine.BundleRecord, error) {
	rec, ok := f.saved[bundleID]
	if !ok {
		return engine.BundleRecord{}, errors.New("bundle not found")
	}
	return rec, nil
}

type fakeFeedback struct{}

func (fakeFeedback) Record(ctx context.Context, f engine.Feedback) (engine.Feedback, error) {
	f.FeedbackID = "1"
	return f, nil
}

func officeWardrobeData() map[wardrobe.Owner]map[wardrobe.Slot][]wardrobe.Item {
	shirt := wardrobe.Item{
		ItemID: "shirt1", Owner: wardrobe.OwnerWardrobe, Role: "shirt", Slot: wardrobe.SlotTop,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 95, C: 2, H: 180}, FitProfile: wardrobe.FitOversized,
	}
	trousers := wardrobe.Item{
		ItemID: "trousers1", Owner: wardrobe.OwnerWardrobe, Role: "trousers", Slot: wardrobe.SlotBottom,
		Formality: 4, Seasonality: wardrobe.NewSeasonSet(wardrobe.SeasonWarm, wardrobe.SeasonMild),
		Color: &color.LCh{L: 25, C: 2, H: 250}, FitProfile: wardrobe.FitSlim, BottomRiseClass: "high_rise",
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
			wardrobe.SlotTop:      {shirt},
			wardrobe.SlotBottom:   {trousers},
			wardrobe.SlotFootwear: {shoes},
			wardrobe.SlotBelt:     {belt},
		},
	}
}

func newTestServer(t *testing.T) (*echo.Echo, uint) {
	t.Helper()
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	t.Cleanup(cleaner)

	user := test.FakeUser(db, "Test User", "")

	reg := registry.New(registry.DefaultRoles(), registry.DefaultStyleTags())
	rs := ruleset.DefaultRuleSet()
	profile := wardrobe.Profile{BaselineDressiness: 4}
	eng := engine.New(reg, fakeRuleSets{rs: rs}, fakeProfiles{profile: profile}, fakeWearHistory{},
		&fakeIndex{byOwnerSlot: officeWardrobeData()}, &fakeBundles{}, nil, engine.DefaultConfig())

	return SetupServer(db, eng, fakeFeedback{}), user.ID
}

func TestGenerate_HappyPath(t *testing.T) {
	e, userID := newTestServer(t)
	body := GenerateIn{Occasion: "work_office", TargetDressiness: 4, TemperatureBand: string(wardrobe.SeasonWarm)}
	req := test.NewJSONAuthRequest(http.MethodPost, "/outfits/generate", test.Uint64ToUserPk(userID), body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "bundle")
}

func TestGenerate_InvalidInput(t *testing.T) {
	e, userID := newTestServer(t)
	body := GenerateIn{TemperatureBand: string(wardrobe.SeasonWarm)}
	req := test.NewJSONAuthRequest(http.MethodPost, "/outfits/generate", test.Uint64ToUserPk(userID), body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_Unauthorized(t *testing.T) {
	e, _ := newTestServer(t)
	body := GenerateIn{Occasion: "work_office", TemperatureBand: string(wardrobe.SeasonWarm)}
	req := test.NewJSONRequest(http.MethodPost, "/outfits/generate", body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
