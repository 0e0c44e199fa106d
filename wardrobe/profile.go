package wardrobe

import "outfitengine/color"

// Undertone is a skin undertone classification used by SkinSynergy.
type Undertone string

const (
	UndertoneWarm    Undertone = "warm"
	UndertoneCool    Undertone = "cool"
	UndertoneNeutral Undertone = "neutral"
	UndertoneOlive   Undertone = "olive"
)

// SynergyStyle picks whether skin-color pairing should contrast or
// harmonize; "auto" derives the choice from Undertone.
type SynergyStyle string

const (
	SynergyContrast  SynergyStyle = "contrast"
	SynergyHarmonize SynergyStyle = "harmonize"
	SynergyAuto      SynergyStyle = "auto"
)

// AppearanceSignature is an optional per-user signal for SkinSynergy.
// Present==false means "absent"; dependent scoring falls back to neutral.
type AppearanceSignature struct {
	Present      bool
	SkinLCh      color.LCh
	Undertone    Undertone
	SynergyStyle SynergyStyle
}

// HeightClass is a coarse body-height bucket used by ProportionFit.
type HeightClass string

const (
	HeightPetite  HeightClass = "petite"
	HeightAverage HeightClass = "average"
	HeightTall    HeightClass = "tall"
)

// TorsoLegRatio buckets relative torso/leg length.
type TorsoLegRatio string

const (
	RatioLongTorso TorsoLegRatio = "long_torso"
	RatioBalanced  TorsoLegRatio = "balanced"
	RatioLongLeg   TorsoLegRatio = "long_leg"
)

// ShoulderToHipRatio buckets upper/lower body proportion.
type ShoulderToHipRatio string

const (
	ShoulderHipBroadShoulder ShoulderToHipRatio = "broad_shoulder"
	ShoulderHipBalanced      ShoulderToHipRatio = "balanced"
	ShoulderHipBroadHip      ShoulderToHipRatio = "broad_hip"
)

// WaistDefinition buckets how defined the waist is.
type WaistDefinition string

const (
	WaistDefined   WaistDefinition = "defined"
	WaistModerate  WaistDefinition = "moderate"
	WaistUndefined WaistDefinition = "undefined"
)

// FitPreference is a user's stated garment-fit leaning.
type FitPreference string

const (
	FitPrefFitted  FitPreference = "fitted"
	FitPrefNeutral FitPreference = "neutral"
	FitPrefRelaxed FitPreference = "relaxed"
)

// BodySignature is an optional per-user signal for ProportionFit.
type BodySignature struct {
	Present            bool
	HeightClass        HeightClass
	TorsoLegRatio      TorsoLegRatio
	ShoulderToHipRatio ShoulderToHipRatio
	WaistDefinition    WaistDefinition
	FitPreference      FitPreference
}

// Guardrails are hard style-tag exclusions/preferences layered on top of
// StyleTagMatch scoring.
type Guardrails struct {
	Forbidden []string
	Preferred []string
}

// Profile is the per-user styling profile.
type Profile struct {
	UserID             string
	BaselineDressiness int // 1..5
	DefaultOccasion    string
	StyleSignature     []string
	Guardrails         Guardrails
	Appearance         AppearanceSignature
	Body               BodySignature
}

// TemperatureBand is the coarse weather bucket a context targets.
type TemperatureBand = Seasonality

// Context is the per-request occasion context.
type Context struct {
	Occasion         string
	TargetDressiness int // overrides Profile.BaselineDressiness when > 0
	TemperatureBand  TemperatureBand
	EventTags        []string
	AllowCatalog     bool
	// Seed is reserved for future stochastic extensions; unused by the
	// current deterministic assembler.
	Seed *int64
}

// EffectiveDressiness resolves the target dressiness, preferring the
// context override over the profile baseline.
func (c Context) EffectiveDressiness(p Profile) int {
	if c.TargetDressiness > 0 {
		return c.TargetDressiness
	}
	return p.BaselineDressiness
}
