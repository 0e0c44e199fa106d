// Package color implements the perceptual color math the assembly engine
// scores against: LCh values, CIEDE2000 difference, and hue-relation
// classification. All comparison in this codebase happens in LCh; nothing
// here touches RGB.
package color

import "math"

// LCh is a point in the CIE LCh(ab) color space.
type LCh struct {
	L float64 // lightness, 0..100
	C float64 // chroma, 0..~150
	H float64 // hue angle in degrees, [0,360)
}

// NeutralChroma is the default chroma threshold below which a color is
// treated as neutral for palette scoring purposes. Rulesets may override it
// via RuleSet.Thresholds.NeutralChroma.
const NeutralChroma = 10.0

// IsNeutral reports whether c should be treated as a neutral (grey/black/
// white-like) color given threshold cNeutral. Very high or very low
// lightness is neutral regardless of chroma, matching how near-white and
// near-black fabrics read as neutral even with some measured chroma noise.
func IsNeutral(c LCh, cNeutral float64) bool {
	if c.C < cNeutral {
		return true
	}
	return c.L <= 5 || c.L >= 97
}

// HueDelta returns the circular hue distance between a and b in [0,180].
func HueDelta(a, b LCh) float64 {
	d := math.Mod(math.Abs(a.H-b.H), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Relation classifies the hue relationship between two non-neutral colors.
type Relation int

const (
	RelationSame Relation = iota
	RelationAnalogous
	RelationTriadic
	RelationComplementary
	RelationUnrelated
)

func (r Relation) String() string {
	switch r {
	case RelationSame:
		return "same"
	case RelationAnalogous:
		return "analogous"
	case RelationTriadic:
		return "triadic"
	case RelationComplementary:
		return "complementary"
	default:
		return "unrelated"
	}
}

// ClassifyRelation buckets the hue delta between a and b: same (~0),
// analogous (<=30deg), triadic (110-130deg), complementary (>=150deg),
// otherwise unrelated.
func ClassifyRelation(a, b LCh) Relation {
	d := HueDelta(a, b)
	switch {
	case d <= 2:
		return RelationSame
	case d <= 30:
		return RelationAnalogous
	case d >= 110 && d <= 130:
		return RelationTriadic
	case d >= 150:
		return RelationComplementary
	default:
		return RelationUnrelated
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// toLab converts an LCh triple into Lab coordinates, the space CIEDE2000 is
// natively defined over.
func toLab(c LCh) (l, a, b float64) {
	l = c.L
	a = c.C * math.Cos(degToRad(c.H))
	b = c.C * math.Sin(degToRad(c.H))
	return
}

// DeltaE2000 computes the CIEDE2000 color difference between a and b,
// following the standard formula (Sharma, Wu & Dalal 2005) with the usual
// weighting factors kL=kC=kH=1.
func DeltaE2000(a, b LCh) float64 {
	l1, a1, b1 := toLab(a)
	l2, a2, b2 := toLab(b)

	const kL, kC, kH = 1.0, 1.0, 1.0

	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(a2, b2)
	cBar := (c1 + c2) / 2

	c7 := math.Pow(cBar, 7)
	g := 0.5 * (1 - math.Sqrt(c7/(c7+math.Pow(25, 7))))

	a1p := a1 * (1 + g)
	a2p := a2 * (1 + g)

	c1p := math.Hypot(a1p, b1)
	c2p := math.Hypot(a2p, b2)

	h1p := hueAngle(a1p, b1)
	h2p := hueAngle(a2p, b2)

	deltaLp := l2 - l1
	deltaCp := c2p - c1p

	var deltahp float64
	switch {
	case c1p*c2p == 0:
		deltahp = 0
	case math.Abs(h2p-h1p) <= 180:
		deltahp = h2p - h1p
	case h2p-h1p > 180:
		deltahp = h2p - h1p - 360
	default:
		deltahp = h2p - h1p + 360
	}
	deltaHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(degToRad(deltahp)/2)

	lBarp := (l1 + l2) / 2
	cBarp := (c1p + c2p) / 2

	var hBarp float64
	switch {
	case c1p*c2p == 0:
		hBarp = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hBarp = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hBarp = (h1p + h2p + 360) / 2
	default:
		hBarp = (h1p + h2p - 360) / 2
	}

	t := 1 - 0.17*math.Cos(degToRad(hBarp-30)) +
		0.24*math.Cos(degToRad(2*hBarp)) +
		0.32*math.Cos(degToRad(3*hBarp+6)) -
		0.20*math.Cos(degToRad(4*hBarp-63))

	deltaTheta := 30 * math.Exp(-math.Pow((hBarp-275)/25, 2))
	rc := 2 * math.Sqrt(math.Pow(cBarp, 7)/(math.Pow(cBarp, 7)+math.Pow(25, 7)))
	sl := 1 + (0.015*math.Pow(lBarp-50, 2))/math.Sqrt(20+math.Pow(lBarp-50, 2))
	sc := 1 + 0.045*cBarp
	sh := 1 + 0.015*cBarp*t
	rt := -math.Sin(degToRad(2*deltaTheta)) * rc

	termL := deltaLp / (kL * sl)
	termC := deltaCp / (kC * sc)
	termH := deltaHp / (kH * sh)

	return math.Sqrt(termL*termL + termC*termC + termH*termH + rt*termC*termH)
}

func hueAngle(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := radToDeg(math.Atan2(b, a))
	if h < 0 {
		h += 360
	}
	return h
}

// CircularStdDevHue returns the circular standard deviation, in degrees, of
// a set of hue angles. Used by PaletteHarmony to penalize a spread palette
// even when individual pairwise relations look acceptable.
func CircularStdDevHue(hues []float64) float64 {
	if len(hues) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	for _, h := range hues {
		sumSin += math.Sin(degToRad(h))
		sumCos += math.Cos(degToRad(h))
	}
	n := float64(len(hues))
	r := math.Hypot(sumSin/n, sumCos/n)
	if r >= 1 {
		return 0
	}
	return radToDeg(math.Sqrt(-2 * math.Log(r)))
}
