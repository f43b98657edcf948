package evaluator

// Scale is the maximum of a score range.
type Scale int

const (
	ScaleTen     Scale = 10
	ScaleHundred Scale = 100
)

// Normalize converts v from scale s to 0–100, clamped. Unknown scales are
// treated as already being 0–100.
func Normalize(v float64, s Scale) float64 {
	if s <= 0 {
		s = ScaleHundred
	}
	return clamp(v*100/float64(s), 0, 100)
}

// NormalizeLegacy converts a score whose scale was never recorded. Values
// up to 10 are taken as 0–10 scores; anything larger is already 0–100.
// A genuine 0–100 score of 10 or less is indistinguishable and gets
// scaled up, which is why new records always carry their scale.
func NormalizeLegacy(v float64) float64 {
	if v <= 10 {
		return Normalize(v, ScaleTen)
	}
	return Normalize(v, ScaleHundred)
}

// NormalizeStored converts a persisted score using its recorded scale
// marker (0 for unknown).
func NormalizeStored(v float64, scale int) float64 {
	switch Scale(scale) {
	case ScaleTen, ScaleHundred:
		return Normalize(v, Scale(scale))
	}
	return NormalizeLegacy(v)
}
