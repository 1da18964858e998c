package profile

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Calibration fitting constants.
const (
	// fitLowerQuantile / fitUpperQuantile trim outlier samples (tracker
	// glitches, entry/exit frames) before taking a range.
	fitLowerQuantile = 0.05
	fitUpperQuantile = 0.95

	// fitMinSpan is the smallest usable calibrated range; anything
	// narrower means the user barely moved during recording.
	fitMinSpan = 0.05

	// fitMinSamples is the minimum number of per-hand samples required
	// for a trustworthy fit.
	fitMinSamples = 20
)

// Sample is one recorded calibration observation: the filtered hand
// positions for one frame during the calibration sweep.
type Sample struct {
	LeftX, LeftY   float64
	RightX, RightY float64
	LeftPresent    bool
	RightPresent   bool
}

// Fit derives axis input ranges from recorded calibration samples and
// returns a new profile based on base with the fitted ranges. The
// ranges are taken from trimmed quantiles so a few tracker glitches
// during the sweep do not blow up the calibration. base is not modified.
func Fit(base *Profile, samples []Sample) (*Profile, error) {
	var leftX, rightX, ys, midX []float64

	for _, s := range samples {
		if s.LeftPresent {
			leftX = append(leftX, s.LeftX)
			ys = append(ys, s.LeftY)
		}
		if s.RightPresent {
			rightX = append(rightX, s.RightX)
			ys = append(ys, s.RightY)
		}
		if s.LeftPresent && s.RightPresent {
			midX = append(midX, (s.LeftX+s.RightX)/2)
		}
	}

	fitted := base.Clone()

	var err error
	if fitted.Axes.LeftBrake.Range, err = fitRange("left hand", leftX); err != nil {
		return nil, err
	}
	if fitted.Axes.RightBrake.Range, err = fitRange("right hand", rightX); err != nil {
		return nil, err
	}
	if fitted.Axes.SpeedBar.Range, err = fitRange("vertical", ys); err != nil {
		return nil, err
	}
	if fitted.Axes.WeightShift.Range, err = fitRange("hand midpoint", midX); err != nil {
		return nil, err
	}

	if err := fitted.Validate(); err != nil {
		return nil, err
	}

	return fitted, nil
}

// fitRange computes a trimmed-quantile range over the samples.
func fitRange(what string, values []float64) (AxisRange, error) {
	if len(values) < fitMinSamples {
		return AxisRange{}, fmt.Errorf("calibration: %d %s samples, need at least %d",
			len(values), what, fitMinSamples)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	r := AxisRange{
		Min: stat.Quantile(fitLowerQuantile, stat.Empirical, sorted, nil),
		Max: stat.Quantile(fitUpperQuantile, stat.Empirical, sorted, nil),
	}

	if r.Span() < fitMinSpan {
		return AxisRange{}, fmt.Errorf("calibration: %s range %.3f too narrow, move through the full travel",
			what, r.Span())
	}

	return r, nil
}
