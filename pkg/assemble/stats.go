package assemble

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SampleStats summarizes the finite samples of a trace. Non-finite samples
// are counted but excluded from the other fields.
type SampleStats struct {
	Count     int     `json:"count" msgpack:"count"`
	NonFinite int     `json:"non_finite" msgpack:"non_finite"`
	Min       float64 `json:"min" msgpack:"min"`
	Max       float64 `json:"max" msgpack:"max"`
	Mean      float64 `json:"mean" msgpack:"mean"`
	StdDev    float64 `json:"std_dev" msgpack:"std_dev"`
	PeakAbs   float64 `json:"peak_abs" msgpack:"peak_abs"`
}

// ComputeStats summarizes samples.
func ComputeStats(samples []float32) SampleStats {
	xs := make([]float64, 0, len(samples))
	nonFinite := 0
	for _, v := range samples {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			nonFinite++
			continue
		}
		xs = append(xs, f)
	}

	s := SampleStats{Count: len(xs), NonFinite: nonFinite}
	if len(xs) == 0 {
		return s
	}
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	s.Mean, s.StdDev = stat.PopMeanStdDev(xs, nil)
	s.PeakAbs = math.Max(math.Abs(s.Min), math.Abs(s.Max))
	return s
}
