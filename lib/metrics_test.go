package sieveline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMetricsAdd(t *testing.T) {
	t.Parallel()

	var got Metrics
	for i := 0; i < 100; i++ {
		got.Add(&Sample{T: float64(i), V: float64(i + 1)})
	}
	got.Close()

	if got.Samples != 100 {
		t.Errorf("samples: got %d, want 100", got.Samples)
	}

	want := TimeMetrics{Earliest: 0, Latest: 99, Span: 99, MeanSpacing: 1}
	if !cmp.Equal(got.Time, want) {
		t.Errorf("time: got %+v, want %+v", got.Time, want)
	}

	v := got.Values
	if v.Min != 1 || v.Max != 100 {
		t.Errorf("min, max: got %g, %g, want 1, 100", v.Min, v.Max)
	}
	if math.Abs(v.Mean-50.5) > 1e-9 {
		t.Errorf("mean: got %g, want 50.5", v.Mean)
	}

	for _, q := range []struct {
		name      string
		got, want float64
	}{
		{"p50", v.P50, 50},
		{"p90", v.P90, 90},
		{"p95", v.P95, 95},
		{"p99", v.P99, 99},
	} {
		if math.Abs(q.got-q.want) > 2 {
			t.Errorf("%s: got %g, want %g within 2", q.name, q.got, q.want)
		}
	}
}

func TestMetricsGaps(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	var got Metrics
	for i, v := range []float64{1, nan, nan, 4, nan, 6} {
		got.Add(&Sample{T: float64(i), V: v})
	}
	got.Close()

	want := GapMetrics{Missing: 3, Runs: 2, Longest: 2}
	if !cmp.Equal(got.Gaps, want, cmp.AllowUnexported(GapMetrics{})) {
		t.Errorf("gaps: got %+v, want %+v", got.Gaps, want)
	}
	if got.Values.Min != 1 || got.Values.Max != 6 {
		t.Errorf("min, max: got %g, %g, want 1, 6", got.Values.Min, got.Values.Max)
	}
	if got.Samples != 6 {
		t.Errorf("samples: got %d, want 6", got.Samples)
	}
}

func TestMetricsFeatures(t *testing.T) {
	t.Parallel()

	var got Metrics
	got.AddFeatures(&FeatureSet{
		Peaks:   []int{1, 5, 9},
		Valleys: []int{3},
		Edges:   []int{7, 8},
	})

	want := FeatureMetrics{Peaks: 3, Valleys: 1, Edges: 2}
	if !cmp.Equal(got.Features, want) {
		t.Errorf("features: got %+v, want %+v", got.Features, want)
	}
}

func TestEstimators(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		e    Estimator
	}{
		{"quantile", NewQuantileEstimator(0.50, 0.99)},
		{"tdigest", NewTDigestEstimator(100)},
		{"gk", NewGKEstimator(0.01)},
		{"perks", NewPerksEstimator(0.50, 0.99)},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for i := 0; i < 1000; i++ {
				tc.e.Add(float64(i))
			}

			if got := tc.e.Get(0.50); math.Abs(got-500) > 25 {
				t.Errorf("p50: got %g, want 500 within 25", got)
			}
			if got := tc.e.Get(0.99); math.Abs(got-990) > 25 {
				t.Errorf("p99: got %g, want 990 within 25", got)
			}
		})
	}
}
