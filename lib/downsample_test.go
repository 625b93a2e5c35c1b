package sieveline

import (
	"errors"
	"math"
	"testing"

	lttbref "github.com/dgryski/go-lttb"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestLTTBIdentity(t *testing.T) {
	t.Parallel()

	ts := []float64{0, 1, 2, 3, 4}
	vs := []float64{5, 3, 8, 1, 9}

	res, err := LTTB(ts, vs, 10)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := res.T, ts; !cmp.Equal(got, want) {
		t.Errorf("t: got %v, want %v", got, want)
	}
	if got, want := res.V, vs; !cmp.Equal(got, want) {
		t.Errorf("v: got %v, want %v", got, want)
	}
	if got, want := res.Indices, []int{0, 1, 2, 3, 4}; !cmp.Equal(got, want) {
		t.Errorf("indices: got %v, want %v", got, want)
	}
}

func TestLTTBValidation(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name      string
		t, v      []float64
		maxPoints int
	}{
		{"mismatched lengths", []float64{0, 1, 2}, []float64{0, 1}, 10},
		{"zero max points", []float64{0, 1, 2}, []float64{0, 1, 2}, 0},
		{"negative max points", []float64{0, 1, 2}, []float64{0, 1, 2}, -5},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := LTTB(tc.t, tc.v, tc.maxPoints)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("got %v, want *ValidationError", err)
			}
		})
	}
}

func TestLTTBEndpointsOnly(t *testing.T) {
	t.Parallel()

	ts := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	vs := []float64{1, 9, 2, 8, 3, 7, 4, 6}

	res, err := LTTB(ts, vs, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := res.Indices, []int{0, 7}; !cmp.Equal(got, want) {
		t.Errorf("indices: got %v, want %v", got, want)
	}
}

// A reduced sine must keep roughly the zero crossing count of the original.
func TestLTTBShape(t *testing.T) {
	t.Parallel()

	const n = 1000
	ts := make([]float64, n)
	vs := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) / float64(n-1) * 31
		vs[i] = math.Sin(ts[i])
	}

	res, err := LTTB(ts, vs, 100)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := res.Len(), 100; got != want {
		t.Fatalf("len: got %d, want %d", got, want)
	}

	orig, down := zeroCrossings(vs), zeroCrossings(res.V)
	if d := orig - down; d < -2 || d > 2 {
		t.Errorf("zero crossings: got %d, want within 2 of %d", down, orig)
	}
}

func zeroCrossings(v []float64) (n int) {
	for i := 1; i < len(v); i++ {
		if v[i-1]*v[i] < 0 {
			n++
		}
	}
	return n
}

func TestLTTBFeaturePreservation(t *testing.T) {
	t.Parallel()

	// A slow ramp with one narrow spike. With feature bias the spike index
	// must survive a 10x reduction.
	const n, spike = 200, 57
	ts := make([]float64, n)
	vs := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)
		vs[i] = float64(i) * 0.01
	}
	vs[spike] = 5

	feats := FeatureDetector{}.Detect(ts, vs)
	if !containsIndex(feats.Peaks, spike) {
		t.Fatalf("detector missed the spike: peaks %v", feats.Peaks)
	}

	res, err := LTTBFeatures(ts, vs, 20, feats, KindAll)
	if err != nil {
		t.Fatal(err)
	}

	if !containsIndex(res.Indices, spike) {
		t.Errorf("spike index %d not in downsampled indices %v", spike, res.Indices)
	}
	if got, want := res.Len(), 20; got != want {
		t.Errorf("len: got %d, want %d", got, want)
	}
}

func containsIndex(idx []int, i int) bool {
	for _, j := range idx {
		if j == i {
			return true
		}
	}
	return false
}

func TestLTTBProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(4, 300).Draw(t, "n")
		maxPoints := rapid.IntRange(2, n+5).Draw(t, "maxPoints")

		ts := make([]float64, n)
		vs := make([]float64, n)
		for i := range ts {
			dt := rapid.Float64Range(0.001, 10).Draw(t, "dt")
			if i > 0 {
				ts[i] = ts[i-1] + dt
			}
			vs[i] = rapid.Float64Range(-1000, 1000).Draw(t, "v")
		}

		res, err := LTTB(ts, vs, maxPoints)
		if err != nil {
			t.Fatal(err)
		}

		if res.Len() > maxPoints {
			t.Fatalf("len %d exceeds max points %d", res.Len(), maxPoints)
		}
		if res.T[0] != ts[0] || res.V[0] != vs[0] {
			t.Fatalf("first sample not preserved: got (%v, %v)", res.T[0], res.V[0])
		}
		last := res.Len() - 1
		if res.T[last] != ts[n-1] || res.V[last] != vs[n-1] {
			t.Fatalf("last sample not preserved: got (%v, %v)", res.T[last], res.V[last])
		}
		for i := 1; i < len(res.Indices); i++ {
			if res.Indices[i] <= res.Indices[i-1] {
				t.Fatalf("indices not strictly increasing: %v", res.Indices)
			}
		}

		// Reducing a result that already fits is the identity.
		again, err := LTTB(res.T, res.V, maxPoints)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.Equal(again.T, res.T) || !cmp.Equal(again.V, res.V) {
			t.Fatalf("reduction not idempotent")
		}
	})
}

// The unbiased reduction of finite series agrees with dgryski/go-lttb.
func TestLTTBReference(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(5, 200).Draw(t, "n")
		maxPoints := rapid.IntRange(3, n-1).Draw(t, "maxPoints")

		ts := make([]float64, n)
		vs := make([]float64, n)
		ref := make([]lttbref.Point[float64], n)
		for i := range ts {
			if i > 0 {
				ts[i] = ts[i-1] + rapid.Float64Range(0.001, 10).Draw(t, "dt")
			}
			vs[i] = rapid.Float64Range(-1000, 1000).Draw(t, "v")
			ref[i] = lttbref.Point[float64]{X: ts[i], Y: vs[i]}
		}

		res, err := LTTB(ts, vs, maxPoints)
		if err != nil {
			t.Fatal(err)
		}

		want := lttbref.LTTB(ref, maxPoints)
		if got := res.Len(); got != len(want) {
			t.Fatalf("len: got %d, want %d", got, len(want))
		}
		for i := range want {
			if res.T[i] != want[i].X || res.V[i] != want[i].Y {
				t.Fatalf("sample %d: got (%v, %v), want (%v, %v)",
					i, res.T[i], res.V[i], want[i].X, want[i].Y)
			}
		}
	})
}

func TestMinMax(t *testing.T) {
	t.Parallel()

	ts := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	vs := []float64{5, 1, 9, 2, 8, 3, 7, 4, 6, 0}

	res, err := MinMax(ts, vs, 2)
	if err != nil {
		t.Fatal(err)
	}

	// First bucket keeps the first sample and its maximum, second bucket
	// keeps its maximum and the last sample, which is also its minimum.
	if got, want := res.Indices, []int{0, 2, 6, 9}; !cmp.Equal(got, want) {
		t.Errorf("indices: got %v, want %v", got, want)
	}
}

func TestMinMaxDegenerateTimeAxis(t *testing.T) {
	t.Parallel()

	// All samples share one timestamp, so a single bucket holds the whole
	// series and only the endpoints survive, each emitted once.
	ts := []float64{1, 1, 1, 1}
	vs := []float64{1, 2, 3, 4}

	res, err := MinMax(ts, vs, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := res.Indices, []int{0, 3}; !cmp.Equal(got, want) {
		t.Errorf("indices: got %v, want %v", got, want)
	}
}

func TestMinMaxValidation(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name     string
		t, v     []float64
		nBuckets int
	}{
		{"zero buckets", []float64{0, 1, 2}, []float64{0, 1, 2}, 0},
		{"negative buckets", []float64{0, 1, 2}, []float64{0, 1, 2}, -1},
		{"mismatched lengths", []float64{0, 1}, []float64{0, 1, 2}, 2},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := MinMax(tc.t, tc.v, tc.nBuckets)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("got %v, want *ValidationError", err)
			}
		})
	}
}

func TestMinMaxProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(3, 300).Draw(t, "n")
		nBuckets := rapid.IntRange(1, 50).Draw(t, "nBuckets")

		ts := make([]float64, n)
		vs := make([]float64, n)
		for i := range ts {
			if i > 0 {
				// Zero spacings keep coincident timestamps in the draw.
				ts[i] = ts[i-1] + rapid.Float64Range(0, 10).Draw(t, "dt")
			}
			vs[i] = rapid.Float64Range(-1000, 1000).Draw(t, "v")
		}

		res, err := MinMax(ts, vs, nBuckets)
		if err != nil {
			t.Fatal(err)
		}

		if res.Len() > 2*nBuckets {
			t.Fatalf("len %d exceeds bound %d", res.Len(), 2*nBuckets)
		}
		if !containsIndex(res.Indices, 0) || !containsIndex(res.Indices, n-1) {
			t.Fatalf("endpoints not preserved: %v", res.Indices)
		}
		for i := 1; i < len(res.Indices); i++ {
			if res.Indices[i] <= res.Indices[i-1] {
				t.Fatalf("indices not strictly increasing: %v", res.Indices)
			}
		}
	})
}

func TestMinMaxSkipsNaN(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	ts := []float64{0, 1, 2, 3, 4, 5}
	vs := []float64{1, nan, 9, nan, 2, 3}

	res, err := MinMax(ts, vs, 3)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range res.V {
		if math.IsNaN(v) {
			t.Fatalf("NaN sample won a bucket: %v", res.Indices)
		}
	}
}

func BenchmarkLTTB(b *testing.B) {
	const n, threshold = 10000, 500
	ts := make([]float64, n)
	vs := make([]float64, n)
	ref := make([]lttbref.Point[float64], n)
	for i := range ts {
		ts[i] = float64(i)
		vs[i] = math.Sin(float64(i) / 100)
		ref[i] = lttbref.Point[float64]{X: ts[i], Y: vs[i]}
	}

	b.Run("sieveline", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := LTTB(ts, vs, threshold); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("dgryski", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = lttbref.LTTB(ref, threshold)
		}
	})
}
