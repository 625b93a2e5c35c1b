package sieveline

import "math"

// A DownsampleResult is a reduced rendering of a series. Indices point back
// into the original series, one per output sample, in original time order.
// The first and last original samples are always preserved exactly.
type DownsampleResult struct {
	T       []float64
	V       []float64
	Indices []int
}

// Len returns the number of samples in the result.
func (r *DownsampleResult) Len() int { return len(r.T) }

// Samples returns the result as Samples.
func (r *DownsampleResult) Samples() Samples { return Zip(r.T, r.V) }

func newDownsampleResult(t, v []float64, idx []int) *DownsampleResult {
	r := &DownsampleResult{
		T:       make([]float64, len(idx)),
		V:       make([]float64, len(idx)),
		Indices: idx,
	}
	for i, j := range idx {
		r.T[i], r.V[i] = t[j], v[j]
	}
	return r
}

// LTTB downsamples the series given by the parallel t and v slices to at most
// maxPoints samples using the Largest-Triangle-Three-Buckets algorithm
// described in https://skemman.is/bitstream/1946/15343/3/SS_MSthesis.pdf
//
// If the series already fits in maxPoints it is returned unchanged in a fresh
// result. The first and last samples are always kept. When several candidates
// in a bucket span an equal largest triangle, the lowest index wins.
func LTTB(t, v []float64, maxPoints int) (*DownsampleResult, error) {
	return lttb(t, v, maxPoints, nil)
}

// LTTBFeatures is like LTTB but biases bucket-local selection towards the
// given detected features of the selected kinds, so that extrema and sharp
// transitions survive the reduction. In a bucket containing one or more
// feature points, the feature point spanning the largest triangle is chosen
// in place of the unconstrained largest-triangle candidate.
func LTTBFeatures(t, v []float64, maxPoints int, feats *FeatureSet, keep FeatureKinds) (*DownsampleResult, error) {
	return lttb(t, v, maxPoints, feats.indexes(keep))
}

func lttb(t, v []float64, maxPoints int, features []int) (*DownsampleResult, error) {
	if len(t) != len(v) {
		return nil, errValidation("lttb", "mismatched lengths: len(t)=%d, len(v)=%d", len(t), len(v))
	}

	if maxPoints <= 0 {
		return nil, errValidation("lttb", "non-positive max points: %d", maxPoints)
	}

	n := len(t)
	if n <= maxPoints {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return newDownsampleResult(t, v, idx), nil
	}

	// n > maxPoints implies n >= 2. Below 3 points there is no room for
	// interior buckets: the fixed endpoints are all that remains.
	if maxPoints < 3 {
		return newDownsampleResult(t, v, []int{0, n - 1}), nil
	}

	// Bucket size. Leave room for start and end data points.
	size := float64(n-2) / float64(maxPoints-2)

	idx := make([]int, 0, maxPoints)
	idx = append(idx, 0) // Always add the first point
	a := 0

	for i := 0; i < maxPoints-2; i++ {
		// Bucket boundaries, non inclusive hi.
		lo := int(float64(i)*size) + 1
		hi := int(float64(i+1)*size) + 1
		if hi > n-1 {
			hi = n - 1
		}

		// The next bucket, whose centroid closes the triangle. The final
		// next bucket includes the last point.
		avgLo, avgHi := hi, int(float64(i+2)*size)+1
		if avgHi > n {
			avgHi = n
		}
		if avgHi <= avgLo {
			avgHi = avgLo + 1
		}

		var cx, cy float64
		var m int
		for j := avgLo; j < avgHi && j < n; j++ {
			if math.IsNaN(v[j]) {
				continue
			}
			cx, cy = cx+t[j], cy+v[j]
			m++
		}
		if m > 0 {
			cx, cy = cx/float64(m), cy/float64(m)
		} else {
			// All-NaN next bucket: close the triangle on the previous
			// selection so the area term degrades to zero.
			cx, cy = t[a], v[a]
		}

		best := lo
		if inBucket := within(features, lo, hi); len(inBucket) > 0 {
			best = largestTriangle(t, v, a, cx, cy, inBucket)
		} else {
			all := make([]int, 0, hi-lo)
			for j := lo; j < hi; j++ {
				all = append(all, j)
			}
			best = largestTriangle(t, v, a, cx, cy, all)
		}

		idx = append(idx, best)
		a = best
	}

	// Always add the last point unmodified.
	return newDownsampleResult(t, v, append(idx, n-1)), nil
}

// largestTriangle returns the candidate index whose point spans the largest
// triangle with the previously selected point a and the next bucket centroid
// (cx, cy). Ties and NaN areas keep the earliest candidate.
func largestTriangle(t, v []float64, a int, cx, cy float64, candidates []int) int {
	best := candidates[0]
	var largest float64 = -1
	for _, j := range candidates {
		area := (t[a]-cx)*(v[j]-v[a]) - (t[a]-t[j])*(cy-v[a])
		// Only the relative area matters. Squaring is cheaper than math.Abs.
		if area *= area; area > largest {
			largest, best = area, j
		}
	}
	return best
}

// within returns the subsequence of the ascending index slice that falls in
// the half-open range [lo, hi).
func within(idx []int, lo, hi int) []int {
	var out []int
	for _, i := range idx {
		if i >= hi {
			break
		}
		if i >= lo {
			out = append(out, i)
		}
	}
	return out
}

// MinMax downsamples the series given by the parallel t and v slices by
// partitioning it into nBuckets equal-width time buckets and keeping, per
// non-empty bucket, the minimum and maximum valued samples in original time
// order. Spikes and dips survive better than with plain decimation, at the
// cost of not minimizing visual area the way LTTB does.
//
// The first and last samples are always kept: in the boundary buckets they
// take the place of the bucket extreme closest to them in value. NaN samples
// never win a bucket. Output length is at most 2*nBuckets.
func MinMax(t, v []float64, nBuckets int) (*DownsampleResult, error) {
	if len(t) != len(v) {
		return nil, errValidation("minmax", "mismatched lengths: len(t)=%d, len(v)=%d", len(t), len(v))
	}

	if nBuckets <= 0 {
		return nil, errValidation("minmax", "non-positive bucket count: %d", nBuckets)
	}

	n := len(t)
	if n == 0 {
		return &DownsampleResult{}, nil
	}

	if n <= 2 || nBuckets == 1 {
		if n == 1 {
			return newDownsampleResult(t, v, []int{0}), nil
		}
		return newDownsampleResult(t, v, []int{0, n - 1}), nil
	}

	width := (t[n-1] - t[0]) / float64(nBuckets)
	if width <= 0 {
		// Degenerate time axis: every sample shares one bucket, which the
		// endpoints fill.
		return newDownsampleResult(t, v, []int{0, n - 1}), nil
	}

	type extremes struct{ min, max int }
	buckets := make([]extremes, nBuckets)
	for b := range buckets {
		buckets[b] = extremes{min: -1, max: -1}
	}

	for i := 0; i < n; i++ {
		if math.IsNaN(v[i]) {
			continue
		}
		b := int((t[i] - t[0]) / width)
		if b >= nBuckets {
			b = nBuckets - 1
		}
		if buckets[b].min < 0 || v[i] < v[buckets[b].min] {
			buckets[b].min = i
		}
		if buckets[b].max < 0 || v[i] > v[buckets[b].max] {
			buckets[b].max = i
		}
	}

	// The endpoints take a slot in their buckets: whichever extreme deviates
	// further from the endpoint value is kept alongside it.
	reserve := func(b int, endpoint int) {
		e := &buckets[b]
		if e.min < 0 {
			e.min, e.max = endpoint, endpoint
			return
		}
		if e.min == endpoint || e.max == endpoint {
			return
		}
		if math.Abs(v[e.max]-v[endpoint]) >= math.Abs(v[e.min]-v[endpoint]) {
			e.min = endpoint
		} else {
			e.max = endpoint
		}
	}
	reserve(0, 0)
	reserve(nBuckets-1, n-1)

	idx := make([]int, 0, 2*nBuckets)
	for _, e := range buckets {
		switch {
		case e.min < 0:
			// Bucket with no finite samples.
		case e.min == e.max:
			idx = append(idx, e.min)
		case e.min < e.max:
			idx = append(idx, e.min, e.max)
		default:
			idx = append(idx, e.max, e.min)
		}
	}

	return newDownsampleResult(t, v, idx), nil
}
