package sieveline

import (
	"math"

	"github.com/influxdata/tdigest"
)

const (
	// DefaultEdgeFactor is the default multiple of the robust slope scale
	// beyond which a transition between neighboring samples counts as an edge.
	DefaultEdgeFactor = 4.0

	// edgeDigestCompression controls the accuracy of the t-digest used to
	// estimate slope quantiles during edge detection.
	edgeDigestCompression = 100
)

// A FeatureSet holds disjoint index sets of visually significant points
// in a series: local maxima, local minima and sharp transitions.
type FeatureSet struct {
	Peaks   []int
	Valleys []int
	Edges   []int
}

// FeatureKinds selects which kinds of features an operation should consider.
type FeatureKinds uint8

const (
	KindPeaks FeatureKinds = 1 << iota
	KindValleys
	KindEdges

	KindAll = KindPeaks | KindValleys | KindEdges
)

// Has returns true if all of the given kinds are set.
func (k FeatureKinds) Has(kind FeatureKinds) bool { return k&kind == kind }

// indexes returns the indices of the selected kinds merged into one
// ascending, de-duplicated slice.
func (fs *FeatureSet) indexes(keep FeatureKinds) []int {
	if fs == nil || keep == 0 {
		return nil
	}

	seen := map[int]struct{}{}
	var idx []int
	add := func(is []int) {
		for _, i := range is {
			if _, ok := seen[i]; !ok {
				seen[i] = struct{}{}
				idx = append(idx, i)
			}
		}
	}

	if keep.Has(KindPeaks) {
		add(fs.Peaks)
	}
	if keep.Has(KindValleys) {
		add(fs.Valleys)
	}
	if keep.Has(KindEdges) {
		add(fs.Edges)
	}

	// Peaks, valleys and edges are each ascending; the merge isn't.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && idx[j] < idx[j-1]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}

	return idx
}

// A FeatureDetector scans a series for local maxima, local minima and sharp
// transitions. Detection is a pure function over its inputs: the zero value
// with DefaultEdgeFactor applied by Detect is ready for use and safe for
// concurrent use.
type FeatureDetector struct {
	// EdgeFactor is the multiple of the robust slope scale beyond which a
	// transition is flagged as an edge. Zero means DefaultEdgeFactor.
	EdgeFactor float64
}

// Detect returns the features of the series given by the parallel t and v
// slices. Fewer than 3 samples yields empty feature sets. NaN values never
// qualify as features. Mismatched slice lengths are tolerated by scanning
// the common prefix.
func (d FeatureDetector) Detect(t, v []float64) *FeatureSet {
	n := len(t)
	if len(v) < n {
		n = len(v)
	}

	fs := &FeatureSet{}
	if n < 3 {
		return fs
	}

	extremum := make(map[int]struct{}, n/8)
	for i := 1; i < n-1; i++ {
		switch {
		case v[i] > v[i-1] && v[i] > v[i+1]:
			fs.Peaks = append(fs.Peaks, i)
			extremum[i] = struct{}{}
		case v[i] < v[i-1] && v[i] < v[i+1]:
			fs.Valleys = append(fs.Valleys, i)
			extremum[i] = struct{}{}
		}
	}

	factor := d.EdgeFactor
	if factor == 0 {
		factor = DefaultEdgeFactor
	}

	// Robust scale of the slope distribution: interquartile range of |dv/dt|
	// estimated with a t-digest, falling back to the mean when the series is
	// mostly flat and the IQR collapses to zero.
	slopes := make([]float64, n-1)
	td := tdigest.NewWithCompression(edgeDigestCompression)
	var sum float64
	var finite int
	for i := 0; i < n-1; i++ {
		dt := t[i+1] - t[i]
		if dt <= 0 {
			slopes[i] = math.NaN()
			continue
		}
		r := math.Abs((v[i+1] - v[i]) / dt)
		slopes[i] = r
		if !math.IsNaN(r) {
			td.Add(r, 1)
			sum += r
			finite++
		}
	}

	if finite == 0 {
		return fs
	}

	scale := td.Quantile(0.75) - td.Quantile(0.25)
	if scale <= 0 {
		scale = sum / float64(finite)
	}
	if scale <= 0 {
		return fs
	}

	threshold := factor * scale
	for i, r := range slopes {
		if math.IsNaN(r) || r <= threshold {
			continue
		}
		// The landing point of the jump is the edge. Keep the three sets
		// disjoint: an extremum is never also an edge.
		if _, ok := extremum[i+1]; !ok {
			fs.Edges = append(fs.Edges, i+1)
		}
	}

	return fs
}
