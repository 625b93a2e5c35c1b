package sieveline

import (
	"math"

	perks "github.com/bmizerany/perks/quantile"
	gk "github.com/dgryski/go-gk"
	"github.com/influxdata/tdigest"
	"github.com/streadway/quantile"
)

// An Estimator is a streaming quantile estimator.
type Estimator interface {
	Add(sample float64)
	Get(quantile float64) float64
}

type quantileEstimator struct{ *quantile.Estimator }

func (e quantileEstimator) Add(s float64) { e.Estimator.Add(s) }

func (e quantileEstimator) Get(q float64) float64 { return e.Estimator.Get(q) }

// NewQuantileEstimator returns an Estimator with the given invariant
// quantile targets, backed by streadway/quantile.
func NewQuantileEstimator(targets ...float64) Estimator {
	estimates := make([]quantile.Estimate, len(targets))
	for i, t := range targets {
		estimates[i] = quantile.Known(t, 0.001)
	}
	return quantileEstimator{quantile.New(estimates...)}
}

type tdigestEstimator struct{ *tdigest.TDigest }

func (e tdigestEstimator) Add(s float64) { e.TDigest.Add(s, 1) }

func (e tdigestEstimator) Get(q float64) float64 { return e.TDigest.Quantile(q) }

// NewTDigestEstimator returns an Estimator backed by an influxdata t-digest
// with the given compression.
func NewTDigestEstimator(compression float64) Estimator {
	return tdigestEstimator{tdigest.NewWithCompression(compression)}
}

type gkEstimator struct{ *gk.Stream }

func (e gkEstimator) Add(s float64) { e.Stream.Insert(s) }

func (e gkEstimator) Get(q float64) float64 { return e.Stream.Query(q) }

// NewGKEstimator returns a Greenwald-Khanna Estimator with the given
// epsilon error bound.
func NewGKEstimator(epsilon float64) Estimator {
	return gkEstimator{gk.New(epsilon)}
}

type perksEstimator struct{ *perks.Stream }

func (e perksEstimator) Add(s float64) { e.Stream.Insert(s) }

func (e perksEstimator) Get(q float64) float64 { return e.Stream.Query(q) }

// NewPerksEstimator returns an Estimator targeting the given quantiles,
// backed by bmizerany/perks.
func NewPerksEstimator(targets ...float64) Estimator {
	return perksEstimator{perks.NewTargeted(targets...)}
}

// ValueMetrics holds computed value statistics of a series.
type ValueMetrics struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	P50  float64 `json:"50th"`
	P90  float64 `json:"90th"`
	P95  float64 `json:"95th"`
	P99  float64 `json:"99th"`

	estimator Estimator
	sum       float64
	count     uint64
}

// TimeMetrics holds computed time axis statistics of a series.
type TimeMetrics struct {
	Earliest    float64 `json:"earliest"`
	Latest      float64 `json:"latest"`
	Span        float64 `json:"span"`
	MeanSpacing float64 `json:"mean_spacing"`
}

// GapMetrics holds statistics over the NaN runs of a series.
type GapMetrics struct {
	Missing uint64 `json:"missing"`
	Runs    uint64 `json:"runs"`
	Longest uint64 `json:"longest"`

	run uint64
}

// FeatureMetrics holds detected feature counts of a series.
type FeatureMetrics struct {
	Peaks   int `json:"peaks"`
	Valleys int `json:"valleys"`
	Edges   int `json:"edges"`
}

// Metrics holds the stats computed out of a stream of Samples. Feed it with
// Add in timestamp order and seal it with Close before reading the computed
// fields.
type Metrics struct {
	Samples  uint64         `json:"samples"`
	Time     TimeMetrics    `json:"time"`
	Values   ValueMetrics   `json:"values"`
	Gaps     GapMetrics     `json:"gaps"`
	Features FeatureMetrics `json:"features"`
}

// Add ingests the given Sample into the Metrics.
func (m *Metrics) Add(s *Sample) {
	m.init()

	if m.Samples == 0 {
		m.Time.Earliest = s.T
	}
	m.Time.Latest = s.T
	m.Samples++

	if math.IsNaN(s.V) {
		m.Gaps.Missing++
		if m.Gaps.run++; m.Gaps.run > m.Gaps.Longest {
			m.Gaps.Longest = m.Gaps.run
		}
		if m.Gaps.run == 1 {
			m.Gaps.Runs++
		}
		return
	}
	m.Gaps.run = 0

	v := &m.Values
	if v.count == 0 || s.V < v.Min {
		v.Min = s.V
	}
	if v.count == 0 || s.V > v.Max {
		v.Max = s.V
	}
	v.sum += s.V
	v.count++
	v.estimator.Add(s.V)
}

// AddFeatures records the detected features of the series.
func (m *Metrics) AddFeatures(fs *FeatureSet) {
	m.Features = FeatureMetrics{
		Peaks:   len(fs.Peaks),
		Valleys: len(fs.Valleys),
		Edges:   len(fs.Edges),
	}
}

// Close computes the derived fields of the Metrics.
func (m *Metrics) Close() {
	m.init()

	m.Time.Span = m.Time.Latest - m.Time.Earliest
	if m.Samples > 1 {
		m.Time.MeanSpacing = m.Time.Span / float64(m.Samples-1)
	}

	v := &m.Values
	if v.count == 0 {
		return
	}
	v.Mean = v.sum / float64(v.count)
	v.P50 = v.estimator.Get(0.50)
	v.P90 = v.estimator.Get(0.90)
	v.P95 = v.estimator.Get(0.95)
	v.P99 = v.estimator.Get(0.99)
}

func (m *Metrics) init() {
	if m.Values.estimator == nil {
		m.Values.estimator = NewQuantileEstimator(0.50, 0.90, 0.95, 0.99)
	}
}
