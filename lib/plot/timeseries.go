package plot

import (
	"errors"
	"math"

	tsz "github.com/tsenart/go-tsz"

	sieveline "github.com/sieveline/sieveline/lib"
)

// An in-memory timeSeries of samples with high compression of both
// timestamps and values. It's not safe for concurrent use.
type timeSeries struct {
	label string
	began float64
	prev  uint64
	data  *tsz.Series
	len   int
}

func newTimeSeries(label string) *timeSeries {
	return &timeSeries{
		label: label,
		began: math.NaN(),
		data:  tsz.New(0),
	}
}

var errMonotonicTimestamp = errors.New("timeseries: non monotonically increasing timestamp")

// add appends a sample with timestamp t in seconds. Timestamps are stored
// with millisecond precision relative to the first sample added.
func (ts *timeSeries) add(t, v float64) error {
	if math.IsNaN(ts.began) {
		ts.began = t
	}

	ms := uint64(math.Round((t - ts.began) * 1e3))
	if ts.prev > ms {
		return errMonotonicTimestamp
	}

	ts.data.Push(ms, v)
	ts.prev = ms
	ts.len++

	return nil
}

// samples decompresses the series back into parallel timestamp and value
// slices, timestamps in absolute seconds.
func (ts *timeSeries) samples() (t, v []float64, err error) {
	t = make([]float64, 0, ts.len)
	v = make([]float64, 0, ts.len)

	it := ts.data.Iter()
	for it.Next() {
		ms, val := it.Values()
		t = append(t, ts.began+float64(ms)/1e3)
		v = append(v, val)
	}

	return t, v, it.Err()
}

// downsampled returns the series reduced to at most threshold samples with
// the core LTTB reduction. A threshold of zero disables downsampling.
func (ts *timeSeries) downsampled(threshold int) (t, v []float64, err error) {
	if t, v, err = ts.samples(); err != nil {
		return nil, nil, err
	}

	if threshold == 0 || ts.len <= threshold {
		return t, v, nil
	}

	res, err := sieveline.LTTB(t, v, threshold)
	if err != nil {
		return nil, nil, err
	}

	return res.T, res.V, nil
}
