package sieveline

import "sort"

// fillLinear resolves each gap position piecewise-linearly between its
// nearest finite neighbors. Gaps at the series boundary extend the nearest
// finite value flat instead of extrapolating, to avoid unbounded values.
func fillLinear(t, out []float64, finite, missing []int) error {
	for _, i := range missing {
		l, r := neighbors(finite, i)
		switch {
		case l < 0:
			out[i] = out[r]
		case r < 0:
			out[i] = out[l]
		case t[r] == t[l]:
			out[i] = out[l]
		default:
			frac := (t[i] - t[l]) / (t[r] - t[l])
			out[i] = out[l] + frac*(out[r]-out[l])
		}
	}
	return nil
}

// neighbors returns the nearest finite indices on each side of i, or -1
// when a side has none. finite is ascending.
func neighbors(finite []int, i int) (l, r int) {
	k := sort.SearchInts(finite, i)
	l, r = -1, -1
	if k > 0 {
		l = finite[k-1]
	}
	if k < len(finite) {
		r = finite[k]
	}
	return l, r
}

// fillGrid resamples the finite samples onto a uniform internal grid and
// reads gap values off the grid, linearly between the surrounding grid
// nodes. The output stays aligned to the input timestamps; the grid never
// leaves this function.
func (in *Interpolator) fillGrid(t, out []float64, finite, missing []int) error {
	step := in.gridStep
	if step <= 0 {
		step = medianSpacing(t)
	}
	if step <= 0 {
		// Degenerate time axis: every sample shares one timestamp.
		return fillLinear(t, out, finite, missing)
	}

	t0, tn := t[finite[0]], t[finite[len(finite)-1]]
	n := int((tn-t0)/step) + 1
	if n < 2 {
		return fillLinear(t, out, finite, missing)
	}

	// Linear values at the grid nodes, from the finite samples.
	grid := make([]float64, n)
	for g := 0; g < n; g++ {
		grid[g] = linearAt(t, out, finite, t0+float64(g)*step)
	}

	for _, i := range missing {
		x := t[i]
		switch {
		case x <= t0:
			out[i] = grid[0]
		case x >= t0+float64(n-1)*step:
			out[i] = grid[n-1]
		default:
			g := int((x - t0) / step)
			frac := (x - (t0 + float64(g)*step)) / step
			out[i] = grid[g] + frac*(grid[g+1]-grid[g])
		}
	}
	return nil
}

// linearAt evaluates the piecewise-linear interpolant of the finite samples
// at time x, flat beyond the finite domain.
func linearAt(t, v []float64, finite []int, x float64) float64 {
	k := sort.Search(len(finite), func(k int) bool { return t[finite[k]] >= x })
	if k == 0 {
		return v[finite[0]]
	}
	if k == len(finite) {
		return v[finite[len(finite)-1]]
	}
	l, r := finite[k-1], finite[k]
	if t[r] == t[l] {
		return v[l]
	}
	frac := (x - t[l]) / (t[r] - t[l])
	return v[l] + frac*(v[r]-v[l])
}

// medianSpacing returns the median positive spacing of the time axis, or 0
// when there is none.
func medianSpacing(t []float64) float64 {
	var dts []float64
	for i := 1; i < len(t); i++ {
		if dt := t[i] - t[i-1]; dt > 0 {
			dts = append(dts, dt)
		}
	}
	if len(dts) == 0 {
		return 0
	}
	sort.Float64s(dts)
	return dts[len(dts)/2]
}
