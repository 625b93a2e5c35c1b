package sieveline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// fillLombScargle reconstructs gap values from the dominant spectral
// components of the finite samples. A Lomb-Scargle periodogram, which unlike
// an FFT needs no uniform sampling, scores nFrequencies candidates between
// one cycle per span and the pseudo-Nyquist limit; the top nComponents peaks
// are refit as sinusoids by least squares and evaluated at the gap
// timestamps. Suits quasi-periodic signals where splines would ring.
func (in *Interpolator) fillLombScargle(t, out []float64, finite, missing []int) error {
	method := in.method.String()

	xs := make([]float64, len(finite))
	ys := make([]float64, len(finite))
	for k, i := range finite {
		xs[k], ys[k] = t[i], out[i]
	}

	span := xs[len(xs)-1] - xs[0]
	dt := medianSpacing(xs)
	if span <= 0 || dt <= 0 {
		return errInterpolation(method, "degenerate time axis: span=%v", span)
	}

	nf := in.nFrequencies
	if nf <= 0 {
		nf = DefaultNFrequencies
	}
	if nf < 2 {
		nf = 2
	}
	nc := in.nComponents
	if nc <= 0 {
		nc = DefaultNComponents
	}
	// Each component consumes two regression columns next to the mean term.
	if max := (len(xs) - 1) / 2; nc > max {
		nc = max
	}
	if nc == 0 {
		return errInterpolation(method,
			"insufficient finite samples: have %d, need at least 3", len(xs))
	}

	mean := floats.Sum(ys) / float64(len(ys))
	resid := make([]float64, len(ys))
	for i, y := range ys {
		resid[i] = y - mean
	}

	fmin := 1 / span
	fmax := 0.5 / dt
	if fmax <= fmin {
		fmax = 2 * fmin
	}

	freqs := make([]float64, nf)
	power := make([]float64, nf)
	for i := range freqs {
		freqs[i] = fmin + (fmax-fmin)*float64(i)/float64(nf-1)
		power[i] = lombScarglePower(xs, resid, freqs[i])
	}

	top := topPeaks(freqs, power, nc)

	// Least squares sinusoid refit: mean + sum of sin/cos pairs at the
	// selected frequencies.
	rows, cols := len(xs), 1+2*len(top)
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, ys)
	for r, x := range xs {
		a.Set(r, 0, 1)
		for k, f := range top {
			w := 2 * math.Pi * f * x
			a.Set(r, 1+2*k, math.Sin(w))
			a.Set(r, 2+2*k, math.Cos(w))
		}
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return wrapInterpolation(method, err, "sinusoid refit failed")
	}

	for _, i := range missing {
		x := t[i]
		v := coef.AtVec(0)
		for k, f := range top {
			w := 2 * math.Pi * f * x
			v += coef.AtVec(1+2*k)*math.Sin(w) + coef.AtVec(2+2*k)*math.Cos(w)
		}
		out[i] = v
	}
	return nil
}

// lombScarglePower computes the classic tau-corrected Lomb-Scargle
// periodogram power of the centered samples at frequency f.
func lombScarglePower(t, y []float64, f float64) float64 {
	omega := 2 * math.Pi * f

	var s2, c2 float64
	for _, x := range t {
		s2 += math.Sin(2 * omega * x)
		c2 += math.Cos(2 * omega * x)
	}
	tau := math.Atan2(s2, c2) / (2 * omega)

	var ys, yc, ss, cc float64
	for i, x := range t {
		s, c := math.Sincos(omega * (x - tau))
		ys += y[i] * s
		yc += y[i] * c
		ss += s * s
		cc += c * c
	}

	var p float64
	if cc > 0 {
		p += yc * yc / cc
	}
	if ss > 0 {
		p += ys * ys / ss
	}
	return 0.5 * p
}

// topPeaks returns the frequencies of up to n local maxima of the power
// spectrum, strongest first. When the spectrum has fewer local maxima than
// n, the strongest remaining bins fill the budget.
func topPeaks(freqs, power []float64, n int) []float64 {
	type bin struct {
		f, p float64
		peak bool
	}

	bins := make([]bin, len(power))
	for i := range power {
		peak := true
		if i > 0 && power[i] <= power[i-1] {
			peak = false
		}
		if i < len(power)-1 && power[i] < power[i+1] {
			peak = false
		}
		bins[i] = bin{f: freqs[i], p: power[i], peak: peak}
	}

	sort.SliceStable(bins, func(i, j int) bool {
		if bins[i].peak != bins[j].peak {
			return bins[i].peak
		}
		return bins[i].p > bins[j].p
	})

	if n > len(bins) {
		n = len(bins)
	}
	top := make([]float64, 0, n)
	for _, b := range bins[:n] {
		top = append(top, b.f)
	}
	return top
}
