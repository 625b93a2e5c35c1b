package sieveline

import (
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// minSplinePoints is the minimum number of finite samples the spline
// methods need for a well-posed fit.
const minSplinePoints = 4

// fillSpline resolves gap positions from a natural cubic spline through the
// finite samples. With smooth set, the finite values are first regularized
// with a Whittaker-style second difference penalty so that the spline rides
// the trend instead of every excursion. Evaluation is clamped to the finite
// time domain, extending flat at the boundaries.
func (in *Interpolator) fillSpline(t, out []float64, finite, missing []int, smooth bool) error {
	xs, ys := splineKnots(t, out, finite)
	if len(xs) < minSplinePoints {
		return errInterpolation(in.method.String(),
			"insufficient finite samples: have %d, need at least %d", len(xs), minSplinePoints)
	}

	if smooth {
		var err error
		if ys, err = whittaker(ys, in.smoothing); err != nil {
			return wrapInterpolation(in.method.String(), err, "smoothing solve failed")
		}
	}

	var nc interp.NaturalCubic
	if err := nc.Fit(xs, ys); err != nil {
		return wrapInterpolation(in.method.String(), err, "spline fit failed")
	}

	lo, hi := xs[0], xs[len(xs)-1]
	for _, i := range missing {
		x := t[i]
		if x < lo {
			x = lo
		} else if x > hi {
			x = hi
		}
		out[i] = nc.Predict(x)
	}
	return nil
}

// splineKnots returns the strictly increasing knots of the finite samples,
// keeping the first sample of any run sharing a timestamp.
func splineKnots(t, v []float64, finite []int) (xs, ys []float64) {
	xs = make([]float64, 0, len(finite))
	ys = make([]float64, 0, len(finite))
	for _, i := range finite {
		if len(xs) > 0 && t[i] <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, t[i])
		ys = append(ys, v[i])
	}
	return xs, ys
}

// whittaker solves (I + lambda*D'D) z = y where D is the second difference
// operator, returning the smoothed values z.
func whittaker(y []float64, lambda float64) ([]float64, error) {
	m := len(y)
	if lambda <= 0 || m < 3 {
		z := make([]float64, m)
		copy(z, y)
		return z, nil
	}

	a := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		a.SetSym(i, i, 1)
	}

	// D'D for the (m-2)xm second difference matrix is pentadiagonal with
	// rows of [1 -2 1] stencils accumulated along the diagonal.
	for r := 0; r < m-2; r++ {
		stencil := [3]float64{1, -2, 1}
		for p := 0; p < 3; p++ {
			for q := p; q < 3; q++ {
				i, j := r+p, r+q
				a.SetSym(i, j, a.At(i, j)+lambda*stencil[p]*stencil[q])
			}
		}
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(a); !ok {
		return nil, errInterpolation("smoothing_spline", "penalty system is not positive definite")
	}

	var z mat.VecDense
	if err := ch.SolveVecTo(&z, mat.NewVecDense(m, y)); err != nil {
		return nil, err
	}

	out := make([]float64, m)
	copy(out, z.RawVector().Data)
	return out, nil
}
