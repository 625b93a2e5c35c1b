package sieveline

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fillMLS resolves each gap position with a moving least squares fit: a
// polynomial of the configured degree, fit to the finite neighborhood of the
// gap point under a Gaussian kernel centered on it. The bandwidth widens
// until the fit has enough support, so isolated gap points in sparse regions
// still resolve. Finite samples are never touched.
func (in *Interpolator) fillMLS(t, out []float64, finite, missing []int) error {
	degree := in.degree
	if degree < 1 {
		degree = DefaultMLSDegree
	}

	if len(finite) < degree+1 {
		return errInterpolation(in.method.String(),
			"insufficient finite samples: have %d, need at least %d for degree %d",
			len(finite), degree+1, degree)
	}

	base := in.bandwidth
	if base <= 0 {
		base = float64(degree+1) * medianSpacing(t)
	}
	if base <= 0 {
		base = 1
	}

	span := t[finite[len(finite)-1]] - t[finite[0]]

	for _, i := range missing {
		v, err := mlsAt(t, out, finite, t[i], degree, base, span)
		if err != nil {
			return wrapInterpolation(in.method.String(), err, "local fit failed")
		}
		out[i] = v
	}
	return nil
}

// mlsAt fits the weighted polynomial centered at x and returns its value
// there. The kernel bandwidth doubles until at least degree+1 samples carry
// non-negligible weight, capped at the finite time span.
func mlsAt(t, v []float64, finite []int, x float64, degree int, bandwidth, span float64) (float64, error) {
	const minWeight = 1e-12

	h := bandwidth
	var support []int
	for {
		support = support[:0]
		for _, j := range finite {
			d := (t[j] - x) / h
			if math.Exp(-d*d) > minWeight {
				support = append(support, j)
			}
		}
		if len(support) >= degree+1 || h > 2*span && span > 0 {
			break
		}
		if span <= 0 {
			break
		}
		h *= 2
	}

	if len(support) < degree+1 {
		support = finite
	}

	// Weighted Vandermonde in the scaled local coordinate u = (t-x)/h.
	// The fitted value at x is the constant coefficient.
	rows, cols := len(support), degree+1
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for r, j := range support {
		u := (t[j] - x) / h
		w := math.Sqrt(math.Exp(-u * u))
		pow := 1.0
		for c := 0; c < cols; c++ {
			a.Set(r, c, w*pow)
			pow *= u
		}
		b.SetVec(r, w*v[j])
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return 0, err
	}

	return coef.AtVec(0), nil
}
