package sieveline

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// A GPRBackend fits a Gaussian process to training samples and predicts the
// posterior mean and standard deviation at query timestamps. The backend is
// a capability injected into the Interpolator at construction time, so hosts
// that must not carry a linear algebra dependency can swap in
// UnavailableGPRBackend instead of feature-detecting at run time.
type GPRBackend interface {
	FitPredict(trainT, trainV, queryT []float64) (mean, std []float64, err error)
}

// A Kernel selects the covariance family of CholeskyGPR.
type Kernel uint8

const (
	// RBF is the squared exponential kernel.
	RBF Kernel = iota
	// Matern32 is the Matérn kernel with smoothness 3/2.
	Matern32
)

// ErrGPRUnavailable is returned by UnavailableGPRBackend.
var ErrGPRUnavailable = errors.New("gpr backend not available in this build")

// UnavailableGPRBackend is the "not compiled in" GPRBackend variant.
type UnavailableGPRBackend struct{}

// FitPredict implements GPRBackend by always failing.
func (UnavailableGPRBackend) FitPredict(_, _, _ []float64) ([]float64, []float64, error) {
	return nil, nil, ErrGPRUnavailable
}

// CholeskyGPR is an exact Gaussian process regressor backed by a Cholesky
// factorization of the training covariance. Training cost is cubic in the
// number of training points, so the backend caps the training set with a
// deterministic stride subsample.
type CholeskyGPR struct {
	// Kernel selects the covariance family. The zero value is RBF.
	Kernel Kernel
	// LengthScale is the kernel length scale in time units.
	// Zero picks ten median sample spacings.
	LengthScale float64
	// NoiseVariance is added to the covariance diagonal. Zero means 1e-4,
	// relative to the standardized unit signal variance.
	NoiseVariance float64
	// MaxTrainPoints caps the training subsample. Zero means
	// DefaultMaxTrainPoints.
	MaxTrainPoints int
}

// FitPredict implements GPRBackend.
func (g *CholeskyGPR) FitPredict(trainT, trainV, queryT []float64) ([]float64, []float64, error) {
	trainT, trainV = g.subsample(trainT, trainV)
	n := len(trainT)
	if n < 2 {
		return nil, nil, errors.New("gpr: need at least 2 training samples")
	}

	ell := g.LengthScale
	if ell <= 0 {
		ell = 10 * medianSpacing(trainT)
	}
	if ell <= 0 {
		ell = 1
	}

	noise := g.NoiseVariance
	if noise <= 0 {
		noise = 1e-4
	}

	// Standardize targets so the unit signal variance prior holds.
	mu := stat.Mean(trainV, nil)
	sigma := math.Sqrt(stat.Variance(trainV, nil))
	if sigma == 0 || math.IsNaN(sigma) {
		sigma = 1
	}
	y := mat.NewVecDense(n, nil)
	for i, v := range trainV {
		y.SetVec(i, (v-mu)/sigma)
	}

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := g.cov(trainT[i], trainT[j], ell)
			if i == j {
				c += noise
			}
			k.SetSym(i, j, c)
		}
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(k); !ok {
		return nil, nil, errors.New("gpr: covariance matrix is not positive definite")
	}

	var alpha mat.VecDense
	if err := ch.SolveVecTo(&alpha, y); err != nil {
		return nil, nil, err
	}

	mean := make([]float64, len(queryT))
	std := make([]float64, len(queryT))
	ks := mat.NewVecDense(n, nil)
	var kinv mat.VecDense
	for q, x := range queryT {
		for i := 0; i < n; i++ {
			ks.SetVec(i, g.cov(x, trainT[i], ell))
		}

		mean[q] = mu + sigma*mat.Dot(ks, &alpha)

		if err := ch.SolveVecTo(&kinv, ks); err != nil {
			return nil, nil, err
		}
		variance := g.cov(x, x, ell) - mat.Dot(ks, &kinv)
		if variance < 0 {
			variance = 0
		}
		std[q] = sigma * math.Sqrt(variance)
	}

	return mean, std, nil
}

func (g *CholeskyGPR) cov(a, b, ell float64) float64 {
	d := math.Abs(a-b) / ell
	switch g.Kernel {
	case Matern32:
		s := math.Sqrt(3) * d
		return (1 + s) * math.Exp(-s)
	default:
		return math.Exp(-0.5 * d * d)
	}
}

// subsample reduces the training set to at most MaxTrainPoints samples with
// a deterministic stride, always retaining the first and last.
func (g *CholeskyGPR) subsample(t, v []float64) ([]float64, []float64) {
	max := g.MaxTrainPoints
	if max <= 0 {
		max = DefaultMaxTrainPoints
	}
	n := len(t)
	if n <= max {
		return t, v
	}

	st := make([]float64, 0, max)
	sv := make([]float64, 0, max)
	stride := float64(n-1) / float64(max-1)
	prev := -1
	for i := 0; i < max; i++ {
		j := int(math.Round(float64(i) * stride))
		if j >= n {
			j = n - 1
		}
		if j == prev {
			continue
		}
		st = append(st, t[j])
		sv = append(sv, v[j])
		prev = j
	}
	return st, sv
}

// fillGPR resolves gap positions with the configured GPRBackend, returning
// the predictive standard deviation at each gap position as confidence.
func (in *Interpolator) fillGPR(t, out []float64, finite, missing []int) ([]float64, error) {
	trainT := make([]float64, len(finite))
	trainV := make([]float64, len(finite))
	for k, i := range finite {
		trainT[k], trainV[k] = t[i], out[i]
	}

	queryT := make([]float64, len(missing))
	for k, i := range missing {
		queryT[k] = t[i]
	}

	mean, std, err := in.gpr.FitPredict(trainT, trainV, queryT)
	if err != nil {
		return nil, wrapInterpolation(in.method.String(), err, "backend fit failed")
	}

	for k, i := range missing {
		out[i] = mean[k]
	}
	return std, nil
}
