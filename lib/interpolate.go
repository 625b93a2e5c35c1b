package sieveline

import (
	"math"
	"time"
)

// A Method identifies a gap-filling strategy. The set is closed: every
// Method carries compile-time exhaustiveness instead of a stringly-typed
// dispatch failing at runtime.
type Method uint8

const (
	// Linear fills gaps piecewise-linearly between the nearest finite
	// neighbors, extending flat at the series boundaries.
	Linear Method = iota
	// SplineCubic fits a natural cubic spline through the finite samples.
	SplineCubic
	// SmoothingSpline regularizes the finite samples with a second
	// difference penalty before fitting the spline.
	SmoothingSpline
	// ResampleGrid fills gaps from a uniform internal grid of linearly
	// resampled values.
	ResampleGrid
	// MLS fits a kernel-weighted local polynomial around each gap point.
	MLS
	// GPR predicts gap values with Gaussian process regression, reporting
	// predictive uncertainty as confidence.
	GPR
	// LombScargle reconstructs the signal at gap timestamps from the
	// dominant spectral components of a Lomb-Scargle periodogram.
	LombScargle
)

var methodNames = map[Method]string{
	Linear:          "linear",
	SplineCubic:     "spline_cubic",
	SmoothingSpline: "smoothing_spline",
	ResampleGrid:    "resample_grid",
	MLS:             "mls",
	GPR:             "gpr",
	LombScargle:     "lomb_scargle_spectral",
}

// String returns the wire name of the Method.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod parses a Method from its wire name. An unrecognized name fails
// with an InterpolationError naming the offending value.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errInterpolation(name, "unknown interpolation method %q", name)
}

// Methods returns the wire names of all supported methods in declaration
// order.
func Methods() []string {
	names := make([]string, len(methodNames))
	for m, n := range methodNames {
		names[m] = n
	}
	return names
}

// InterpolationInfo carries per-point provenance parallel to the output
// values. Interpolated[i]==false implies the output value at i is
// bit-identical to the input. Confidence is populated only by methods that
// produce predictive uncertainty (GPR) and is NaN at non-interpolated
// positions.
type InterpolationInfo struct {
	Interpolated []bool
	Methods      []string
	Confidence   []float64
}

// Metadata describes how an InterpolationResult was produced.
type Metadata struct {
	Method   string             `json:"method"`
	Params   map[string]float64 `json:"params,omitempty"`
	Duration time.Duration      `json:"duration"`
}

// An InterpolationResult is a densified series: the input values with gap
// positions resolved, plus provenance and metadata.
type InterpolationResult struct {
	Values []float64
	Info   InterpolationInfo
	Meta   Metadata
}

// Default interpolation parameters.
const (
	DefaultSmoothing      = 1.0
	DefaultMLSDegree      = 2
	DefaultMaxTrainPoints = 256
	DefaultNFrequencies   = 200
	DefaultNComponents    = 4
)

// An Interpolator routes gap-filling requests to a configured method.
// Construct one with NewInterpolator; the zero value dispatches to Linear.
// Interpolators are safe for concurrent use: every call allocates fresh
// outputs and no call mutates shared state.
type Interpolator struct {
	method Method

	smoothing      float64 // smoothing_spline penalty
	degree         int     // mls polynomial degree
	bandwidth      float64 // mls kernel bandwidth, 0 means auto
	gridStep       float64 // resample_grid step, 0 means median dt
	maxTrainPoints int     // gpr training cap
	nFrequencies   int     // lomb-scargle candidate frequencies
	nComponents    int     // lomb-scargle reconstruction components

	gpr GPRBackend
}

// An InterpolatorOpt is a functional option for an Interpolator.
type InterpolatorOpt func(*Interpolator)

// WithSmoothing returns an InterpolatorOpt that sets the smoothing spline
// penalty. Larger values produce smoother fits through the gaps.
func WithSmoothing(lambda float64) InterpolatorOpt {
	return func(in *Interpolator) { in.smoothing = lambda }
}

// WithDegree returns an InterpolatorOpt that sets the MLS polynomial degree.
func WithDegree(degree int) InterpolatorOpt {
	return func(in *Interpolator) { in.degree = degree }
}

// WithBandwidth returns an InterpolatorOpt that sets the MLS kernel
// bandwidth in time units. Zero selects a bandwidth from the local sample
// spacing.
func WithBandwidth(h float64) InterpolatorOpt {
	return func(in *Interpolator) { in.bandwidth = h }
}

// WithGridStep returns an InterpolatorOpt that sets the ResampleGrid step.
// Zero selects the median sample spacing.
func WithGridStep(step float64) InterpolatorOpt {
	return func(in *Interpolator) { in.gridStep = step }
}

// WithMaxTrainPoints returns an InterpolatorOpt that caps the number of
// finite samples used to train the GPR backend.
func WithMaxTrainPoints(n int) InterpolatorOpt {
	return func(in *Interpolator) { in.maxTrainPoints = n }
}

// WithFrequencies returns an InterpolatorOpt that sets the number of
// candidate frequencies scanned by the Lomb-Scargle periodogram and the
// number of dominant components used for reconstruction.
func WithFrequencies(nFrequencies, nComponents int) InterpolatorOpt {
	return func(in *Interpolator) {
		in.nFrequencies, in.nComponents = nFrequencies, nComponents
	}
}

// WithGPRBackend returns an InterpolatorOpt that injects the given
// GPRBackend. Use UnavailableGPRBackend for builds that must not carry the
// linear algebra dependency.
func WithGPRBackend(b GPRBackend) InterpolatorOpt {
	return func(in *Interpolator) { in.gpr = b }
}

// NewInterpolator returns an Interpolator for the given Method with the
// given options applied.
func NewInterpolator(method Method, opts ...InterpolatorOpt) *Interpolator {
	in := &Interpolator{
		method:         method,
		smoothing:      DefaultSmoothing,
		degree:         DefaultMLSDegree,
		maxTrainPoints: DefaultMaxTrainPoints,
		nFrequencies:   DefaultNFrequencies,
		nComponents:    DefaultNComponents,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.gpr == nil {
		in.gpr = &CholeskyGPR{MaxTrainPoints: in.maxTrainPoints}
	}

	return in
}

// Interpolate fills the gaps of the series given by the parallel t and v
// slices. Gap positions are the NaN values of v. Finite input values are
// copied bit-for-bit into the output and never marked interpolated, even
// when the underlying fit would recompute them.
func (in *Interpolator) Interpolate(t, v []float64) (*InterpolationResult, error) {
	began := time.Now()

	if len(t) != len(v) {
		return nil, errValidation("interpolate", "mismatched lengths: len(t)=%d, len(v)=%d", len(t), len(v))
	}

	var finite, missing []int
	for i := range v {
		if math.IsNaN(v[i]) {
			missing = append(missing, i)
		} else {
			finite = append(finite, i)
		}
	}

	if len(finite) < 2 {
		return nil, errInterpolation(in.method.String(),
			"insufficient finite samples: have %d, need at least 2", len(finite))
	}

	out := make([]float64, len(v))
	copy(out, v)

	res := &InterpolationResult{
		Values: out,
		Info: InterpolationInfo{
			Interpolated: make([]bool, len(v)),
			Methods:      make([]string, len(v)),
		},
		Meta: Metadata{Method: in.method.String(), Params: in.params()},
	}

	if len(missing) == 0 {
		res.Meta.Duration = time.Since(began)
		return res, nil
	}

	var confidence []float64
	var err error
	switch in.method {
	case Linear:
		err = fillLinear(t, out, finite, missing)
	case SplineCubic:
		err = in.fillSpline(t, out, finite, missing, false)
	case SmoothingSpline:
		err = in.fillSpline(t, out, finite, missing, true)
	case ResampleGrid:
		err = in.fillGrid(t, out, finite, missing)
	case MLS:
		err = in.fillMLS(t, out, finite, missing)
	case GPR:
		confidence, err = in.fillGPR(t, out, finite, missing)
	case LombScargle:
		err = in.fillLombScargle(t, out, finite, missing)
	default:
		err = errInterpolation(in.method.String(), "unknown interpolation method %q", in.method)
	}

	if err != nil {
		return nil, err
	}

	name := in.method.String()
	for _, i := range missing {
		res.Info.Interpolated[i] = true
		res.Info.Methods[i] = name
	}

	if confidence != nil {
		res.Info.Confidence = make([]float64, len(v))
		for i := range res.Info.Confidence {
			res.Info.Confidence[i] = math.NaN()
		}
		for k, i := range missing {
			res.Info.Confidence[i] = confidence[k]
		}
	}

	res.Meta.Duration = time.Since(began)
	return res, nil
}

func (in *Interpolator) params() map[string]float64 {
	switch in.method {
	case SmoothingSpline:
		return map[string]float64{"smoothing": in.smoothing}
	case ResampleGrid:
		return map[string]float64{"grid_step": in.gridStep}
	case MLS:
		return map[string]float64{
			"degree":    float64(in.degree),
			"bandwidth": in.bandwidth,
		}
	case GPR:
		return map[string]float64{"max_train_points": float64(in.maxTrainPoints)}
	case LombScargle:
		return map[string]float64{
			"n_frequencies": float64(in.nFrequencies),
			"n_components":  float64(in.nComponents),
		}
	}
	return nil
}
