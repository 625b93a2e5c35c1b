package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	sieveline "github.com/sieveline/sieveline/lib"
)

const interpolateUsage = `Usage: sieveline interpolate [options]

Fills the gaps (NaN values) of a series of samples with the selected
interpolation method and writes the densified series out. Finite input
values pass through untouched.

Methods:
  linear                 Piecewise-linear fill between finite neighbors.
  spline_cubic           Natural cubic spline through the finite samples.
  smoothing_spline       Penalized spline controlled by --smoothing.
  resample_grid          Linear fill read off a uniform internal grid.
  mls                    Moving least squares local polynomial fit.
  gpr                    Gaussian process regression with uncertainty.
  lomb_scargle_spectral  Spectral reconstruction for quasi-periodic series.

Options:
  --input        Input file with one sample per record. [default: stdin]
  --output       Output file. [default: stdout]
  --format       Input and output encoding (csv | json). [default: csv]
  --method       Interpolation method. [default: linear]
  --smoothing    Smoothing spline penalty. [default: 1.0]
  --degree       MLS polynomial degree. [default: 2]
  --bandwidth    MLS kernel bandwidth in time units, 0 for automatic.
  --grid-step    Grid step for resample_grid, 0 for median spacing.
  --max-train    Training sample cap for gpr. [default: 256]
  --frequencies  Candidate frequency count for lomb_scargle_spectral.
  --components   Reconstruction component count for lomb_scargle_spectral.
  --max-size     Maximum input size (e.g. 256MB), -1 for no limit.

Examples:
  sieveline interpolate -input=sensor.csv -method=linear > filled.csv
  cat sparse.json | sieveline interpolate -format=json -method=gpr -max-train=128`

func interpolateCmd() command {
	fs := flag.NewFlagSet("sieveline interpolate", flag.ExitOnError)
	opts := &interpolateOpts{maxSize: -1}

	fs.StringVar(&opts.input, "input", "stdin", "Input file")
	fs.StringVar(&opts.output, "output", "stdout", "Output file")
	fs.StringVar(&opts.format, "format", "csv", "Input and output encoding")
	fs.StringVar(&opts.method, "method", "linear",
		fmt.Sprintf("Interpolation method [%s]", strings.Join(sieveline.Methods(), ", ")))
	fs.Float64Var(&opts.smoothing, "smoothing", sieveline.DefaultSmoothing, "Smoothing spline penalty")
	fs.IntVar(&opts.degree, "degree", sieveline.DefaultMLSDegree, "MLS polynomial degree")
	fs.Float64Var(&opts.bandwidth, "bandwidth", 0, "MLS kernel bandwidth in time units")
	fs.Float64Var(&opts.gridStep, "grid-step", 0, "Grid step for resample_grid")
	fs.IntVar(&opts.maxTrain, "max-train", sieveline.DefaultMaxTrainPoints, "Training sample cap for gpr")
	fs.IntVar(&opts.frequencies, "frequencies", sieveline.DefaultNFrequencies, "Candidate frequency count")
	fs.IntVar(&opts.components, "components", sieveline.DefaultNComponents, "Reconstruction component count")
	fs.Var(&maxSizeFlag{n: &opts.maxSize}, "max-size", "Maximum input size")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, interpolateUsage)
	}

	return command{fs, func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		return interpolate(opts)
	}}
}

type interpolateOpts struct {
	input       string
	output      string
	format      string
	method      string
	smoothing   float64
	degree      int
	bandwidth   float64
	gridStep    float64
	maxTrain    int
	frequencies int
	components  int
	maxSize     int64
}

func interpolate(opts *interpolateOpts) error {
	method, err := sieveline.ParseMethod(opts.method)
	if err != nil {
		return err
	}

	dec, in, err := decoder(opts.input, opts.format, opts.maxSize)
	if err != nil {
		return err
	}
	defer in.Close()

	ss, err := sieveline.ReadAll(dec)
	if err != nil {
		return err
	}

	t, v := ss.Split()

	ip := sieveline.NewInterpolator(method,
		sieveline.WithSmoothing(opts.smoothing),
		sieveline.WithDegree(opts.degree),
		sieveline.WithBandwidth(opts.bandwidth),
		sieveline.WithGridStep(opts.gridStep),
		sieveline.WithMaxTrainPoints(opts.maxTrain),
		sieveline.WithFrequencies(opts.frequencies, opts.components),
	)

	res, err := ip.Interpolate(t, v)
	if err != nil {
		return err
	}

	out, err := file(opts.output, true)
	if err != nil {
		return err
	}
	defer out.Close()

	enc, err := encoderFor(out, opts.format)
	if err != nil {
		return err
	}

	for i := range res.Values {
		s := sieveline.Sample{T: t[i], V: res.Values[i]}
		if err := enc.Encode(&s); err != nil {
			return err
		}
	}

	return nil
}
