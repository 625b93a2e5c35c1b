package main

import (
	"flag"
	"fmt"
	"os"

	sieveline "github.com/sieveline/sieveline/lib"
)

const downsampleUsage = `Usage: sieveline downsample [options]

Reduces a series of samples to a rendering budget while preserving its
visual shape.

The lttb algorithm picks, per bucket, the sample spanning the largest
triangle with the previous pick and the next bucket's centroid. The minmax
algorithm keeps the minimum and maximum valued sample of each time bucket,
which preserves spikes and dips better at the cost of visual smoothness.

Options:
  --input       Input file with one sample per record. [default: stdin]
  --output      Output file. [default: stdout]
  --format      Input and output encoding (csv | json). [default: csv]
  --algorithm   Downsampling algorithm (lttb | minmax). [default: lttb]
  --max-points  Point budget for lttb. [default: 4000]
  --buckets     Time bucket count for minmax. [default: 2000]
  --preserve    Comma separated feature kinds biasing lttb selection
                (peaks, valleys, edges, all). [default: none]
  --edge-factor Edge detection threshold factor used with --preserve.
  --max-size    Maximum input size (e.g. 256MB), -1 for no limit.

Examples:
  sieveline downsample -input=sensor.csv -max-points=2000 > reduced.csv
  cat sensor.json | sieveline downsample -format=json -algorithm=minmax -buckets=500`

func downsampleCmd() command {
	fs := flag.NewFlagSet("sieveline downsample", flag.ExitOnError)
	opts := &downsampleOpts{maxSize: -1}

	fs.StringVar(&opts.input, "input", "stdin", "Input file")
	fs.StringVar(&opts.output, "output", "stdout", "Output file")
	fs.StringVar(&opts.format, "format", "csv", "Input and output encoding")
	fs.StringVar(&opts.algorithm, "algorithm", "lttb", "Downsampling algorithm")
	fs.IntVar(&opts.maxPoints, "max-points", 4000, "Point budget for lttb")
	fs.IntVar(&opts.buckets, "buckets", 2000, "Time bucket count for minmax")
	fs.Var(&opts.preserve, "preserve", "Comma separated feature kinds biasing lttb selection")
	fs.Float64Var(&opts.edgeFactor, "edge-factor", sieveline.DefaultEdgeFactor, "Edge detection threshold factor")
	fs.Var(&maxSizeFlag{n: &opts.maxSize}, "max-size", "Maximum input size")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, downsampleUsage)
	}

	return command{fs, func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		return downsample(opts)
	}}
}

type downsampleOpts struct {
	input      string
	output     string
	format     string
	algorithm  string
	maxPoints  int
	buckets    int
	preserve   csl
	edgeFactor float64
	maxSize    int64
}

func downsample(opts *downsampleOpts) error {
	keep, err := opts.preserve.kinds()
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

	var res *sieveline.DownsampleResult
	switch opts.algorithm {
	case "lttb":
		if keep == 0 {
			res, err = sieveline.LTTB(t, v, opts.maxPoints)
		} else {
			d := sieveline.FeatureDetector{EdgeFactor: opts.edgeFactor}
			res, err = sieveline.LTTBFeatures(t, v, opts.maxPoints, d.Detect(t, v), keep)
		}
	case "minmax":
		res, err = sieveline.MinMax(t, v, opts.buckets)
	default:
		return fmt.Errorf("unsupported algorithm %q in [lttb, minmax]", opts.algorithm)
	}
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

	for _, s := range res.Samples() {
		if err := enc.Encode(&s); err != nil {
			return err
		}
	}

	return nil
}
