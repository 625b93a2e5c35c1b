package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	sieveline "github.com/sieveline/sieveline/lib"
)

const reportUsage = `Usage: sieveline report [options]

Outputs a statistical report of a series of samples: sample and gap counts,
time axis coverage, value quantiles and detected feature counts.

Options:
  --input       Input file with one sample per record. [default: stdin]
  --output      Output file. [default: stdout]
  --format      Input encoding (csv | json). [default: csv]
  --reporter    Reporter (text | json). [default: text]
  --edge-factor Edge detection threshold factor.
  --max-size    Maximum input size (e.g. 256MB), -1 for no limit.

Examples:
  sieveline report -input=sensor.csv
  cat sensor.json | sieveline report -format=json -reporter=json > metrics.json`

func reportCmd() command {
	fs := flag.NewFlagSet("sieveline report", flag.ExitOnError)
	opts := &reportOpts{maxSize: -1}

	fs.StringVar(&opts.input, "input", "stdin", "Input file")
	fs.StringVar(&opts.output, "output", "stdout", "Output file")
	fs.StringVar(&opts.format, "format", "csv", "Input encoding")
	fs.StringVar(&opts.reporter, "reporter", "text", "Reporter [text, json]")
	fs.Float64Var(&opts.edgeFactor, "edge-factor", sieveline.DefaultEdgeFactor, "Edge detection threshold factor")
	fs.Var(&maxSizeFlag{n: &opts.maxSize}, "max-size", "Maximum input size")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, reportUsage)
	}

	return command{fs, func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		return report(opts)
	}}
}

type reportOpts struct {
	input      string
	output     string
	format     string
	reporter   string
	edgeFactor float64
	maxSize    int64
}

func report(opts *reportOpts) error {
	dec, in, err := decoder(opts.input, opts.format, opts.maxSize)
	if err != nil {
		return err
	}
	defer in.Close()

	var (
		m  sieveline.Metrics
		ss sieveline.Samples
	)
	for {
		var s sieveline.Sample
		if err = dec.Decode(&s); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		ss.Add(&s)
	}
	ss.Close()

	for i := range ss {
		m.Add(&ss[i])
	}

	t, v := ss.Split()
	d := sieveline.FeatureDetector{EdgeFactor: opts.edgeFactor}
	m.AddFeatures(d.Detect(t, v))
	m.Close()

	var rep sieveline.Reporter
	switch opts.reporter {
	case "text":
		rep = sieveline.NewTextReporter(&m)
	case "json":
		rep = sieveline.NewJSONReporter(&m)
	default:
		return fmt.Errorf("unsupported reporter %q in [text, json]", opts.reporter)
	}

	out, err := file(opts.output, true)
	if err != nil {
		return err
	}
	defer out.Close()

	return rep.Report(out)
}
