package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sieveline "github.com/sieveline/sieveline/lib"
	"github.com/sieveline/sieveline/lib/plot"
)

const plotUsage = `Usage: sieveline plot [options] [<file>...]

Outputs an HTML time series plot of one or more series of samples, one
overlaid line chart per input file. Series larger than --threshold data
points are downsampled before rendering. With --interpolate set, gaps are
filled with the given method and drawn as an extra overlaid series.

Click and drag to select a region to zoom into. Double click to zoom out.

Arguments:
  <file>  A file with one sample per record in the --format encoding.
          [default: stdin]

Options:
  --title        Title and header of the resulting HTML page.
  --format       Input encoding (csv | json). [default: csv]
  --threshold    Threshold of data points to downsample series to.
                 Series with less than --threshold data points are not
                 downsampled. [default: 4000]
  --interpolate  Also plot gaps filled with the given method.
  --output       Output file. [default: stdout]
  --max-size     Maximum input size per file (e.g. 256MB), -1 for no limit.

Examples:
  sieveline plot -threshold=2000 sensor.csv > plot.html
  cat sensor.json | sieveline plot -format=json -interpolate=linear > plot.html`

func plotCmd() command {
	fs := flag.NewFlagSet("sieveline plot", flag.ExitOnError)
	opts := &plotOpts{maxSize: -1}

	fs.StringVar(&opts.title, "title", "Sieveline Plot", "Title and header of the resulting HTML page")
	fs.StringVar(&opts.format, "format", "csv", "Input encoding")
	fs.IntVar(&opts.threshold, "threshold", 4000, "Threshold of data points above which series are downsampled.")
	fs.StringVar(&opts.interpolate, "interpolate", "", "Also plot gaps filled with the given method")
	fs.StringVar(&opts.output, "output", "stdout", "Output file")
	fs.Var(&maxSizeFlag{n: &opts.maxSize}, "max-size", "Maximum input size per file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, plotUsage)
	}

	return command{fs, func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		files := fs.Args()
		if len(files) == 0 {
			files = append(files, "stdin")
		}
		return plotRun(files, opts)
	}}
}

type plotOpts struct {
	title       string
	format      string
	threshold   int
	interpolate string
	output      string
	maxSize     int64
}

func plotRun(files []string, opts *plotOpts) error {
	var method sieveline.Method
	if opts.interpolate != "" {
		var err error
		if method, err = sieveline.ParseMethod(opts.interpolate); err != nil {
			return err
		}
	}

	p := plot.New(
		plot.Title(opts.title),
		plot.Downsample(opts.threshold),
	)

	closer := make(multiCloser, 0, len(files))
	defer closer.Close()

	for _, f := range files {
		dec, in, err := decoder(f, opts.format, opts.maxSize)
		if err != nil {
			return err
		}
		closer = append(closer, in)

		label := f
		if f != "stdin" {
			label = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}

		ss, err := sieveline.ReadAll(dec)
		if err != nil {
			return err
		}

		for i := range ss {
			if err := p.Add(label, ss[i].T, ss[i].V); err != nil {
				return err
			}
		}

		if opts.interpolate == "" {
			continue
		}

		t, v := ss.Split()
		res, err := sieveline.NewInterpolator(method).Interpolate(t, v)
		if err != nil {
			return err
		}

		filled := label + ": " + opts.interpolate
		for i := range res.Values {
			if err := p.Add(filled, t[i], res.Values[i]); err != nil {
				return err
			}
		}
	}

	p.Close()

	out, err := file(opts.output, true)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = p.WriteTo(out)
	return err
}
